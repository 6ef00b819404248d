package flac

// ApplicationBlock carries an application-specific registered ID and an
// opaque payload (spec.md §4.3 APPLICATION).
type ApplicationBlock struct {
	ID   [4]byte
	Data []byte
}

func parseApplication(body *boundedSource, declaredLength uint32) (*ApplicationBlock, error) {
	if declaredLength < 4 {
		return nil, newFormatError("APPLICATION block declares length %d, too short for a 4-byte ID", declaredLength)
	}
	app := &ApplicationBlock{}
	if _, err := body.Read(app.ID[:]); err != nil {
		return nil, unexpected(err)
	}
	app.Data = make([]byte, declaredLength-4)
	if _, err := body.Read(app.Data); err != nil {
		return nil, unexpected(err)
	}
	return app, nil
}
