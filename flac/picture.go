package flac

import "encoding/binary"

// Picture is a PICTURE metadata block: embedded cover art or similar
// artwork (spec.md §4.3 PICTURE).
type Picture struct {
	Type        uint32
	MimeType    string
	Description string
	Width       uint32
	Height      uint32
	Depth       uint32
	Colors      uint32 // 0 for non-indexed color
	Data        []byte
}

func parsePicture(body *boundedSource, declaredLength, maxDataLength uint32) (*Picture, error) {
	p := &Picture{}

	typeBuf := make([]byte, 4)
	if _, err := body.Read(typeBuf); err != nil {
		return nil, unexpected(err)
	}
	p.Type = binary.BigEndian.Uint32(typeBuf)

	mime, err := readPictureString(body, declaredLength)
	if err != nil {
		return nil, err
	}
	p.MimeType = mime

	desc, err := readPictureString(body, declaredLength)
	if err != nil {
		return nil, err
	}
	p.Description = desc

	dims := make([]byte, 16)
	if _, err := body.Read(dims); err != nil {
		return nil, unexpected(err)
	}
	p.Width = binary.BigEndian.Uint32(dims[0:4])
	p.Height = binary.BigEndian.Uint32(dims[4:8])
	p.Depth = binary.BigEndian.Uint32(dims[8:12])
	p.Colors = binary.BigEndian.Uint32(dims[12:16])

	dataLenBuf := make([]byte, 4)
	if _, err := body.Read(dataLenBuf); err != nil {
		return nil, unexpected(err)
	}
	dataLen := binary.BigEndian.Uint32(dataLenBuf)
	if dataLen > declaredLength {
		return nil, newFormatError("PICTURE data length %d larger than the enclosing block", dataLen)
	}
	if dataLen > maxDataLength {
		return nil, newUnsupportedError("PICTURE data declares length %d, exceeds %d byte limit", dataLen, maxDataLength)
	}
	p.Data = make([]byte, dataLen)
	if _, err := body.Read(p.Data); err != nil {
		return nil, unexpected(err)
	}
	return p, nil
}

// readPictureString reads one uint32-big-endian-length-prefixed ASCII or
// UTF-8 string (MIME type or description field), bounded by the enclosing
// block's declared length per SPEC_FULL.md §D DoS hardening.
func readPictureString(body *boundedSource, enclosingLength uint32) (string, error) {
	lenBuf := make([]byte, 4)
	if _, err := body.Read(lenBuf); err != nil {
		return "", unexpected(err)
	}
	n := binary.BigEndian.Uint32(lenBuf)
	if n > enclosingLength {
		return "", newFormatError("PICTURE string declares length %d, larger than the enclosing block", n)
	}
	buf := make([]byte, n)
	if _, err := body.Read(buf); err != nil {
		return "", unexpected(err)
	}
	return string(buf), nil
}
