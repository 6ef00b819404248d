package flac

// CueSheetTrackIndex is one index point within a cue sheet track.
type CueSheetTrackIndex struct {
	Offset uint64 // sample offset relative to the track's start
	Number uint8
}

// CueSheetTrack is one track entry of a CUESHEET block.
type CueSheetTrack struct {
	Offset      uint64 // sample offset relative to the cue sheet's lead-in
	Number      uint8
	ISRC        string
	IsAudio     bool
	PreEmphasis bool
	Indices     []CueSheetTrackIndex
}

// CueSheet describes the track/index layout of a disc image, mirroring the
// CD-DA table of contents (spec.md §4.3 CUESHEET).
type CueSheet struct {
	MediaCatalogNumber string
	LeadInSamples      uint64
	IsCD               bool
	Tracks             []CueSheetTrack
}

func parseCueSheet(body *boundedSource) (*CueSheet, error) {
	cs := &CueSheet{}

	mcn := make([]byte, 128)
	if _, err := body.Read(mcn); err != nil {
		return nil, unexpected(err)
	}
	cs.MediaCatalogNumber = cStringTrim(mcn)

	br := newBitReader(body)
	leadIn, err := br.readU(32)
	if err != nil {
		return nil, unexpected(err)
	}
	leadInLo, err := br.readU(32)
	if err != nil {
		return nil, unexpected(err)
	}
	cs.LeadInSamples = uint64(leadIn)<<32 | uint64(leadInLo)

	isCD, err := br.readU(1)
	if err != nil {
		return nil, unexpected(err)
	}
	cs.IsCD = isCD == 1

	if _, err := br.readU(7); err != nil { // reserved
		return nil, unexpected(err)
	}
	reservedBytes := make([]byte, 258)
	if _, err := body.Read(reservedBytes); err != nil {
		return nil, unexpected(err)
	}

	numTracks, err := br.readU(8)
	if err != nil {
		return nil, unexpected(err)
	}

	cs.Tracks = make([]CueSheetTrack, numTracks)
	for i := range cs.Tracks {
		t := &cs.Tracks[i]

		hi, err := br.readU(32)
		if err != nil {
			return nil, unexpected(err)
		}
		lo, err := br.readU(32)
		if err != nil {
			return nil, unexpected(err)
		}
		t.Offset = uint64(hi)<<32 | uint64(lo)

		num, err := br.readU(8)
		if err != nil {
			return nil, unexpected(err)
		}
		t.Number = uint8(num)

		isrc := make([]byte, 12)
		if _, err := body.Read(isrc); err != nil {
			return nil, unexpected(err)
		}
		t.ISRC = cStringTrim(isrc)

		audioBit, err := br.readU(1)
		if err != nil {
			return nil, unexpected(err)
		}
		t.IsAudio = audioBit == 0

		preEmph, err := br.readU(1)
		if err != nil {
			return nil, unexpected(err)
		}
		t.PreEmphasis = preEmph == 1

		if _, err := br.readU(6); err != nil { // reserved
			return nil, unexpected(err)
		}
		trackReserved := make([]byte, 13)
		if _, err := body.Read(trackReserved); err != nil {
			return nil, unexpected(err)
		}

		numIndices, err := br.readU(8)
		if err != nil {
			return nil, unexpected(err)
		}
		t.Indices = make([]CueSheetTrackIndex, numIndices)
		for j := range t.Indices {
			ihi, err := br.readU(32)
			if err != nil {
				return nil, unexpected(err)
			}
			ilo, err := br.readU(32)
			if err != nil {
				return nil, unexpected(err)
			}
			num, err := br.readU(8)
			if err != nil {
				return nil, unexpected(err)
			}
			idxReserved := make([]byte, 3)
			if _, err := body.Read(idxReserved); err != nil {
				return nil, unexpected(err)
			}
			t.Indices[j] = CueSheetTrackIndex{
				Offset: uint64(ihi)<<32 | uint64(ilo),
				Number: uint8(num),
			}
		}
	}

	return cs, nil
}

// cStringTrim trims a fixed-width, NUL-padded ASCII field down to its
// content, per the CUESHEET media catalog number / ISRC encoding.
func cStringTrim(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
