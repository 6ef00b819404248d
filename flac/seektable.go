package flac

// seekPointPlaceholder marks an unused seek point slot (spec.md §4.3
// SEEKTABLE: sample number 0xFFFFFFFFFFFFFFFF).
const seekPointPlaceholder = 0xFFFFFFFFFFFFFFFF

// SeekPoint is one entry of a SEEKTABLE block.
type SeekPoint struct {
	// SampleNumber is the sample index this point seeks to, or
	// seekPointPlaceholder if the point is a placeholder.
	SampleNumber uint64
	StreamOffset uint64
	FrameSamples uint16
}

// Placeholder reports whether p is an unused placeholder entry.
func (p SeekPoint) Placeholder() bool {
	return p.SampleNumber == seekPointPlaceholder
}

// SeekTable is an optional index of known frame offsets (spec.md §4.3
// SEEKTABLE). Non-goals exclude any seeking API; this decoder parses and
// exposes the table but never consults it itself.
type SeekTable struct {
	Points []SeekPoint
}

const seekPointLength = 18 // 8 + 8 + 2 bytes

func parseSeekTable(body *boundedSource, declaredLength uint32) (*SeekTable, error) {
	if declaredLength%seekPointLength != 0 {
		return nil, newFormatError("SEEKTABLE length %d is not a multiple of %d", declaredLength, seekPointLength)
	}
	n := int(declaredLength / seekPointLength)
	st := &SeekTable{Points: make([]SeekPoint, n)}

	var buf [seekPointLength]byte
	for i := range st.Points {
		if _, err := body.Read(buf[:]); err != nil {
			return nil, unexpected(err)
		}
		st.Points[i] = SeekPoint{
			SampleNumber: beUint64(buf[0:8]),
			StreamOffset: beUint64(buf[8:16]),
			FrameSamples: uint16(buf[16])<<8 | uint16(buf[17]),
		}
	}
	return st, nil
}

func beUint64(b []byte) uint64 {
	var x uint64
	for _, v := range b {
		x = x<<8 | uint64(v)
	}
	return x
}
