package flac

import "encoding/binary"

// VorbisComment holds the vendor string and freeform tags of a
// VORBIS_COMMENT block (spec.md §4.3), stored in the stream's native
// little-endian length-prefixed layout inherited from the Vorbis comment
// header spec it reuses.
type VorbisComment struct {
	Vendor   string
	Comments []string
}

// maxVorbisCommentStringLength bounds any single length-prefixed string
// inside a VORBIS_COMMENT block. readVorbisString first rejects a declared
// length larger than the enclosing block's declared length (as a
// FormatError), then checks this constant as a second, absolute ceiling (as
// an UnsupportedError), both before any allocation (SPEC_FULL.md §D DoS
// hardening, grounded on mewkiz/flac's meta.VorbisComment parser, which
// performs a similar fits-in-the-block check).
const maxVorbisCommentStringLength = 1 << 24

func parseVorbisComment(body *boundedSource, declaredLength uint32) (*VorbisComment, error) {
	vc := &VorbisComment{}

	vendor, err := readVorbisString(body, declaredLength)
	if err != nil {
		return nil, err
	}
	vc.Vendor = vendor

	countBuf := make([]byte, 4)
	if _, err := body.Read(countBuf); err != nil {
		return nil, unexpected(err)
	}
	count := binary.LittleEndian.Uint32(countBuf)

	// Each comment needs at least 4 bytes for its own length prefix, so a
	// count higher than that bounds the block is already impossible;
	// reject it before using it as a slice-capacity hint (SPEC_FULL.md §D
	// DoS hardening).
	if uint64(count) > uint64(declaredLength)/4 {
		return nil, newFormatError("VORBIS_COMMENT declares %d comments, more than the block could hold", count)
	}

	vc.Comments = make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		s, err := readVorbisString(body, declaredLength)
		if err != nil {
			return nil, err
		}
		vc.Comments = append(vc.Comments, s)
	}
	return vc, nil
}

// readVorbisString reads one uint32-little-endian-length-prefixed string
// from body, rejecting a declared length that could not possibly fit in
// the enclosing block or that exceeds the hard sanity ceiling.
func readVorbisString(body *boundedSource, enclosingLength uint32) (string, error) {
	lenBuf := make([]byte, 4)
	if _, err := body.Read(lenBuf); err != nil {
		return "", unexpected(err)
	}
	n := binary.LittleEndian.Uint32(lenBuf)
	if n > enclosingLength {
		return "", newFormatError("VORBIS_COMMENT string declares length %d, larger than the enclosing block", n)
	}
	if n > maxVorbisCommentStringLength {
		return "", newUnsupportedError("VORBIS_COMMENT string declares length %d, exceeds %d byte limit", n, maxVorbisCommentStringLength)
	}
	buf := make([]byte, n)
	if _, err := body.Read(buf); err != nil {
		return "", unexpected(err)
	}
	return string(buf), nil
}
