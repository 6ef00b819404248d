package flac

import (
	"io"
	"log/slog"
)

// MetadataBlockType identifies the kind of body that follows a metadata
// block header (spec.md §4.3).
type MetadataBlockType uint8

const (
	MetadataStreamInfo    MetadataBlockType = 0
	MetadataPadding       MetadataBlockType = 1
	MetadataApplication   MetadataBlockType = 2
	MetadataSeekTable     MetadataBlockType = 3
	MetadataVorbisComment MetadataBlockType = 4
	MetadataCueSheet      MetadataBlockType = 5
	MetadataPicture       MetadataBlockType = 6
)

// maxMetadataBlockLength is the largest declared metadata block body this
// decoder will allocate for, regardless of the 24-bit length field's
// theoretical 16 MiB ceiling. A VorbisComment or Picture block claiming more
// than this is almost certainly either corrupt or adversarial; reject it
// with UnsupportedError rather than allocating on the caller's behalf.
const maxMetadataBlockLength = 10 << 20 // 10 MiB, per SPEC_FULL.md §D

// MetadataBlock is one parsed metadata block: exactly one of the typed
// fields is non-nil, selected by Type, except for Padding (which carries no
// body at all beyond its length).
type MetadataBlock struct {
	Type   MetadataBlockType
	Last   bool
	Length uint32

	StreamInfo    *StreamInfo
	Application   *ApplicationBlock
	SeekTable     *SeekTable
	VorbisComment *VorbisComment
	CueSheet      *CueSheet
	Picture       *Picture
}

// MetadataReader reads the sequence of metadata blocks that precedes a
// FLAC stream's frames, per spec.md §4.3. It does not check which block
// type comes first; Open rejects a stream whose first block is not
// StreamInfo.
type MetadataReader struct {
	src  *byteSource
	done bool
	cur  *boundedSource

	// maxBlockLength is the VorbisComment/Picture declared-length ceiling,
	// defaulting to maxMetadataBlockLength; Open's WithMaxMetadataBlockLength
	// option overrides it.
	maxBlockLength uint32
}

func newMetadataReader(src *byteSource) *MetadataReader {
	return &MetadataReader{src: src, maxBlockLength: maxMetadataBlockLength}
}

// Next reads and parses the next metadata block, or returns (nil, io.EOF)
// once the last block (Last == true) has already been returned. Any bytes
// left unread from the previous block's body are drained first, the
// Go-idiomatic stand-in for a destructor-enforced invariant (see
// boundedSource.drain).
func (m *MetadataReader) Next() (*MetadataBlock, error) {
	if m.done {
		return nil, io.EOF
	}
	if m.cur != nil {
		if err := m.cur.drain(); err != nil {
			return nil, unexpected(err)
		}
		m.cur = nil
	}

	var hdr [4]byte
	if _, err := m.src.Read(hdr[:]); err != nil {
		return nil, unexpected(err)
	}
	last := hdr[0]&0x80 != 0
	typeCode := hdr[0] & 0x7F
	length := uint32(hdr[1])<<16 | uint32(hdr[2])<<8 | uint32(hdr[3])

	blk := &MetadataBlock{Type: MetadataBlockType(typeCode), Last: last, Length: length}
	body := newBoundedSource(m.src, int64(length))
	m.cur = body

	if typeCode >= 7 && typeCode <= 126 {
		return nil, newFormatError("reserved metadata block type %d", typeCode)
	}
	if typeCode == 127 {
		return nil, newFormatError("invalid metadata block type 127")
	}

	var err error
	switch blk.Type {
	case MetadataStreamInfo:
		blk.StreamInfo, err = parseStreamInfo(body, length)
	case MetadataPadding:
		// No body to interpret; drained on the next Next() call.
	case MetadataApplication:
		blk.Application, err = parseApplication(body, length)
	case MetadataSeekTable:
		blk.SeekTable, err = parseSeekTable(body, length)
	case MetadataVorbisComment:
		// The DoS-hardening ceiling applies only to VorbisComment and
		// Picture blocks (SPEC_FULL.md §D); PADDING/SEEKTABLE/APPLICATION/
		// CUESHEET may legitimately exceed it.
		if length > m.maxBlockLength {
			return nil, newUnsupportedError("VORBIS_COMMENT block declares length %d, exceeds %d byte limit", length, m.maxBlockLength)
		}
		blk.VorbisComment, err = parseVorbisComment(body, length)
	case MetadataCueSheet:
		blk.CueSheet, err = parseCueSheet(body)
	case MetadataPicture:
		if length > m.maxBlockLength {
			return nil, newUnsupportedError("PICTURE block declares length %d, exceeds %d byte limit", length, m.maxBlockLength)
		}
		blk.Picture, err = parsePicture(body, length, m.maxBlockLength)
	}
	if err != nil {
		return nil, err
	}

	if last {
		m.done = true
	}
	slog.Debug("parsed metadata block", "type", blk.Type, "length", length, "last", last)
	return blk, nil
}
