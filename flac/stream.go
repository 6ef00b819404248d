package flac

import (
	"io"
	"log/slog"
)

// Stream is a decoded view of a FLAC bitstream: its StreamInfo, any other
// metadata blocks encountered along the way, and a positioned FrameReader
// ready to decode audio (spec.md §6 "Programmatic surface").
type Stream struct {
	StreamInfo *StreamInfo
	Metadata   []*MetadataBlock

	src    *byteSource
	frames *FrameReader
}

// Option configures a tunable of Open, in the same spirit as the teacher's
// own constructor parameters (NewFlacFrameDecoder(maxOutputSampleBitDepth)),
// generalized to the functional-options form since Open may grow more than
// one independent knob over time.
type Option func(*MetadataReader)

// WithMaxMetadataBlockLength overrides the declared-length ceiling enforced
// against VORBIS_COMMENT and PICTURE blocks (SPEC_FULL.md §D DoS
// hardening). The default is 10 MiB; a caller that knows its files embed
// larger artwork or comment blocks can raise it explicitly.
func WithMaxMetadataBlockLength(n uint32) Option {
	return func(mr *MetadataReader) { mr.maxBlockLength = n }
}

// Open reads and validates the "fLaC" marker and the full metadata block
// chain from r, then returns a Stream positioned at the first frame.
func Open(r io.Reader, opts ...Option) (*Stream, error) {
	src := newByteSource(r)

	var marker [4]byte
	if _, err := src.Read(marker[:]); err != nil {
		return nil, unexpected(err)
	}
	if string(marker[:]) != "fLaC" {
		return nil, newFormatError("missing fLaC stream marker")
	}

	mr := newMetadataReader(src)
	for _, opt := range opts {
		opt(mr)
	}
	first, err := mr.Next()
	if err != nil {
		return nil, err
	}
	if first.Type != MetadataStreamInfo {
		return nil, newFormatError("first metadata block is type %d, must be STREAMINFO", first.Type)
	}

	s := &Stream{StreamInfo: first.StreamInfo, src: src}
	s.Metadata = append(s.Metadata, first)

	for !first.Last {
		blk, err := mr.Next()
		if err != nil {
			return nil, err
		}
		s.Metadata = append(s.Metadata, blk)
		first = blk
	}

	slog.Info("opened flac stream",
		"sampleRate", s.StreamInfo.SampleRate,
		"channels", s.StreamInfo.NumChannels,
		"bitsPerSample", s.StreamInfo.BitsPerSample,
		"totalSamples", s.StreamInfo.TotalSamples,
		"metadataBlocks", len(s.Metadata))

	s.frames = newFrameReader(src, s.StreamInfo)
	return s, nil
}

// NextBlock decodes the next frame into blk, reusing and only growing its
// backing buffer across calls. It returns io.EOF once the stream's frames
// are exhausted.
func (s *Stream) NextBlock(blk *Block) error {
	return s.frames.Next(blk)
}

// VorbisComments returns the stream's VORBIS_COMMENT block, if any.
func (s *Stream) VorbisComments() *VorbisComment {
	for _, m := range s.Metadata {
		if m.Type == MetadataVorbisComment {
			return m.VorbisComment
		}
	}
	return nil
}

// Pictures returns every PICTURE block present in the stream, in
// declaration order.
func (s *Stream) Pictures() []*Picture {
	var out []*Picture
	for _, m := range s.Metadata {
		if m.Type == MetadataPicture {
			out = append(out, m.Picture)
		}
	}
	return out
}

// SeekTableBlock returns the stream's SEEKTABLE block, if any. This decoder
// does not itself implement seeking (spec.md Non-goals); callers that want
// to seek can use the returned table to compute frame offsets themselves.
func (s *Stream) SeekTableBlock() *SeekTable {
	for _, m := range s.Metadata {
		if m.Type == MetadataSeekTable {
			return m.SeekTable
		}
	}
	return nil
}
