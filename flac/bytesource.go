package flac

import (
	"io"

	"github.com/drgolem/ringbuffer"
)

// byteSourceCapacity is the staging size of the ring buffer that sits
// between the caller's io.Reader and the bit reader. Chosen large enough to
// amortize read syscalls across several frame headers without holding an
// unbounded amount of memory.
const byteSourceCapacity = 32 * 1024

// byteSource is the lowest layer of the decoder: a buffered, synchronous
// view of raw bytes over an io.Reader. It supports single-byte reads (for
// the bit reader's staging register), bulk skip, and bounded sub-readers
// over metadata block bodies.
//
// Internally it stages bytes in a github.com/drgolem/ringbuffer.RingBuffer,
// the same primitive the teacher decoder uses to shuttle PCM between its
// cgo callback and Go code. Here there is only one goroutine involved; the
// ring buffer is used purely as a circular staging area so that refilling
// from r happens in bulk instead of one byte at a time.
type byteSource struct {
	r   io.Reader
	rb  *ringbuffer.RingBuffer
	fill [byteSourceCapacity]byte

	// pos is the number of bytes read from r so far. Nothing reads it; it
	// is not load-bearing for correctness.
	pos int64
}

func newByteSource(r io.Reader) *byteSource {
	return &byteSource{
		r:  r,
		rb: ringbuffer.New(byteSourceCapacity),
	}
}

// refill tops up the ring buffer from the underlying reader. It returns
// io.EOF only if no bytes at all are currently buffered and the reader is
// exhausted.
func (s *byteSource) refill() error {
	if s.rb.AvailableRead() > 0 {
		return nil
	}
	n, err := s.r.Read(s.fill[:])
	if n > 0 {
		if _, werr := s.rb.Write(s.fill[:n]); werr != nil {
			return werr
		}
		s.pos += int64(n)
	}
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return err
	}
	return nil
}

// ReadByte reads a single byte, refilling the staging buffer as needed.
func (s *byteSource) ReadByte() (byte, error) {
	if s.rb.AvailableRead() == 0 {
		if err := s.refill(); err != nil {
			return 0, err
		}
	}
	var b [1]byte
	if _, err := s.rb.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Read fills p with up to len(p) bytes, refilling the staging buffer as
// necessary. It behaves like io.ReadFull: a short read only occurs at EOF.
func (s *byteSource) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		if s.rb.AvailableRead() == 0 {
			if err := s.refill(); err != nil {
				if total > 0 {
					return total, io.ErrUnexpectedEOF
				}
				return 0, err
			}
		}
		n, err := s.rb.Read(p[total:])
		total += n
		if err != nil && n == 0 {
			return total, err
		}
	}
	return total, nil
}

// Skip discards the next n bytes without copying them out.
func (s *byteSource) Skip(n int64) error {
	var scratch [4096]byte
	for n > 0 {
		chunk := int64(len(scratch))
		if n < chunk {
			chunk = n
		}
		read, err := s.Read(scratch[:chunk])
		n -= int64(read)
		if err != nil {
			return err
		}
	}
	return nil
}

// boundedSource is a bounded view over a byteSource, used for metadata
// block bodies whose declared length must not be exceeded even if the
// underlying data is malformed (spec's "bounded sub-reader").
type boundedSource struct {
	s         *byteSource
	remaining int64
}

func newBoundedSource(s *byteSource, length int64) *boundedSource {
	return &boundedSource{s: s, remaining: length}
}

// ReadByte lets boundedSource serve as a byteSrc for the bit reader, used by
// metadata bodies (STREAMINFO) that pack fields across byte boundaries.
func (b *boundedSource) ReadByte() (byte, error) {
	var x [1]byte
	n, err := b.Read(x[:])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	return x[0], nil
}

func (b *boundedSource) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > b.remaining {
		p = p[:b.remaining]
	}
	n, err := b.s.Read(p)
	b.remaining -= int64(n)
	return n, err
}

// drain discards any bytes the caller left unread, enforcing the invariant
// that the next metadata block header always starts exactly where this
// block's declared length says it should. This is the Go-idiomatic stand-in
// for the "panic in the sub-reader's destructor" invariant described in
// spec.md §9: Go has no destructors, so MetadataReader.Next drains any
// leftover bytes from the previous block automatically instead.
func (b *boundedSource) drain() error {
	if b.remaining <= 0 {
		return nil
	}
	err := b.s.Skip(b.remaining)
	b.remaining = 0
	return err
}
