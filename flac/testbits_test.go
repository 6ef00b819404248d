package flac

import (
	"bytes"

	"github.com/icza/bitio"
)

// fixtureWriter assembles a synthetic, bit-exact FLAC fragment for tests.
// No sample audio files travel with this module, so every round-trip test
// builds its own input with a bitio.Writer instead.
type fixtureWriter struct {
	buf *bytes.Buffer
	w   *bitio.Writer
}

func newFixtureWriter() *fixtureWriter {
	buf := &bytes.Buffer{}
	return &fixtureWriter{buf: buf, w: bitio.NewWriter(buf)}
}

func (f *fixtureWriter) bits(v uint64, n uint8) *fixtureWriter {
	if err := f.w.WriteBits(v, n); err != nil {
		panic(err)
	}
	return f
}

func (f *fixtureWriter) bytesRaw(p []byte) *fixtureWriter {
	if _, err := f.w.Write(p); err != nil {
		panic(err)
	}
	return f
}

func (f *fixtureWriter) bytesOf() []byte {
	if _, err := f.w.Align(); err != nil {
		panic(err)
	}
	return f.buf.Bytes()
}
