package flac

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildVorbisCommentBody(vendor string, comments []string) []byte {
	var buf bytes.Buffer
	writeLenPrefixed := func(s string) {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
		buf.Write(lenBuf[:])
		buf.WriteString(s)
	}
	writeLenPrefixed(vendor)
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(comments)))
	buf.Write(countBuf[:])
	for _, c := range comments {
		writeLenPrefixed(c)
	}
	return buf.Bytes()
}

func TestParseVorbisComment(t *testing.T) {
	body := buildVorbisCommentBody("test vendor", []string{"ARTIST=Foo", "TITLE=Bar"})
	src := newByteSource(bytes.NewReader(body))
	bounded := newBoundedSource(src, int64(len(body)))

	vc, err := parseVorbisComment(bounded, uint32(len(body)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vc.Vendor != "test vendor" {
		t.Fatalf("vendor = %q, want %q", vc.Vendor, "test vendor")
	}
	if len(vc.Comments) != 2 || vc.Comments[0] != "ARTIST=Foo" || vc.Comments[1] != "TITLE=Bar" {
		t.Fatalf("comments = %v, want [ARTIST=Foo TITLE=Bar]", vc.Comments)
	}
}

// TestParseVorbisCommentRejectsOversizeVendorLength covers spec.md §8
// scenario 4: a declared vendor_len far larger than the enclosing block
// must be rejected without allocating for it.
func TestParseVorbisCommentRejectsOversizeVendorLength(t *testing.T) {
	var buf bytes.Buffer
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], 1<<31)
	buf.Write(lenBuf[:])

	body := buf.Bytes()
	src := newByteSource(bytes.NewReader(body))
	bounded := newBoundedSource(src, int64(len(body)))

	_, err := parseVorbisComment(bounded, uint32(len(body)))
	if !IsFormatError(err) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestParseVorbisCommentRejectsImpossibleCommentCount(t *testing.T) {
	var buf bytes.Buffer
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], 0)
	buf.Write(lenBuf[:]) // zero-length vendor string

	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], 1<<28) // far more comments than 8 remaining bytes could hold
	buf.Write(countBuf[:])

	body := buf.Bytes()
	src := newByteSource(bytes.NewReader(body))
	bounded := newBoundedSource(src, int64(len(body)))

	_, err := parseVorbisComment(bounded, uint32(len(body)))
	if !IsFormatError(err) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}
