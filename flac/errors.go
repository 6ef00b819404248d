package flac

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnexpectedEOF is returned when the stream ends in the middle of a
// structure that requires more bytes. It is always io.ErrUnexpectedEOF so
// callers can compare against the stdlib sentinel directly.
var ErrUnexpectedEOF = io.ErrUnexpectedEOF

// FormatError reports a bitstream constraint violation: the stream is not a
// valid FLAC stream (or this frame is not a valid frame), and retrying will
// not help.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("flac: format error: %s", e.Reason)
}

func newFormatError(format string, args ...interface{}) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedError reports a structurally valid bitstream that asks for a
// feature, or a resource bound, this implementation does not provide.
type UnsupportedError struct {
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("flac: unsupported: %s", e.Reason)
}

func newUnsupportedError(format string, args ...interface{}) error {
	return &UnsupportedError{Reason: fmt.Sprintf(format, args...)}
}

// CrcMismatchError reports that a header CRC-8 or frame CRC-16 did not match
// the value embedded in the bitstream. The current frame has been discarded;
// the caller may attempt to resynchronize by scanning for the next sync
// code, though this library does not do so automatically.
type CrcMismatchError struct {
	Kind string // "header" or "frame"
	Want uint32
	Got  uint32
}

func (e *CrcMismatchError) Error() string {
	return fmt.Sprintf("flac: %s crc mismatch: want 0x%x, got 0x%x", e.Kind, e.Want, e.Got)
}

// IsFormatError reports whether err (or an error it wraps) is a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsUnsupported reports whether err (or an error it wraps) is an
// UnsupportedError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}

// IsCrcMismatch reports whether err (or an error it wraps) is a
// CrcMismatchError.
func IsCrcMismatch(err error) bool {
	var ce *CrcMismatchError
	return errors.As(err, &ce)
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
