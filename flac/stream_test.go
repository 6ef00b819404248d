package flac

import (
	"bytes"
	"io"
	"testing"
)

// buildConstantMonoFrame assembles one complete, valid frame: fixed block
// size of 16 samples, mono, 16 bits-per-sample inherited from StreamInfo, a
// single Constant subframe holding sampleValue. CRC-8 and CRC-16 are
// computed with the same digests the decoder itself checks against, since
// hand-transcribing their values is exactly the kind of error this test
// exists to catch.
func buildConstantMonoFrame(t *testing.T, frameNumber uint8, sampleValue int16) []byte {
	t.Helper()

	header := []byte{
		0xFF, 0xF8, // sync(14) + reserved(1)=0 + fixed-blocking(1)=0
		0x60,       // block size code 6 (8-bit tail) | sample rate code 0 (inherit)
		0x00,       // channel assignment 0 (mono) | bps code 0 (inherit) | reserved
		frameNumber, // frame number, single-byte UTF-8-like encoding (<0x80)
		0x0F,       // block size tail: 15+1 = 16 samples
	}
	if frameNumber >= 0x80 {
		t.Fatalf("frameNumber %d needs multi-byte UTF-8-like encoding, not supported by this helper", frameNumber)
	}

	var crc8 crc8Digest
	crc8.update(header)
	frameBytes := append([]byte{}, header...)
	frameBytes = append(frameBytes, crc8.sum())

	subframe := []byte{
		0x00, // padding(0) + type(constant=0) + no wasted bits
		byte(uint16(sampleValue) >> 8),
		byte(uint16(sampleValue)),
	}
	frameBytes = append(frameBytes, subframe...)

	var crc16 crc16Digest
	crc16.update(frameBytes)
	sum := crc16.sum()
	frameBytes = append(frameBytes, byte(sum>>8), byte(sum))

	return frameBytes
}

func buildTestStream(t *testing.T, frames [][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("fLaC")

	siBody := buildStreamInfoBody(16, 16, 44100, 1, 16, uint64(16*len(frames)))
	buf.WriteByte(0x80) // last-metadata-block flag | type 0 (STREAMINFO)
	length := len(siBody)
	buf.WriteByte(byte(length >> 16))
	buf.WriteByte(byte(length >> 8))
	buf.WriteByte(byte(length))
	buf.Write(siBody)

	for _, f := range frames {
		buf.Write(f)
	}
	return buf.Bytes()
}

func TestStreamOpenAndDecodeOneFrame(t *testing.T) {
	frame := buildConstantMonoFrame(t, 0, 1234)
	data := buildTestStream(t, [][]byte{frame})

	stream, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if stream.StreamInfo.SampleRate != 44100 {
		t.Fatalf("sampleRate = %d, want 44100", stream.StreamInfo.SampleRate)
	}

	blk := &Block{}
	if err := stream.NextBlock(blk); err != nil {
		t.Fatalf("NextBlock failed: %v", err)
	}
	if blk.BlockSize != 16 || blk.Channels != 1 {
		t.Fatalf("blk shape = %d/%d, want 16/1", blk.BlockSize, blk.Channels)
	}
	for i, v := range blk.Samples {
		if v != 1234 {
			t.Fatalf("sample[%d] = %d, want 1234", i, v)
		}
	}

	if err := stream.NextBlock(blk); err != io.EOF {
		t.Fatalf("expected io.EOF after last frame, got %v", err)
	}
}

func TestStreamDecodeMultipleFrames(t *testing.T) {
	f0 := buildConstantMonoFrame(t, 0, 100)
	f1 := buildConstantMonoFrame(t, 1, -200)
	data := buildTestStream(t, [][]byte{f0, f1})

	stream, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	blk := &Block{}
	if err := stream.NextBlock(blk); err != nil {
		t.Fatalf("NextBlock 1 failed: %v", err)
	}
	if blk.Samples[0] != 100 {
		t.Fatalf("frame 0 sample = %d, want 100", blk.Samples[0])
	}
	// blk.FirstSampleIndex for fixed blocking is frameNumber * maxBlockSize.
	if blk.FirstSampleIndex != 0 {
		t.Fatalf("frame 0 first sample index = %d, want 0", blk.FirstSampleIndex)
	}

	if err := stream.NextBlock(blk); err != nil {
		t.Fatalf("NextBlock 2 failed: %v", err)
	}
	if blk.Samples[0] != -200 {
		t.Fatalf("frame 1 sample = %d, want -200", blk.Samples[0])
	}
	if blk.FirstSampleIndex != 16 {
		t.Fatalf("frame 1 first sample index = %d, want 16", blk.FirstSampleIndex)
	}

	if err := stream.NextBlock(blk); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

// TestOpenWithMaxMetadataBlockLengthOption covers the WithMaxMetadataBlockLength
// option: lowering the ceiling below a VORBIS_COMMENT block's declared
// length must reject a stream Open would otherwise accept.
func TestOpenWithMaxMetadataBlockLengthOption(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("fLaC")

	siBody := buildStreamInfoBody(16, 16, 44100, 1, 16, 0)
	buf.WriteByte(0x00) // not last, type 0 (STREAMINFO)
	buf.WriteByte(byte(len(siBody) >> 16))
	buf.WriteByte(byte(len(siBody) >> 8))
	buf.WriteByte(byte(len(siBody)))
	buf.Write(siBody)

	vcBody := buildVorbisCommentBody("vendor", []string{"TITLE=x"})
	buf.WriteByte(0x84) // last, type 4 (VORBIS_COMMENT)
	buf.WriteByte(byte(len(vcBody) >> 16))
	buf.WriteByte(byte(len(vcBody) >> 8))
	buf.WriteByte(byte(len(vcBody)))
	buf.Write(vcBody)

	data := buf.Bytes()

	if _, err := Open(bytes.NewReader(data)); err != nil {
		t.Fatalf("Open without an override failed: %v", err)
	}

	_, err := Open(bytes.NewReader(data), WithMaxMetadataBlockLength(uint32(len(vcBody)-1)))
	if !IsUnsupported(err) {
		t.Fatalf("expected UnsupportedError with a lowered ceiling, got %v", err)
	}
}

func TestStreamRejectsMissingMarker(t *testing.T) {
	_, err := Open(bytes.NewReader([]byte("nope")))
	if !IsFormatError(err) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

// TestStreamRejectsTruncatedStreamMidSyncCode covers the one-byte-then-EOF
// case: the stream ends after the first sync-code byte but before the
// second, which must surface as io.ErrUnexpectedEOF rather than a
// graceful io.EOF (spec.md §4.8), since a clean end of stream can only ever
// occur before any byte of the next frame is read.
func TestStreamRejectsTruncatedStreamMidSyncCode(t *testing.T) {
	frame := buildConstantMonoFrame(t, 0, 1234)
	data := buildTestStream(t, [][]byte{frame})
	data = append(data, 0xFF) // one lone byte of a frame that never completes

	stream, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	blk := &Block{}
	if err := stream.NextBlock(blk); err != nil {
		t.Fatalf("NextBlock 1 failed: %v", err)
	}

	err = stream.NextBlock(blk)
	if err == nil || err == io.EOF {
		t.Fatalf("expected an unexpected-EOF error, got %v", err)
	}
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestStreamRejectsFrameHeaderCrcMismatch(t *testing.T) {
	frame := buildConstantMonoFrame(t, 0, 1234)
	frame[2] ^= 0x01 // corrupt the sample-rate code (0 -> 1, still a valid code) after the CRC was computed
	data := buildTestStream(t, [][]byte{frame})

	stream, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	blk := &Block{}
	err = stream.NextBlock(blk)
	if !IsCrcMismatch(err) {
		t.Fatalf("expected CrcMismatchError, got %v", err)
	}
}
