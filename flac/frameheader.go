package flac

// ChannelAssignment identifies how the subframes of a frame relate to the
// final output channels: either independently-coded channels, or one of the
// three inter-channel decorrelation modes (spec.md §3 FrameHeader).
type ChannelAssignment uint8

const (
	// Codes 0 through 7 (channelIndependentBase + N-1) mean the frame's N
	// subframes are independently coded channels, no decorrelation.
	channelIndependentBase ChannelAssignment = 0 // codes 0..7 map to 1..8 channels
	// ChannelLeftSide: channel 0 is left, channel 1 is (left - right).
	ChannelLeftSide ChannelAssignment = 8
	// ChannelRightSide: channel 0 is (left - right), channel 1 is right.
	ChannelRightSide ChannelAssignment = 9
	// ChannelMidSide: channel 0 is mid, channel 1 is side.
	ChannelMidSide ChannelAssignment = 10
)

// IsIndependent reports whether ca represents N independently coded
// channels (as opposed to one of the two-channel decorrelation modes).
func (ca ChannelAssignment) IsIndependent() bool {
	return ca <= 7
}

// Count returns the number of subframes (and output channels) implied by
// ca.
func (ca ChannelAssignment) Count() int {
	if ca.IsIndependent() {
		return int(ca) + 1
	}
	return 2
}

// FrameHeader is the parsed, validated header of a single frame. It is
// transient: it lives only for the duration of decoding one frame, per
// spec.md §3.
type FrameHeader struct {
	// VariableBlocking is true if BlockTime is an absolute first-sample
	// index, false if it is a frame number.
	VariableBlocking bool
	// BlockTime is either the frame number (fixed blocking) or the first
	// inter-channel sample index of this frame (variable blocking).
	BlockTime uint64
	// BlockSize is the number of inter-channel samples in this frame, in
	// [1, 65536].
	BlockSize uint32
	// SampleRate is an override, in Hz; 0 means "inherit from StreamInfo".
	SampleRate uint32
	// ChannelAssignment describes channel count/order/decorrelation.
	ChannelAssignment ChannelAssignment
	// BitsPerSample is an override; 0 means "inherit from StreamInfo".
	BitsPerSample uint8
}

const frameSyncCode = 0x3FFE // 14 bits: 11_1111_1111_1110

// parseFrameHeader reads and validates one frame header through the CRC-8
// tap, per spec.md §4.4. It returns io.EOF (unwrapped) only when the sync
// code read hits a clean end of stream, signalling a graceful end of the
// FLAC stream to the frame reader façade.
func parseFrameHeader(crc *crcTappedSource, br *bitReader) (*FrameHeader, error) {
	crc.resetCRC8()

	sync, err := br.readU14Sync()
	if err != nil {
		// The only point at which a frame read may surface io.EOF verbatim:
		// a clean end of stream (no bytes consumed) is indistinguishable
		// from the start of the next frame's sync code until the first
		// byte is requested. Anything past that point — the first sync
		// byte consumed but the second unavailable — comes back as
		// io.ErrUnexpectedEOF instead.
		return nil, err
	}
	if sync != frameSyncCode {
		return nil, newFormatError("missing frame sync code")
	}

	reserved1, err := br.readU(1)
	if err != nil {
		return nil, unexpected(err)
	}
	if reserved1 != 0 {
		return nil, newFormatError("non-zero reserved bit after sync code")
	}

	blockingBit, err := br.readU(1)
	if err != nil {
		return nil, unexpected(err)
	}
	hdr := &FrameHeader{VariableBlocking: blockingBit == 1}

	blockSizeCode, err := br.readU(4)
	if err != nil {
		return nil, unexpected(err)
	}
	sampleRateCode, err := br.readU(4)
	if err != nil {
		return nil, unexpected(err)
	}

	caCode, err := br.readU(4)
	if err != nil {
		return nil, unexpected(err)
	}
	if caCode >= 11 {
		return nil, newFormatError("reserved channel assignment code %d", caCode)
	}
	hdr.ChannelAssignment = ChannelAssignment(caCode)

	bpsCode, err := br.readU(3)
	if err != nil {
		return nil, unexpected(err)
	}
	switch bpsCode {
	case 0:
		hdr.BitsPerSample = 0 // inherit
	case 1:
		hdr.BitsPerSample = 8
	case 2:
		hdr.BitsPerSample = 12
	case 4:
		hdr.BitsPerSample = 16
	case 5:
		hdr.BitsPerSample = 20
	case 6:
		hdr.BitsPerSample = 24
	default:
		return nil, newFormatError("reserved bits-per-sample code %d", bpsCode)
	}

	reserved2, err := br.readU(1)
	if err != nil {
		return nil, unexpected(err)
	}
	if reserved2 != 0 {
		return nil, newFormatError("non-zero reserved bit before frame number")
	}

	num, err := readUTF8Like(br)
	if err != nil {
		return nil, err
	}
	if !hdr.VariableBlocking && num > 0x7FFFFFFF {
		return nil, newFormatError("frame number %d exceeds 31 bits", num)
	}
	hdr.BlockTime = num

	if err := parseBlockSizeTail(br, hdr, blockSizeCode); err != nil {
		return nil, err
	}
	if err := parseSampleRateTail(br, hdr, sampleRateCode); err != nil {
		return nil, err
	}

	// The stored CRC-8 byte itself must never be folded into the crc8
	// digest it is checked against (it still counts toward the frame's
	// crc16, which spans the whole frame). The header is byte-aligned at
	// this point (every field above sums to a whole number of bytes), so
	// br has no partially-consumed byte staged and reading around it
	// directly is safe.
	gotCRC := crc.crc8.sum()
	wantCRC, err := crc.readHeaderCRCByte()
	if err != nil {
		return nil, unexpected(err)
	}
	if wantCRC != gotCRC {
		return nil, &CrcMismatchError{Kind: "header", Want: uint32(wantCRC), Got: uint32(gotCRC)}
	}

	return hdr, nil
}

// parseBlockSizeTail resolves the block-size code, reading the 8- or
// 16-bit tail value when the code requires it (spec.md §4.4 block-size code
// table).
func parseBlockSizeTail(br *bitReader, hdr *FrameHeader, code uint32) error {
	switch {
	case code == 0:
		return newFormatError("reserved block size code 0000")
	case code == 1:
		hdr.BlockSize = 192
	case code >= 2 && code <= 5:
		hdr.BlockSize = 576 << (code - 2)
	case code == 6:
		x, err := br.readU(8)
		if err != nil {
			return unexpected(err)
		}
		hdr.BlockSize = x + 1
	case code == 7:
		x, err := br.readU(16)
		if err != nil {
			return unexpected(err)
		}
		if x == 0xFFFF {
			return newFormatError("invalid block size tail 0xFFFF")
		}
		hdr.BlockSize = x + 1
	default:
		// 1000..1111
		hdr.BlockSize = 256 << (code - 8)
	}
	return nil
}

// parseSampleRateTail resolves the sample-rate code, reading an 8- or
// 16-bit tail value when the code requires it (spec.md §4.4 sample-rate
// code table).
func parseSampleRateTail(br *bitReader, hdr *FrameHeader, code uint32) error {
	switch code {
	case 0:
		hdr.SampleRate = 0 // inherit
	case 1:
		hdr.SampleRate = 88200
	case 2:
		hdr.SampleRate = 176400
	case 3:
		hdr.SampleRate = 192000
	case 4:
		hdr.SampleRate = 8000
	case 5:
		hdr.SampleRate = 16000
	case 6:
		hdr.SampleRate = 22050
	case 7:
		hdr.SampleRate = 24000
	case 8:
		hdr.SampleRate = 32000
	case 9:
		hdr.SampleRate = 44100
	case 10:
		hdr.SampleRate = 48000
	case 11:
		hdr.SampleRate = 96000
	case 12:
		x, err := br.readU(8)
		if err != nil {
			return unexpected(err)
		}
		hdr.SampleRate = x * 1000
	case 13:
		x, err := br.readU(16)
		if err != nil {
			return unexpected(err)
		}
		hdr.SampleRate = x
	case 14:
		x, err := br.readU(16)
		if err != nil {
			return unexpected(err)
		}
		hdr.SampleRate = x * 10
	default:
		return newFormatError("invalid sample rate code 1111")
	}
	return nil
}
