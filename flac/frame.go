package flac

import "log/slog"

// FrameReader decodes the sequence of frames that follows a FLAC stream's
// metadata blocks. It is re-entrant: each call to Next decodes exactly one
// frame into a caller-owned, grow-only Block (spec.md §3 FrameReader,
// "Idle -> HeaderRead -> SubframesRead -> Aligned -> FooterRead -> Idle").
type FrameReader struct {
	crc *crcTappedSource
	br  *bitReader

	streamInfo *StreamInfo

	// chanBuf holds one decode buffer per subframe, reused and only grown
	// across calls, mirroring Block's own grow-only policy.
	chanBuf [][]int32
}

func newFrameReader(src *byteSource, si *StreamInfo) *FrameReader {
	crc := newCRCTappedSource(src)
	return &FrameReader{
		crc:        crc,
		br:         newBitReader(crc),
		streamInfo: si,
	}
}

// Next decodes the next frame into blk, growing blk.Samples as needed. It
// returns io.EOF when the stream ends cleanly between frames.
func (fr *FrameReader) Next(blk *Block) error {
	fr.br.reset()
	fr.crc.resetCRC16()

	hdr, err := parseFrameHeader(fr.crc, fr.br)
	if err != nil {
		return err
	}

	channels := hdr.ChannelAssignment.Count()
	bitsPerSample := hdr.BitsPerSample
	if bitsPerSample == 0 {
		bitsPerSample = fr.streamInfo.BitsPerSample
	}
	sampleRate := hdr.SampleRate
	if sampleRate == 0 {
		sampleRate = fr.streamInfo.SampleRate
	}

	blockSize := hdr.BlockSize
	if cap(fr.chanBuf) < channels {
		fr.chanBuf = make([][]int32, channels)
	} else {
		fr.chanBuf = fr.chanBuf[:channels]
	}
	for c := 0; c < channels; c++ {
		if cap(fr.chanBuf[c]) < int(blockSize) {
			fr.chanBuf[c] = make([]int32, blockSize)
		} else {
			fr.chanBuf[c] = fr.chanBuf[c][:blockSize]
		}
	}

	for c := 0; c < channels; c++ {
		effectiveBPS := uint(bitsPerSample)
		if !hdr.ChannelAssignment.IsIndependent() {
			if (hdr.ChannelAssignment == ChannelLeftSide && c == 1) ||
				(hdr.ChannelAssignment == ChannelRightSide && c == 0) ||
				(hdr.ChannelAssignment == ChannelMidSide && c == 1) {
				effectiveBPS++
			}
		}
		if _, err := decodeSubframe(fr.br, blockSize, effectiveBPS, fr.chanBuf[c]); err != nil {
			return err
		}
	}

	if !hdr.ChannelAssignment.IsIndependent() {
		decorrelate(hdr.ChannelAssignment, fr.chanBuf[0], fr.chanBuf[1])
	}

	fr.br.alignToByte()

	// As with the header's CRC-8, the stored CRC-16 bytes must not be
	// folded into the sum they are checked against: capture the digest
	// first, then read the two footer bytes directly from the underlying
	// source.
	gotCRC16 := fr.crc.crc16.sum()
	hi, err := fr.crc.readRawByte()
	if err != nil {
		return unexpected(err)
	}
	lo, err := fr.crc.readRawByte()
	if err != nil {
		return unexpected(err)
	}
	wantCRC16 := uint16(hi)<<8 | uint16(lo)
	if wantCRC16 != gotCRC16 {
		return &CrcMismatchError{Kind: "frame", Want: uint32(wantCRC16), Got: uint32(gotCRC16)}
	}

	blk.reset(channels, blockSize)
	blk.FirstSampleIndex = resolveFirstSampleIndex(hdr, fr.streamInfo)
	blk.BitsPerSample = bitsPerSample
	blk.SampleRate = sampleRate
	for c := 0; c < channels; c++ {
		copy(blk.channel(c), fr.chanBuf[c])
	}

	slog.Debug("decoded frame", "blockSize", blockSize, "channels", channels, "firstSample", blk.FirstSampleIndex)
	return nil
}

// resolveFirstSampleIndex turns a frame header's BlockTime into an
// absolute inter-channel sample index, per spec.md §4.4: variable blocking
// frames encode it directly; fixed blocking frames encode a frame number
// that must be multiplied by the (constant) block size.
func resolveFirstSampleIndex(hdr *FrameHeader, si *StreamInfo) uint64 {
	if hdr.VariableBlocking {
		return hdr.BlockTime
	}
	return hdr.BlockTime * uint64(si.MaxBlockSize)
}
