package flac

// StreamInfo is the mandatory first metadata block of a FLAC stream,
// establishing the defaults every frame header may override or inherit
// from (spec.md §3 StreamInfo).
type StreamInfo struct {
	MinBlockSize  uint16
	MaxBlockSize  uint16
	MinFrameSize  uint32 // 24-bit; 0 means unknown
	MaxFrameSize  uint32 // 24-bit; 0 means unknown
	SampleRate    uint32 // 20-bit, in Hz
	NumChannels   uint8  // 1..8
	BitsPerSample uint8  // 4..32
	TotalSamples  uint64 // 36-bit; 0 means unknown
	MD5           [16]byte
}

// streamInfoLength is the fixed, exact wire size of a STREAMINFO body
// (spec.md §4.3: "always exactly 34 bytes").
const streamInfoLength = 34

func parseStreamInfo(body *boundedSource, declaredLength uint32) (*StreamInfo, error) {
	if declaredLength != streamInfoLength {
		return nil, newFormatError("STREAMINFO block declares length %d, must be %d", declaredLength, streamInfoLength)
	}

	br := newBitReader(body)
	si := &StreamInfo{}

	minBlock, err := br.readU(16)
	if err != nil {
		return nil, unexpected(err)
	}
	si.MinBlockSize = uint16(minBlock)

	maxBlock, err := br.readU(16)
	if err != nil {
		return nil, unexpected(err)
	}
	si.MaxBlockSize = uint16(maxBlock)

	if si.MinBlockSize < 16 {
		return nil, newFormatError("STREAMINFO min block size %d below the minimum of 16", si.MinBlockSize)
	}
	if si.MinBlockSize > si.MaxBlockSize {
		return nil, newFormatError("STREAMINFO min block size %d exceeds max block size %d", si.MinBlockSize, si.MaxBlockSize)
	}

	minFrame, err := br.readU(24)
	if err != nil {
		return nil, unexpected(err)
	}
	si.MinFrameSize = minFrame

	maxFrame, err := br.readU(24)
	if err != nil {
		return nil, unexpected(err)
	}
	si.MaxFrameSize = maxFrame

	if si.MaxFrameSize != 0 && si.MinFrameSize > si.MaxFrameSize {
		return nil, newFormatError("STREAMINFO min frame size %d exceeds max frame size %d", si.MinFrameSize, si.MaxFrameSize)
	}

	sampleRate, err := br.readU(20)
	if err != nil {
		return nil, unexpected(err)
	}
	if sampleRate == 0 || sampleRate > 655350 {
		return nil, newFormatError("STREAMINFO sample rate %d outside (0, 655350]", sampleRate)
	}
	si.SampleRate = sampleRate

	chanCode, err := br.readU(3)
	if err != nil {
		return nil, unexpected(err)
	}
	si.NumChannels = uint8(chanCode) + 1

	bpsCode, err := br.readU(5)
	if err != nil {
		return nil, unexpected(err)
	}
	si.BitsPerSample = uint8(bpsCode) + 1
	if si.BitsPerSample < 4 {
		return nil, newFormatError("STREAMINFO bits-per-sample %d below the minimum of 4", si.BitsPerSample)
	}

	totalHi, err := br.readU(32)
	if err != nil {
		return nil, unexpected(err)
	}
	totalLo, err := br.readU(4)
	if err != nil {
		return nil, unexpected(err)
	}
	si.TotalSamples = uint64(totalHi)<<4 | uint64(totalLo)

	if _, err := body.Read(si.MD5[:]); err != nil {
		return nil, unexpected(err)
	}

	return si, nil
}
