package flac

// Block is the caller-visible result of decoding one frame: a dense,
// channel-contiguous buffer of reconstructed samples plus the positioning
// and format metadata needed to interpret them (spec.md §3 Block).
type Block struct {
	// FirstSampleIndex is the inter-channel sample index of Samples[0] in
	// every channel.
	FirstSampleIndex uint64
	// BlockSize is the number of inter-channel samples (per channel) held
	// in this block.
	BlockSize uint32
	// Channels is the number of channels; Samples is laid out as Channels
	// consecutive runs of BlockSize samples each.
	Channels int
	// BitsPerSample is the sample depth in effect for this block.
	BitsPerSample uint8
	// SampleRate is the sample rate in effect for this block, in Hz.
	SampleRate uint32
	// Samples holds Channels*BlockSize values; Samples[c*BlockSize+i] is
	// channel c's i'th sample. The caller must not retain a reference to
	// this slice past the next call to FrameReader.Next: the buffer is
	// reused and only grown, never reallocated smaller, across calls.
	Samples []int32
}

// channel returns the sample slice for channel c, valid for exactly
// BlockSize samples.
func (b *Block) channel(c int) []int32 {
	start := c * int(b.BlockSize)
	return b.Samples[start : start+int(b.BlockSize)]
}

// reset grows (never shrinks) Samples to hold channels*blockSize int32s and
// updates the shape fields, following the grow-only reuse policy described
// in SPEC_FULL.md (grounded on claxon's FlacReader buffer, which never
// reallocates smaller across blocks).
func (b *Block) reset(channels int, blockSize uint32) {
	need := channels * int(blockSize)
	if cap(b.Samples) < need {
		b.Samples = make([]int32, need)
	} else {
		b.Samples = b.Samples[:need]
	}
	b.Channels = channels
	b.BlockSize = blockSize
}
