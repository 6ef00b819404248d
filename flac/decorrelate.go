package flac

// decorrelate inverts the inter-channel decorrelation described in
// spec.md §4.7. ch0 and ch1 are the two reconstructed subframe sample
// slices (each of length blockSize); they are rewritten in place. Only the
// two-channel assignments carry decorrelation; independent channels are
// left untouched by the caller.
func decorrelate(ca ChannelAssignment, ch0, ch1 []int32) {
	switch ca {
	case ChannelLeftSide:
		// ch0 = left, ch1 = side = left - right. right = left - side.
		for i := range ch1 {
			ch1[i] = ch0[i] - ch1[i]
		}
	case ChannelRightSide:
		// ch0 = side = left - right, ch1 = right. left = right + side.
		for i := range ch0 {
			ch0[i] += ch1[i]
		}
	case ChannelMidSide:
		// ch0 = mid (with side's dropped LSB folded in), ch1 = side.
		for i := range ch0 {
			mid := ch0[i]
			side := ch1[i]
			midDoubled := (mid << 1) | (side & 1)
			ch0[i] = (midDoubled + side) >> 1
			ch1[i] = (midDoubled - side) >> 1
		}
	}
}
