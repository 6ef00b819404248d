package flac

// decodeResidual reads the partitioned-Rice-coded residual for a subframe
// of the given predictor order and block size, writing block_size-order
// values into dst (dst must already have len == blockSize-order). Layout
// and escape-code handling follow spec.md §4.6, grounded on the
// frame.Subframe.decodeResidual/decodeRicePart logic of mewkiz/flac
// (vendored in this pack's go-musicfox example).
func decodeResidual(br *bitReader, blockSize, order uint32, dst []int32) error {
	method, err := br.readU(2)
	if err != nil {
		return unexpected(err)
	}

	var paramBits uint
	switch method {
	case 0:
		paramBits = 4
	case 1:
		paramBits = 5
	default:
		return newFormatError("reserved residual coding method %d", method)
	}

	partOrderBits, err := br.readU(4)
	if err != nil {
		return unexpected(err)
	}
	partOrder := partOrderBits
	numParts := uint32(1) << partOrder

	if numParts == 0 || blockSize%numParts != 0 {
		return newFormatError("block size %d not divisible by %d partitions", blockSize, numParts)
	}
	firstPartSize := int64(blockSize/numParts) - int64(order)
	if firstPartSize < 0 {
		return newFormatError("first residual partition size is negative")
	}

	escapeValue := uint32(1)<<paramBits - 1
	pos := 0
	for i := uint32(0); i < numParts; i++ {
		param, err := br.readU(paramBits)
		if err != nil {
			return unexpected(err)
		}

		var nsamples int
		if i == 0 {
			nsamples = int(firstPartSize)
		} else {
			nsamples = int(blockSize / numParts)
		}
		if pos+nsamples > len(dst) {
			return newFormatError("residual partition overruns subframe")
		}

		if param == escapeValue {
			widthBits, err := br.readU(5)
			if err != nil {
				return unexpected(err)
			}
			w := uint(widthBits)
			for j := 0; j < nsamples; j++ {
				if w == 0 {
					dst[pos+j] = 0
					continue
				}
				v, err := br.readSigned(w)
				if err != nil {
					return unexpected(err)
				}
				dst[pos+j] = v
			}
		} else {
			k := uint(param)
			for j := 0; j < nsamples; j++ {
				q, err := br.readUnary()
				if err != nil {
					return unexpected(err)
				}
				var m uint32
				if k > 0 {
					m, err = br.readU(k)
					if err != nil {
						return unexpected(err)
					}
				}
				u := uint64(q)<<k | uint64(m)
				dst[pos+j] = zigZagDecode(u)
			}
		}
		pos += nsamples
	}

	return nil
}

// zigZagDecode folds an unsigned combined Rice code back to a signed
// residual: r = (u >> 1) ^ -(u & 1), per spec.md §4.6 step 3.
func zigZagDecode(u uint64) int32 {
	return int32(u>>1) ^ -int32(u&1)
}
