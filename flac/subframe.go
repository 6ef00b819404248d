package flac

// SubframeKind identifies which of the four subframe prediction methods
// produced a channel's samples (spec.md §3 SubframeHeader).
type SubframeKind uint8

const (
	SubframeConstant SubframeKind = iota
	SubframeVerbatim
	SubframeFixed
	SubframeLPC
)

// SubframeHeader is the parsed, transient header of one channel's subframe
// within a frame.
type SubframeHeader struct {
	Kind SubframeKind
	// Order is the fixed-predictor order (0..4) or the LPC order (1..32);
	// meaningless for Constant/Verbatim.
	Order int
	// WastedBits is the left-shift applied to every reconstructed sample.
	WastedBits uint
}

// decodeSubframe parses one subframe's header and reconstructs its
// block_size samples into dst (dst must have len == blockSize already).
// effectiveBPS is bps+1 for the side channel of a decorrelated assignment,
// bps otherwise, per spec.md §4.5.
func decodeSubframe(br *bitReader, blockSize uint32, effectiveBPS uint, dst []int32) (*SubframeHeader, error) {
	hdr, err := parseSubframeHeader(br)
	if err != nil {
		return nil, err
	}

	bps := effectiveBPS - hdr.WastedBits
	if hdr.WastedBits >= effectiveBPS {
		return nil, newFormatError("wasted bits %d not smaller than effective bits-per-sample %d", hdr.WastedBits, effectiveBPS)
	}

	switch hdr.Kind {
	case SubframeConstant:
		err = decodeConstant(br, bps, dst)
	case SubframeVerbatim:
		err = decodeVerbatim(br, bps, dst)
	case SubframeFixed:
		err = decodeFixed(br, bps, uint32(hdr.Order), blockSize, dst)
	case SubframeLPC:
		err = decodeLPCSubframe(br, bps, uint32(hdr.Order), blockSize, dst)
	}
	if err != nil {
		return nil, err
	}

	if hdr.WastedBits > 0 {
		for i := range dst {
			dst[i] <<= hdr.WastedBits
		}
	}
	return hdr, nil
}

func parseSubframeHeader(br *bitReader) (*SubframeHeader, error) {
	padding, err := br.readU(1)
	if err != nil {
		return nil, unexpected(err)
	}
	if padding != 0 {
		return nil, newFormatError("non-zero subframe padding bit")
	}

	typeCode, err := br.readU(6)
	if err != nil {
		return nil, unexpected(err)
	}

	hdr := &SubframeHeader{}
	switch {
	case typeCode == 0:
		hdr.Kind = SubframeConstant
	case typeCode == 1:
		hdr.Kind = SubframeVerbatim
	case typeCode >= 8 && typeCode <= 15:
		order := int(typeCode & 0x07)
		if order > 4 {
			return nil, newFormatError("reserved fixed-predictor order %d", order)
		}
		hdr.Kind = SubframeFixed
		hdr.Order = order
	case typeCode >= 32:
		hdr.Kind = SubframeLPC
		hdr.Order = int(typeCode&0x1F) + 1
	default:
		return nil, newFormatError("reserved subframe type code %06b", typeCode)
	}

	hasWasted, err := br.readU(1)
	if err != nil {
		return nil, unexpected(err)
	}
	if hasWasted != 0 {
		k, err := br.readUnary()
		if err != nil {
			return nil, unexpected(err)
		}
		hdr.WastedBits = uint(k) + 1
	}
	return hdr, nil
}

func decodeConstant(br *bitReader, bps uint, dst []int32) error {
	v, err := br.readSigned(bps)
	if err != nil {
		return unexpected(err)
	}
	for i := range dst {
		dst[i] = v
	}
	return nil
}

func decodeVerbatim(br *bitReader, bps uint, dst []int32) error {
	for i := range dst {
		v, err := br.readSigned(bps)
		if err != nil {
			return unexpected(err)
		}
		dst[i] = v
	}
	return nil
}

// fixedPredictorCoeffs maps fixed-predictor order to the coefficients of
// spec.md §4.5 Fixed(order), used by the shared LPC reconstruction loop so
// fixed and general LPC subframes share one inner loop.
var fixedPredictorCoeffs = [5][]int64{
	0: {},
	1: {1},
	2: {2, -1},
	3: {3, -3, 1},
	4: {4, -6, 4, -1},
}

func decodeFixed(br *bitReader, bps uint, order, blockSize uint32, dst []int32) error {
	if order > 4 {
		return newFormatError("fixed predictor order %d exceeds maximum of 4", order)
	}
	for i := uint32(0); i < order; i++ {
		v, err := br.readSigned(bps)
		if err != nil {
			return unexpected(err)
		}
		dst[i] = v
	}
	if err := decodeResidual(br, blockSize, order, dst[order:]); err != nil {
		return err
	}
	reconstructLPC(fixedPredictorCoeffs[order], 0, order, dst)
	return nil
}

func decodeLPCSubframe(br *bitReader, bps uint, order, blockSize uint32, dst []int32) error {
	for i := uint32(0); i < order; i++ {
		v, err := br.readSigned(bps)
		if err != nil {
			return unexpected(err)
		}
		dst[i] = v
	}

	precCode, err := br.readU(4)
	if err != nil {
		return unexpected(err)
	}
	if precCode == 0xF {
		return newFormatError("invalid LPC coefficient precision code 1111")
	}
	precision := uint(precCode) + 1

	shiftRaw, err := br.readU(5)
	if err != nil {
		return unexpected(err)
	}
	shift := signExtend32(shiftRaw, 5)
	if shift < 0 {
		return newFormatError("negative LPC quantization level %d", shift)
	}

	coeffs := make([]int64, order)
	for i := range coeffs {
		c, err := br.readSigned(precision)
		if err != nil {
			return unexpected(err)
		}
		coeffs[i] = int64(c)
	}

	if err := decodeResidual(br, blockSize, order, dst[order:]); err != nil {
		return err
	}
	reconstructLPC(coeffs, uint(shift), order, dst)
	return nil
}

// reconstructLPC applies the linear predictor, in place, over dst[order:],
// using dst[0:order] as the already-populated warm-up samples and
// dst[order:] as residuals-to-be-overwritten-with-samples on entry (as
// decodeResidual leaves them). The summation is carried out in 64-bit
// signed arithmetic, per spec.md §4.5 ("at least 64-bit signed arithmetic
// to prevent overflow for the maximum allowed parameters": order=32,
// 15-bit (>=16-bit magnitude) coefficients, and up to 32-bit samples —
// the product alone needs ~48 bits and the order-32 sum a few more, safely
// inside int64).
func reconstructLPC(coeffs []int64, shift uint, order uint32, dst []int32) {
	n := uint32(len(dst))
	for i := order; i < n; i++ {
		var acc int64
		for j, c := range coeffs {
			acc += c * int64(dst[int(i)-j-1])
		}
		dst[i] += int32(acc >> shift)
	}
}
