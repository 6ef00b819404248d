package flac

// CRC-8 and CRC-16 tables and running digests, kept between the byte source
// and the bit reader exactly as spec.md §4.2/§9 describes: "the CRC
// accumulators sit between the byte source and the bit reader and update on
// each byte consumed". Table layout and update loop are grounded on the
// mewkiz/flac crc8/crc16 packages (vendored in this pack's go-musicfox
// example), adapted to a single file and to the two FLAC polynomials this
// decoder actually needs.

// crc8Poly is x^8 + x^2 + x + 1, used over frame header bytes.
const crc8Poly = 0x07

// crc16Poly is x^16 + x^15 + x^2 + 1, used over the full frame.
const crc16Poly = 0x8005

var crc8Table = makeCRC8Table(crc8Poly)
var crc16Table = makeCRC16Table(crc16Poly)

func makeCRC8Table(poly uint8) (table [256]uint8) {
	for i := range table {
		crc := uint8(i)
		for j := 0; j < 8; j++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

func makeCRC16Table(poly uint16) (table [256]uint16) {
	for i := range table {
		crc := uint16(i << 8)
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// crc8Digest accumulates a running CRC-8 (ATM/no-reflect) checksum.
type crc8Digest struct {
	crc uint8
}

func (d *crc8Digest) reset() { d.crc = 0 }

func (d *crc8Digest) update(p []byte) {
	crc := d.crc
	for _, b := range p {
		crc = crc8Table[crc^b]
	}
	d.crc = crc
}

func (d *crc8Digest) sum() uint8 { return d.crc }

// crc16Digest accumulates a running CRC-16 (IBM/no-reflect) checksum.
type crc16Digest struct {
	crc uint16
}

func (d *crc16Digest) reset() { d.crc = 0 }

func (d *crc16Digest) update(p []byte) {
	crc := d.crc
	for _, b := range p {
		crc = crc<<8 ^ crc16Table[crc>>8^uint16(b)]
	}
	d.crc = crc
}

func (d *crc16Digest) sum() uint16 { return d.crc }

// crcTappedSource wraps a byteSource and feeds every byte it yields into
// both CRC digests. Both CRCs always run; the frame reader façade resets
// crc16 at the start of each frame and parseFrameHeader then resets crc8
// before reading the header's first byte, matching spec.md §4.2 ("CRC-8 over the frame header bytes", "CRC-16 over
// the full frame including the CRC-8").
type crcTappedSource struct {
	src  *byteSource
	crc8 crc8Digest
	crc16 crc16Digest
}

func newCRCTappedSource(src *byteSource) *crcTappedSource {
	return &crcTappedSource{src: src}
}

func (c *crcTappedSource) resetCRC8()  { c.crc8.reset() }
func (c *crcTappedSource) resetCRC16() { c.crc16.reset() }

// readRawByte reads the next byte directly from the underlying source
// without feeding either CRC digest. Used to read the frame's own stored
// CRC-16 footer bytes, which must never be folded into the sum they are
// checked against and which nothing downstream needs accounted for.
func (c *crcTappedSource) readRawByte() (byte, error) {
	return c.src.ReadByte()
}

// readHeaderCRCByte reads the frame header's stored CRC-8 byte. It feeds
// crc16 (the frame CRC-16 covers the full frame, including this byte) but
// not crc8 (which is checked against the running sum of the bytes that
// precede it).
func (c *crcTappedSource) readHeaderCRCByte() (byte, error) {
	b, err := c.src.ReadByte()
	if err != nil {
		return 0, err
	}
	c.crc16.update([]byte{b})
	return b, nil
}

func (c *crcTappedSource) ReadByte() (byte, error) {
	b, err := c.src.ReadByte()
	if err != nil {
		return 0, err
	}
	c.crc8.update([]byte{b})
	c.crc16.update([]byte{b})
	return b, nil
}

func (c *crcTappedSource) Read(p []byte) (int, error) {
	n, err := c.src.Read(p)
	if n > 0 {
		c.crc8.update(p[:n])
		c.crc16.update(p[:n])
	}
	return n, err
}
