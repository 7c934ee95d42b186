package inject

// Reflected IEEE 802.3 polynomial, as used by PNG chunk checksums.
const crcPolynomial = 0xEDB88320

// crcTable is built once at package initialisation; lookups are read-only
// afterwards, so checksums are safe from any goroutine.
var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var table [256]uint32
	for n := 0; n < 256; n++ {
		c := uint32(n)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = crcPolynomial ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		table[n] = c
	}
	return table
}

// Checksum returns the IEEE CRC-32 of data.
func Checksum(data []byte) uint32 {
	c := uint32(0xFFFFFFFF)
	for _, b := range data {
		c = crcTable[(c^uint32(b))&0xFF] ^ (c >> 8)
	}
	return c ^ 0xFFFFFFFF
}
