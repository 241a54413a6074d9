package wire

// CRC16 computes the CCITT-style checksum the frame trailer carries.
// The bit mixing matches the Klipper MCU implementation exactly; both
// ends must agree on it byte for byte.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b ^= uint8(crc)
		b ^= b << 4
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ b16>>4 ^ b16<<3
	}
	return crc
}
