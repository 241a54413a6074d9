// Package wire implements the framed command encoding used between the
// ramp host tool and the firmware: Klipper-style VLQ integers inside
// CRC-protected message frames.
package wire

import "errors"

var (
	// ErrTruncated means the buffer ended inside a value.
	ErrTruncated = errors.New("wire: truncated value")
	// ErrBadFrame means a frame failed length, sequence, CRC or sync
	// validation.
	ErrBadFrame = errors.New("wire: malformed frame")
)

// AppendVLQInt appends v in VLQ encoding: seven value bits per byte,
// most significant group first, high bit set on every byte but the
// last. The range splits are asymmetric (small negative values share
// the short encodings) to match the Klipper wire format.
func AppendVLQInt(buf []byte, v int32) []byte {
	if !(-(1<<26) <= v && v < (3 << 26)) {
		buf = append(buf, byte((v>>28)&0x7F)|0x80)
	}
	if !(-(1<<19) <= v && v < (3 << 19)) {
		buf = append(buf, byte((v>>21)&0x7F)|0x80)
	}
	if !(-(1<<12) <= v && v < (3 << 12)) {
		buf = append(buf, byte((v>>14)&0x7F)|0x80)
	}
	if !(-(1<<5) <= v && v < (3 << 5)) {
		buf = append(buf, byte((v>>7)&0x7F)|0x80)
	}
	return append(buf, byte(v&0x7F))
}

// AppendVLQUint appends v using the signed encoding, as the wire
// format does for all integer arguments.
func AppendVLQUint(buf []byte, v uint32) []byte {
	return AppendVLQInt(buf, int32(v))
}

// DecodeVLQInt decodes one VLQ integer from *data, advancing the slice
// past the consumed bytes.
func DecodeVLQInt(data *[]byte) (int32, error) {
	if len(*data) == 0 {
		return 0, ErrTruncated
	}

	c := uint32((*data)[0])
	*data = (*data)[1:]

	v := c & 0x7F
	if c&0x60 == 0x60 {
		// Negative leading group: sign-extend the five value bits.
		v |= ^uint32(0x1F)
	}

	for c&0x80 != 0 {
		if len(*data) == 0 {
			return 0, ErrTruncated
		}
		c = uint32((*data)[0])
		*data = (*data)[1:]
		v = v<<7 | c&0x7F
	}

	return int32(v), nil
}

// DecodeVLQUint decodes one VLQ integer from *data as unsigned.
func DecodeVLQUint(data *[]byte) (uint32, error) {
	v, err := DecodeVLQInt(data)
	return uint32(v), err
}
