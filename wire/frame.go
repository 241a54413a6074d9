package wire

// Frame layout, matching the Klipper transport:
//
//	[length] [sequence] [payload...] [crc hi] [crc lo] [sync]
//
// length covers the whole frame. The sequence byte carries a 4-bit
// counter in its low nibble and the destination bits in its high
// nibble. The CRC covers length, sequence and payload.
const (
	FrameHeaderSize  = 2
	FrameTrailerSize = 3
	FrameLengthMin   = FrameHeaderSize + FrameTrailerSize
	FrameLengthMax   = 64

	SyncByte = 0x7E
	DestBits = 0x10
	SeqMask  = 0x0F
)

// AppendFrame appends one complete frame carrying payload to buf.
// seq is masked to its 4-bit range. Returns ErrBadFrame if the payload
// would not fit the 64-byte frame limit.
func AppendFrame(buf []byte, seq uint8, payload []byte) ([]byte, error) {
	length := FrameLengthMin + len(payload)
	if length > FrameLengthMax {
		return buf, ErrBadFrame
	}

	start := len(buf)
	buf = append(buf, byte(length), seq&SeqMask|DestBits)
	buf = append(buf, payload...)

	crc := CRC16(buf[start : start+length-FrameTrailerSize])
	buf = append(buf, byte(crc>>8), byte(crc), SyncByte)
	return buf, nil
}

// DecodeFrame validates the frame at the start of data and returns its
// payload, its sequence number and the remaining bytes. The payload
// aliases data; copy it if it must outlive the buffer.
func DecodeFrame(data []byte) (payload []byte, seq uint8, rest []byte, err error) {
	if len(data) < FrameLengthMin {
		return nil, 0, data, ErrTruncated
	}

	length := int(data[0])
	if length < FrameLengthMin || length > FrameLengthMax {
		return nil, 0, data, ErrBadFrame
	}
	if len(data) < length {
		return nil, 0, data, ErrTruncated
	}

	seq = data[1]
	if seq&^SeqMask != DestBits {
		return nil, 0, data, ErrBadFrame
	}
	if data[length-1] != SyncByte {
		return nil, 0, data, ErrBadFrame
	}

	wantCRC := uint16(data[length-3])<<8 | uint16(data[length-2])
	if CRC16(data[:length-FrameTrailerSize]) != wantCRC {
		return nil, 0, data, ErrBadFrame
	}

	return data[FrameHeaderSize : length-FrameTrailerSize], seq & SeqMask, data[length:], nil
}
