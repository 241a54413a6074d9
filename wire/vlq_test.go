package wire

import "testing"

func TestVLQRoundTripInt(t *testing.T) {
	testCases := []int32{
		0,
		1,
		-1,
		31,
		32,
		-32,
		-33,
		127,
		-127,
		128,
		255,
		1000,
		-1000,
		65535,
		-65535,
		1000000,
		-1000000,
		1 << 28,
		-(1 << 28),
	}

	for _, expected := range testCases {
		encoded := AppendVLQInt(nil, expected)

		data := encoded
		decoded, err := DecodeVLQInt(&data)
		if err != nil {
			t.Errorf("decode failed for %d: %v", expected, err)
			continue
		}
		if decoded != expected {
			t.Errorf("round trip: expected %d, got %d (encoded %v)", expected, decoded, encoded)
		}
		if len(data) != 0 {
			t.Errorf("decode left %d bytes for value %d", len(data), expected)
		}
	}
}

func TestVLQRoundTripUint(t *testing.T) {
	testCases := []uint32{0, 1, 31, 32, 127, 128, 255, 1000, 65535, 1 << 20, 0xFFFFFFFF}

	for _, expected := range testCases {
		encoded := AppendVLQUint(nil, expected)

		data := encoded
		decoded, err := DecodeVLQUint(&data)
		if err != nil {
			t.Errorf("decode failed for %d: %v", expected, err)
			continue
		}
		if decoded != expected {
			t.Errorf("round trip: expected %d, got %d (encoded %v)", expected, decoded, encoded)
		}
	}
}

func TestVLQShortEncodings(t *testing.T) {
	// Values within one seven-bit group use a single byte.
	for _, v := range []int32{0, 1, 95, -32} {
		if got := AppendVLQInt(nil, v); len(got) != 1 {
			t.Errorf("AppendVLQInt(%d) used %d bytes, want 1", v, len(got))
		}
	}
}

func TestVLQTruncated(t *testing.T) {
	data := []byte{0x80} // continuation bit with nothing after it
	if _, err := DecodeVLQInt(&data); err != ErrTruncated {
		t.Errorf("expected ErrTruncated, got %v", err)
	}

	var empty []byte
	if _, err := DecodeVLQUint(&empty); err != ErrTruncated {
		t.Errorf("expected ErrTruncated on empty buffer, got %v", err)
	}
}

func TestVLQSequentialDecode(t *testing.T) {
	buf := AppendVLQUint(nil, 7)
	buf = AppendVLQUint(buf, 300)
	buf = AppendVLQUint(buf, 1_000_000)

	data := buf
	for i, want := range []uint32{7, 300, 1_000_000} {
		got, err := DecodeVLQUint(&data)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
	if len(data) != 0 {
		t.Errorf("%d bytes left after decoding all values", len(data))
	}
}
