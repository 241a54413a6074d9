package stepgen

// Sqrt computes the nearest-integer square root of a 64-bit unsigned
// value, with ties rounded up. It uses the classic digit-by-digit
// binary restoring algorithm, scanning a fixed 32 result bits from the
// most significant downward, so latency is constant regardless of the
// input -- no floating point, no data-dependent loop count.
//
// The rounding (final remainder comparison, ties up) is part of the
// generator's numeric contract: the ramp constants were tuned against
// it, so it must not be replaced with floor or "mathematically
// correct" rounding.
func Sqrt(x0 uint64) uint64 {
	x := x0
	var xr uint64 // result register
	// Scan bit, starting at the highest possible result bit.
	q2 := uint64(0x4000000000000000)
	for q2 != 0 {
		if xr+q2 <= x {
			x -= xr + q2
			xr >>= 1
			xr += q2 // test flag
		} else {
			xr >>= 1
		}
		q2 >>= 2 // shift twice
	}

	// add for rounding, if necessary
	if xr < x {
		return xr + 1
	}
	return xr
}
