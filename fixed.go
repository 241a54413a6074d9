package stepgen

// Fixed-point formats used by the generator.
//
// All quantities are unsigned integers with an implied binary point:
//
//	Accel, Speed  24.8  -- caller-facing steps/sec^2 and steps/sec
//	delay16       16.16 -- internal per-step delay, in timer ticks
//	Delay         16.8  -- produced per-step delay, in timer ticks
//
// The integral part of every delay must fit in 16 bits (the hardware
// delay register width); configuration rejects anything larger. Ramp
// math is carried at 16 fractional bits and downshifted to 8 on output.

// Accel is an acceleration in steps/sec^2, 24.8 fixed-point.
type Accel uint32

// Speed is a speed in steps/sec, 24.8 fixed-point.
type Speed uint32

// Delay is a per-step timer delay in ticks, 16.8 fixed-point.
type Delay uint32

// delay16 is the internal per-step delay in ticks, 16.16 fixed-point.
type delay16 uint32

const (
	// Number of fractional bits in caller-facing values and in Delay.
	fracBits = 8
	// Number of fractional bits carried internally.
	fracBitsInternal = 16
)

// out converts an internal 16.16 delay to the produced 16.8 format.
// The shift truncates; the extra precision only matters between steps.
func (d delay16) out() Delay {
	return Delay(d >> (fracBitsInternal - fracBits))
}

// Round returns the delay rounded to the nearest whole tick, ready to
// be loaded into a one-shot timer.
func (d Delay) Round() uint32 {
	return (uint32(d) + 1<<(fracBits-1)) >> fracBits
}

// roundDiv divides n by d, rounding half up. Used by the ramp
// recurrences; the fixture data depends on this exact rounding.
func roundDiv(n, d uint32) uint32 {
	return (n + d/2) / d
}
