// Package stepgen generates stepper motor speed ramps in real time.
//
// Given an acceleration, a target speed and a target step to stop at,
// a Stepgen produces the per-step timer delays that drive a motor
// through an acceleration ramp, a constant-speed slew and a
// deceleration ramp, using the algorithm from David Austin's
// "Generate stepper-motor speed profiles in real time" paper.
//
// The generator is pull-based: each call to Next advances the position
// by exactly one step and yields either the delay to arm the next
// timer tick with, or a stop signal. It performs only fixed-count
// integer arithmetic, so it is safe to call from a timer interrupt.
// The target step and target speed may be changed between any two
// calls, including mid-ramp, and take effect on the next call.
//
// Typical use from a timer interrupt handler:
//
//	gen := stepgen.New(1_000_000) // 1MHz timer
//	gen.SetAcceleration(1000 << 8)
//	gen.SetTargetSpeed(800 << 8)
//	gen.SetTargetStep(1000)
//
//	delay, ok := gen.Next()
//	if ok {
//		armTimer(delay.Round())
//	}
package stepgen

import "errors"

var (
	// ErrTooSlow means a configured acceleration or target speed would
	// need a per-step delay whose integral part does not fit the 16-bit
	// hardware delay register.
	ErrTooSlow = errors.New("stepgen: delay too long for 16-bit timer")

	// ErrTooFast means a configured target speed would leave less than
	// ticksPerUpdate ticks between steps, not enough time to compute
	// the next delay before the timer fires again.
	ErrTooFast = errors.New("stepgen: delay shorter than update margin")

	// ErrNotConfigured means a target step was requested before both
	// acceleration and target speed were configured.
	ErrNotConfigured = errors.New("stepgen: acceleration and target speed not set")
)

// ticksPerUpdate is a rough estimate of how many timer ticks one
// delay computation takes. Target speeds whose delay would be at or
// below this margin are rejected so the control loop can always re-arm
// the timer in time.
const ticksPerUpdate = 10

// phase is the explicit ramp phase tag.
type phase uint8

const (
	// phaseStopped: at rest, not producing steps.
	phaseStopped phase = iota
	// phaseRamping: accelerating or decelerating along the ramp.
	phaseRamping
	// phaseSlewing: cruising at the target delay.
	phaseSlewing
)

// Stepgen is a single-axis stepper ramp generator bound to one timer
// tick frequency. It is owned by exactly one control loop; it does no
// locking of its own.
type Stepgen struct {
	// Timer frequency, fixed at construction.
	ticksPerSecond uint32

	// Configuration. firstDelay and targetDelay are zero only while
	// unconfigured.
	firstDelay  delay16 // delay for the first step from rest
	targetDelay delay16 // delay at the target (slew) speed
	targetStep  uint32  // absolute step to decelerate toward and stop at

	// Running state.
	currentStep uint32  // steps taken so far; never decreases
	phase       phase
	rampSteps   uint32  // ramp steps taken in the current phase; 0 at rest
	delay       delay16 // current ramp delay
	slewDelay   delay16 // delay held while slewing, zero otherwise
}

// New creates a generator for a timer ticking ticksPerSecond times a
// second. The frequency is immutable for the life of the generator.
func New(ticksPerSecond uint32) *Stepgen {
	return &Stepgen{ticksPerSecond: ticksPerSecond}
}

// SetAcceleration sets the acceleration in steps/sec^2, 24.8
// fixed-point, deriving the delay for the first step from rest:
//
//	c0 = F * 0.676 * sqrt(2/a)
//
// where 0.676 corrects the first-step timing error of the discrete
// approximation (see the Austin paper). As much as possible is kept
// under the square root so the single division loses the least
// precision.
//
// This is the one computationally expensive call in the package (it
// runs the square root); set acceleration once, from outside the
// time-critical path. Returns ErrTooSlow if the first delay does not
// fit the 16-bit delay register, or if accel is zero (which would mean
// an unbounded first delay). On error nothing is changed.
func (s *Stepgen) SetAcceleration(accel Accel) error {
	if accel == 0 {
		return ErrTooSlow
	}
	// c0 = F*sqrt(2/a)*676/1000 = F*sqrt(2*676*676/a)/1000.
	// The <<40 both compensates the 24.8 scale of accel and leaves the
	// square root in 24.8; the final >>8 returns c0 to whole ticks
	// with 8 fractional bits.
	c0long := (uint64(2*676*676) << 40) / uint64(accel)
	c0 := (uint64(s.ticksPerSecond) * Sqrt(c0long) / 1000) >> 8
	if c0>>24 != 0 {
		// Integral part would not fit the 16-bit timer.
		return ErrTooSlow
	}
	// Keep 16.16 internally for the ramp recurrences.
	s.firstDelay = delay16(c0 << 8)
	return nil
}

// SetTargetSpeed sets the slew speed in steps/sec, 24.8 fixed-point.
// The motor only reaches it if the target step leaves enough room to
// accelerate. May be called at any time, including mid-run; the change
// is observed on the next call to Next.
//
// Returns ErrTooSlow if the corresponding delay does not fit the
// 16-bit delay register (or speed is zero), ErrTooFast if the delay
// leaves less than ticksPerUpdate ticks between steps. On error
// nothing is changed.
func (s *Stepgen) SetTargetSpeed(speed Speed) error {
	if speed == 0 {
		return ErrTooSlow
	}
	delay := (uint64(s.ticksPerSecond) << 16) / uint64(speed)
	if delay>>24 != 0 {
		return ErrTooSlow
	}
	if delay <= ticksPerUpdate<<fracBits {
		return ErrTooFast
	}
	s.targetDelay = delay16(delay << 8)
	return nil
}

// SetTargetStep sets the absolute step position to decelerate toward
// and stop at. It may be below the current step; steps only run in the
// positive direction, so a target at or behind the current position
// forces deceleration to a stop (overshooting by whatever the current
// speed requires). May be called at any time, including mid-run.
//
// Returns ErrNotConfigured until both SetAcceleration and
// SetTargetSpeed have succeeded at least once.
func (s *Stepgen) SetTargetStep(step uint32) error {
	if s.firstDelay == 0 || s.targetDelay == 0 {
		return ErrNotConfigured
	}
	s.targetStep = step
	return nil
}

// CurrentStep returns the number of steps taken so far.
func (s *Stepgen) CurrentStep() uint32 {
	return s.currentStep
}

// TargetStep returns the configured target step.
func (s *Stepgen) TargetStep() uint32 {
	return s.targetStep
}

// CurrentSpeed estimates the instantaneous speed in steps/sec, 24.8
// fixed-point, from whichever delay is currently active. Zero while at
// rest.
func (s *Stepgen) CurrentSpeed() Speed {
	if s.phase == phaseStopped {
		return 0
	}
	d := s.delay
	if s.phase == phaseSlewing {
		d = s.slewDelay
	}
	d8 := uint32(d) >> 8 // active delay in 16.8
	if d8 == 0 {
		return 0
	}
	return Speed((uint64(s.ticksPerSecond) << 16) / uint64(d8))
}

// Next produces the delay for the next step, advancing the current
// position by one. It returns ok=false once the target step has been
// reached and the ramp has wound down; after that it keeps returning
// ok=false (without advancing) until a farther target step restarts
// the run.
//
// Only fixed-count integer arithmetic happens here; the call is safe
// inside a timer interrupt.
func (s *Stepgen) Next() (Delay, bool) {
	targetStep := s.targetStep
	targetDelay := s.targetDelay
	st := s.currentStep

	// At the stop point with the ramp wound down: report stopped.
	if st >= targetStep && s.rampSteps <= 1 {
		s.phase = phaseStopped
		s.rampSteps = 0
		return 0, false
	}

	// Leave the slew phase if the target delay changed under it; the
	// ramp logic below re-derives the phase.
	if s.phase == phaseSlewing && s.slewDelay != targetDelay {
		s.phase = phaseRamping
		s.slewDelay = 0
	}

	s.currentStep++

	if s.rampSteps == 0 {
		// Starting from rest. If the target speed is slower than the
		// first-step speed there is nothing to ramp through: hold the
		// target delay directly and skip the ramp entirely.
		if s.firstDelay < targetDelay {
			s.delay = targetDelay
			s.phase = phaseSlewing
			s.slewDelay = targetDelay
			return s.delay.out(), true
		}
		s.delay = s.firstDelay
		s.rampSteps = 1
		s.phase = phaseRamping
		return s.delay.out(), true
	}

	// Step we would stop at if deceleration started right now. Note
	// this uses the step count from before the increment above; that
	// keeps the deceleration recurrence away from rampSteps==0.
	estStop := st + s.rampSteps
	switch {
	case estStop == targetStep:
		// Deceleration would stop one step early; hold the current
		// delay and start decelerating on the next call.

	case estStop > targetStep:
		// Past the point of no return: decelerate now, even if that
		// drops below the slew speed.
		s.decelerate()
		s.phase = phaseRamping
		s.slewDelay = 0

	case s.phase != phaseSlewing && s.delay < targetDelay:
		// Running faster than the target speed: decelerate toward it.
		s.decelerate()
		if s.delay >= targetDelay {
			s.phase = phaseSlewing
			s.slewDelay = targetDelay
		}

	case s.phase != phaseSlewing && s.delay > targetDelay:
		// Running slower than the target speed: accelerate.
		s.accelerate()
		if s.delay <= targetDelay {
			s.phase = phaseSlewing
			s.slewDelay = targetDelay
		}
	}

	// While slewing, hold the exact target delay; the ramp delay is
	// close but drifts with accumulated rounding.
	if s.phase == phaseSlewing {
		return s.slewDelay.out(), true
	}
	return s.delay.out(), true
}

// accelerate applies one step of Austin's acceleration recurrence:
//
//	delay -= round(2*delay / (4*n + 1))
func (s *Stepgen) accelerate() {
	denom := 4*s.rampSteps + 1
	s.delay -= delay16(roundDiv(2*uint32(s.delay), denom))
	s.rampSteps++
}

// decelerate applies one step of the recurrence in reverse:
//
//	delay += round(2*delay / (4*n - 1))
func (s *Stepgen) decelerate() {
	s.rampSteps--
	denom := 4*s.rampSteps - 1
	s.delay += delay16(roundDiv(2*uint32(s.delay), denom))
}
