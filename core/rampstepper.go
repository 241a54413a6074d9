package core

// Ramp-profiled stepper axis: a stepgen.Stepgen produces the per-step
// delays, a Timer turns them into step pulses through a StepBackend.

import (
	"errors"

	"stepgen"
)

// Maximum number of configurable axes.
const maxSteppers = 16

// RampStepper is a single stepper motor axis driven by a ramp
// generator. Between timer fires the generator may be reconfigured
// (speed, target step); the change is picked up at the next step.
type RampStepper struct {
	OID     uint8
	StepPin uint8
	DirPin  uint8

	gen     *stepgen.Stepgen
	backend StepBackend
	timer   Timer

	active  bool
	pending bool // timer is in the schedule
	dir     bool // direction for the next move; false = forward
}

var (
	steppers     [maxSteppers]*RampStepper
	stepperCount uint8

	// Backend factory, set by platform-specific code before steppers
	// are configured.
	stepBackendFactory func() StepBackend
)

// SetStepBackendFactory installs the factory used to create hardware
// backends for new steppers.
func SetStepBackendFactory(factory func() StepBackend) {
	stepBackendFactory = factory
}

// GetRampStepper returns a configured stepper by OID, or nil.
func GetRampStepper(oid uint8) *RampStepper {
	if oid >= stepperCount {
		return nil
	}
	return steppers[oid]
}

// NewRampStepper creates a stepper axis bound to the system timer
// frequency and registers it under oid. The backend comes from the
// installed factory unless one is passed explicitly.
func NewRampStepper(oid uint8, stepPin, dirPin uint8, backend StepBackend) (*RampStepper, error) {
	if oid >= maxSteppers {
		return nil, errors.New("stepper OID exceeds maximum")
	}

	if backend == nil && stepBackendFactory != nil {
		backend = stepBackendFactory()
	}
	if backend == nil {
		return nil, errors.New("no stepper backend available")
	}
	if err := backend.Init(stepPin, dirPin, false, false); err != nil {
		return nil, err
	}

	s := &RampStepper{
		OID:     oid,
		StepPin: stepPin,
		DirPin:  dirPin,
		gen:     stepgen.New(TimerFreq),
		backend: backend,
	}
	s.timer.Handler = s.stepEvent

	steppers[oid] = s
	if oid >= stepperCount {
		stepperCount = oid + 1
	}
	return s, nil
}

// SetAcceleration configures the axis acceleration (steps/sec^2,
// 24.8). Expensive; call while the axis is idle, not from the timer
// path.
func (s *RampStepper) SetAcceleration(accel stepgen.Accel) error {
	return s.gen.SetAcceleration(accel)
}

// SetSpeed configures the slew speed (steps/sec, 24.8). Takes effect
// on the next step, even mid-move.
func (s *RampStepper) SetSpeed(speed stepgen.Speed) error {
	return s.gen.SetTargetSpeed(speed)
}

// SetNextDir sets the direction applied when the next move starts.
func (s *RampStepper) SetNextDir(dir bool) {
	s.dir = dir
}

// MoveTo ramps the axis to the given absolute step and stops there.
// If a move is already running this just retargets it; the generator
// re-derives its ramp phase at the next step.
func (s *RampStepper) MoveTo(step uint32) error {
	if err := s.gen.SetTargetStep(step); err != nil {
		return err
	}
	if s.active {
		return nil
	}
	if s.pending {
		// Halted with the timer still queued: resume on its next fire.
		s.backend.SetDirection(s.dir)
		s.active = true
		return nil
	}

	// Pull the delay for the first step and arm the timer; the pulse
	// itself happens when the timer fires.
	d, ok := s.gen.Next()
	if !ok {
		return nil // already at target
	}
	s.backend.SetDirection(s.dir)
	s.active = true
	s.pending = true
	s.timer.WakeTime = GetTime() + d.Round()
	ScheduleTimer(&s.timer)
	return nil
}

// Stop decelerates to a stop as fast as the configured acceleration
// allows, overshooting the current position by whatever the ramp
// needs.
func (s *RampStepper) Stop() error {
	return s.gen.SetTargetStep(s.gen.CurrentStep())
}

// Halt stops stepping immediately, without deceleration. The position
// counter keeps its value; the motor may lose steps physically.
func (s *RampStepper) Halt() {
	s.active = false
	s.backend.Stop()
}

// stepEvent runs once per step from the timer dispatch: pulse, then
// pull the next delay and re-arm.
func (s *RampStepper) stepEvent(t *Timer) uint8 {
	if !s.active {
		s.pending = false
		return SF_DONE
	}

	s.backend.Step()

	d, ok := s.gen.Next()
	if !ok {
		s.active = false
		s.pending = false
		return SF_DONE
	}
	t.WakeTime += d.Round()
	return SF_RESCHEDULE
}

// Position returns the current absolute step.
func (s *RampStepper) Position() uint32 {
	return s.gen.CurrentStep()
}

// Target returns the step the axis is heading for.
func (s *RampStepper) Target() uint32 {
	return s.gen.TargetStep()
}

// Speed returns the instantaneous speed estimate (steps/sec, 24.8).
func (s *RampStepper) Speed() stepgen.Speed {
	return s.gen.CurrentSpeed()
}

// IsActive reports whether a move is in progress.
func (s *RampStepper) IsActive() bool {
	return s.active
}
