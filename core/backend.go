package core

// StepBackend is the hardware abstraction for one stepper axis.
// Implementations drive the pins directly (GPIO) or through a
// peripheral (PIO); all of them are called from the timer dispatch
// path and must be fast.
type StepBackend interface {
	// Init initializes the step and direction outputs.
	Init(stepPin, dirPin uint8, invertStep, invertDir bool) error

	// Step generates a single step pulse, handling pulse width
	// timing internally.
	Step()

	// SetDirection sets the direction output, including the required
	// dir-to-step setup time.
	SetDirection(dir bool)

	// Stop forces the step output to its idle level.
	Stop()
}
