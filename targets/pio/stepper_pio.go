//go:build rp2040

// Package pio provides an RP2040 step-pulse backend driven by a PIO
// state machine, so pulse width and dir-to-step timing are handled in
// hardware with no CPU jitter.
package pio

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// PIO program for step pulse generation.
// Command word format:
//
//	Bits 0-15:  pulse count
//	Bits 16-23: delay cycles (inter-pulse spacing)
//	Bit 31:     direction (0=forward, 1=reverse)
//
// The state machine pulls one command word, sets the direction pin,
// then emits the requested pulses.
func buildStepperProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),   // 1: out x, 16 (pulse count)
		asm.Out(rp2pio.OutDestY, 8).Encode(),    // 2: out y, 8 (delay cycles)
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 3: out pins, 1 (direction)
		// step_loop:
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 4: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 5: set pins, 0
		// delay_loop:
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(), // 6: jmp y--, 6
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(), // 7: jmp x--, 4
		// .wrap
	}
}

const stepperPIOOrigin = 0 // load at offset 0 for correct jump addresses

// Backend implements core.StepBackend on a PIO state machine.
type Backend struct {
	pio       *rp2pio.PIO
	sm        rp2pio.StateMachine
	stepPin   machine.Pin
	dirPin    machine.Pin
	direction bool
	offset    uint8
}

// NewBackend creates a backend on the given PIO block (0 or 1) and
// state machine (0-3).
func NewBackend(pioNum, smNum uint8) *Backend {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}
	return &Backend{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// Init loads the PIO program and configures the pins.
func (b *Backend) Init(stepPin, dirPin uint8, invertStep, invertDir bool) error {
	b.stepPin = machine.Pin(stepPin)
	b.dirPin = machine.Pin(dirPin)

	// Claim the state machine before touching it.
	b.sm.TryClaim()

	program := buildStepperProgram()
	offset, err := b.pio.AddProgram(program, stepperPIOOrigin)
	if err != nil {
		return err
	}
	b.offset = offset

	b.stepPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})
	b.dirPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(b.stepPin, 1) // step pulses
	cfg.SetOutPins(b.dirPin, 1)  // direction
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1000, 0)

	b.sm.Init(offset, cfg)

	// Pin directions must be set after Init.
	b.sm.SetPindirsConsecutive(b.stepPin, 1, true)
	b.sm.SetPindirsConsecutive(b.dirPin, 1, true)
	b.sm.SetPinsConsecutive(b.stepPin, 1, false)
	b.sm.SetPinsConsecutive(b.dirPin, 1, false)

	b.sm.SetEnabled(true)
	return nil
}

// Step queues a single step pulse.
func (b *Backend) Step() {
	cmd := uint32(1) | 1<<16 // count=1, delay=1
	if b.direction {
		cmd |= 1 << 31
	}

	for b.sm.IsTxFIFOFull() {
		// Brief busy wait for FIFO space.
	}
	b.sm.TxPut(cmd)
}

// SetDirection latches the direction for subsequent pulses.
func (b *Backend) SetDirection(dir bool) {
	b.direction = dir
}

// Stop drains pending pulses and restarts the state machine idle.
func (b *Backend) Stop() {
	b.sm.SetEnabled(false)
	b.sm.ClearFIFOs()
	b.sm.Restart()
	b.sm.SetEnabled(true)
}
