//go:build rp2040

package pio

import "stepgen/core"

// The RP2040 has 2 PIO blocks with 4 state machines each, so up to 8
// hardware-timed stepper axes.
var (
	pioAllocations [2][4]bool
	nextPIONum     uint8
	nextSMNum      uint8
)

// InitSteppers registers the ramp commands and installs the PIO
// backend factory used when axes are configured.
func InitSteppers() {
	core.RegisterRampCommands()
	core.SetStepBackendFactory(createBackend)
}

func createBackend() core.StepBackend {
	pioNum, smNum, ok := allocatePIO()
	if !ok {
		return nil
	}
	return NewBackend(pioNum, smNum)
}

func allocatePIO() (uint8, uint8, bool) {
	for i := 0; i < 8; i++ {
		pioNum := nextPIONum
		smNum := nextSMNum

		nextSMNum++
		if nextSMNum >= 4 {
			nextSMNum = 0
			nextPIONum = (nextPIONum + 1) % 2
		}

		if !pioAllocations[pioNum][smNum] {
			pioAllocations[pioNum][smNum] = true
			return pioNum, smNum, true
		}
	}
	return 0, 0, false
}
