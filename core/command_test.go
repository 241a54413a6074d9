package core

import (
	"testing"

	"stepgen"
	"stepgen/wire"
)

func encodeCommand(id uint16, args ...uint32) []byte {
	payload := wire.AppendVLQUint(nil, uint32(id))
	for _, a := range args {
		payload = wire.AppendVLQUint(payload, a)
	}
	return payload
}

func setupCommands(t *testing.T) *mockBackend {
	t.Helper()
	resetSteppers()
	backend := &mockBackend{}
	SetStepBackendFactory(func() StepBackend { return backend })
	RegisterRampCommands()
	return backend
}

func TestDispatchConfigAndMove(t *testing.T) {
	backend := setupCommands(t)

	steps := []struct {
		name    string
		payload []byte
	}{
		{"config", encodeCommand(CmdConfigRampStepper, 0, 2, 3)},
		{"accel", encodeCommand(CmdSetAcceleration, 0, 1000<<8)},
		{"speed", encodeCommand(CmdSetSpeed, 0, 800<<8)},
		{"move", encodeCommand(CmdMove, 0, 25, 0)},
	}
	for _, step := range steps {
		if err := DispatchCommand(step.payload); err != nil {
			t.Fatalf("%s command failed: %v", step.name, err)
		}
	}

	s := GetRampStepper(0)
	if s == nil {
		t.Fatal("stepper not configured")
	}
	runFor(s, 10_000_000)

	if backend.steps != 25 {
		t.Errorf("backend saw %d pulses, want 25", backend.steps)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	setupCommands(t)

	if err := DispatchCommand(encodeCommand(999)); err != ErrUnknownCommand {
		t.Errorf("unknown ID: err = %v, want ErrUnknownCommand", err)
	}
	if err := DispatchCommand(nil); err != wire.ErrTruncated {
		t.Errorf("empty payload: err = %v, want ErrTruncated", err)
	}
}

func TestDispatchMissingStepper(t *testing.T) {
	setupCommands(t)

	if err := DispatchCommand(encodeCommand(CmdMove, 7, 100, 0)); err != errStepperNotFound {
		t.Errorf("move to unconfigured OID: err = %v, want errStepperNotFound", err)
	}
}

func TestDispatchConfigErrorsPropagate(t *testing.T) {
	setupCommands(t)

	if err := DispatchCommand(encodeCommand(CmdConfigRampStepper, 0, 2, 3)); err != nil {
		t.Fatalf("config failed: %v", err)
	}

	// Move before acceleration/speed are set.
	if err := DispatchCommand(encodeCommand(CmdMove, 0, 100, 0)); err != stepgen.ErrNotConfigured {
		t.Errorf("premature move: err = %v, want ErrNotConfigured", err)
	}

	// Unreachable speed must fail without breaking later commands.
	if err := DispatchCommand(encodeCommand(CmdSetSpeed, 0, 1_000_000<<8)); err != stepgen.ErrTooFast {
		t.Errorf("fast speed: err = %v, want ErrTooFast", err)
	}
}

func TestDispatchGetState(t *testing.T) {
	setupCommands(t)

	var got []byte
	SetResponder(func(payload []byte) { got = payload })
	defer SetResponder(nil)

	for _, payload := range [][]byte{
		encodeCommand(CmdConfigRampStepper, 0, 2, 3),
		encodeCommand(CmdSetAcceleration, 0, 1000<<8),
		encodeCommand(CmdSetSpeed, 0, 800<<8),
		encodeCommand(CmdGetState, 0),
	} {
		if err := DispatchCommand(payload); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
	}

	if got == nil {
		t.Fatal("no state response")
	}
	want := []uint32{uint32(CmdGetState), 0, 0, 0, 0, 0} // id, oid, step, target, speed, active
	data := got
	for i, w := range want {
		v, err := wire.DecodeVLQUint(&data)
		if err != nil {
			t.Fatalf("field %d: %v", i, err)
		}
		if v != w {
			t.Errorf("field %d = %d, want %d", i, v, w)
		}
	}
}
