package core

// Ramp stepper command handlers.
// Implements: config_ramp_stepper, ramp_stepper_set_accel,
// ramp_stepper_set_speed, ramp_stepper_move, ramp_stepper_stop,
// ramp_stepper_halt, ramp_stepper_get_state.

import (
	"errors"

	"stepgen"
	"stepgen/wire"
)

var errStepperNotFound = errors.New("core: stepper not found")

// respond, when set by the transport layer, carries response payloads
// back to the host. Left nil, responses are dropped.
var respond func(payload []byte)

// SetResponder installs the transport callback for response payloads.
func SetResponder(fn func(payload []byte)) {
	respond = fn
}

// RegisterRampCommands registers the ramp stepper command set.
func RegisterRampCommands() {
	RegisterCommand(CmdConfigRampStepper,
		"config_ramp_stepper", "oid=%c step_pin=%c dir_pin=%c",
		cmdConfigRampStepper)
	RegisterCommand(CmdSetAcceleration,
		"ramp_stepper_set_accel", "oid=%c accel=%u",
		cmdSetAcceleration)
	RegisterCommand(CmdSetSpeed,
		"ramp_stepper_set_speed", "oid=%c speed=%u",
		cmdSetSpeed)
	RegisterCommand(CmdMove,
		"ramp_stepper_move", "oid=%c step=%u dir=%c",
		cmdMove)
	RegisterCommand(CmdStop,
		"ramp_stepper_stop", "oid=%c",
		cmdStop)
	RegisterCommand(CmdHalt,
		"ramp_stepper_halt", "oid=%c",
		cmdHalt)
	RegisterCommand(CmdGetState,
		"ramp_stepper_get_state", "oid=%c",
		cmdGetState)
}

func decodeOID(data *[]byte) (*RampStepper, error) {
	oid, err := wire.DecodeVLQUint(data)
	if err != nil {
		return nil, err
	}
	s := GetRampStepper(uint8(oid))
	if s == nil {
		return nil, errStepperNotFound
	}
	return s, nil
}

func cmdConfigRampStepper(data *[]byte) error {
	oid, err := wire.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	stepPin, err := wire.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	dirPin, err := wire.DecodeVLQUint(data)
	if err != nil {
		return err
	}

	_, err = NewRampStepper(uint8(oid), uint8(stepPin), uint8(dirPin), nil)
	return err
}

func cmdSetAcceleration(data *[]byte) error {
	s, err := decodeOID(data)
	if err != nil {
		return err
	}
	accel, err := wire.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	return s.SetAcceleration(stepgen.Accel(accel))
}

func cmdSetSpeed(data *[]byte) error {
	s, err := decodeOID(data)
	if err != nil {
		return err
	}
	speed, err := wire.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	return s.SetSpeed(stepgen.Speed(speed))
}

func cmdMove(data *[]byte) error {
	s, err := decodeOID(data)
	if err != nil {
		return err
	}
	step, err := wire.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	dir, err := wire.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	s.SetNextDir(dir != 0)
	return s.MoveTo(step)
}

func cmdStop(data *[]byte) error {
	s, err := decodeOID(data)
	if err != nil {
		return err
	}
	return s.Stop()
}

func cmdHalt(data *[]byte) error {
	s, err := decodeOID(data)
	if err != nil {
		return err
	}
	s.Halt()
	return nil
}

// cmdGetState responds with "ramp_stepper_state oid=%c step=%u
// target=%u speed=%u active=%c".
func cmdGetState(data *[]byte) error {
	s, err := decodeOID(data)
	if err != nil {
		return err
	}
	if respond == nil {
		return nil
	}

	payload := wire.AppendVLQUint(nil, uint32(CmdGetState))
	payload = wire.AppendVLQUint(payload, uint32(s.OID))
	payload = wire.AppendVLQUint(payload, s.Position())
	payload = wire.AppendVLQUint(payload, s.Target())
	payload = wire.AppendVLQUint(payload, uint32(s.Speed()))
	active := uint32(0)
	if s.IsActive() {
		active = 1
	}
	payload = wire.AppendVLQUint(payload, active)
	respond(payload)
	return nil
}
