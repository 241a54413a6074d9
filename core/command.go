package core

import (
	"errors"

	"stepgen/wire"
)

// CommandHandler handles one decoded command. The handler decodes its
// own arguments from the data slice, advancing it as it goes.
type CommandHandler func(data *[]byte) error

// Command IDs are fixed so the host and the firmware agree without a
// dictionary exchange.
const (
	CmdConfigRampStepper uint16 = iota + 1
	CmdSetAcceleration
	CmdSetSpeed
	CmdMove
	CmdStop
	CmdHalt
	CmdGetState
)

// Command describes one registered command.
type Command struct {
	ID      uint16
	Name    string
	Format  string // argument format, e.g. "oid=%c accel=%u"
	Handler CommandHandler
}

var (
	ErrUnknownCommand = errors.New("core: unknown command ID")

	commands = map[uint16]*Command{}
)

// RegisterCommand registers a handler under a fixed command ID.
func RegisterCommand(id uint16, name, format string, handler CommandHandler) {
	commands[id] = &Command{ID: id, Name: name, Format: format, Handler: handler}
}

// DispatchCommand decodes the command ID at the head of a frame
// payload and runs the matching handler on the rest.
func DispatchCommand(payload []byte) error {
	data := payload
	id, err := wire.DecodeVLQUint(&data)
	if err != nil {
		return err
	}
	cmd, ok := commands[uint16(id)]
	if !ok {
		return ErrUnknownCommand
	}
	return cmd.Handler(&data)
}
