// rampctl computes stepper ramp profiles on the host.
//
// Without -device it prints the delay sequence for the given
// configuration, one rounded delay per line -- the same format the
// regression fixtures use. With -device it sends the equivalent
// command sequence to a board running the firmware.
package main

import (
	"flag"
	"fmt"
	"os"

	"stepgen"
	"stepgen/core"
	"stepgen/host/serial"
	"stepgen/wire"
)

var (
	tickHz     = flag.Uint("tick-hz", 1_000_000, "Timer tick frequency (Hz)")
	accel      = flag.Uint("accel", 1000, "Acceleration (steps/sec^2)")
	speed      = flag.Uint("speed", 800, "Target speed (steps/sec)")
	steps      = flag.Uint("steps", 1000, "Target step to stop at")
	microsteps = flag.Uint("microsteps", 1, "Microstep factor applied to accel and speed")
	stopAt     = flag.Int("stop-at", -1, "Step at which to force the target to 0 (-1 = never)")

	device  = flag.String("device", "", "Serial device to send the move to (print profile if empty)")
	baud    = flag.Int("baud", 250000, "Baud rate (ignored for USB CDC)")
	oid     = flag.Uint("oid", 0, "Stepper object ID on the firmware")
	stepPin = flag.Uint("step-pin", 2, "Step output pin")
	dirPin  = flag.Uint("dir-pin", 3, "Direction output pin")
)

func main() {
	flag.Parse()

	gen, err := configure()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *device == "" {
		printProfile(gen)
		return
	}

	if err := stream(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configure builds a generator from the flags, validating them the
// same way the firmware would.
func configure() (*stepgen.Stepgen, error) {
	gen := stepgen.New(uint32(*tickHz))
	if err := gen.SetAcceleration(stepgen.Accel(*accel * *microsteps << 8)); err != nil {
		return nil, err
	}
	if err := gen.SetTargetSpeed(stepgen.Speed(*speed * *microsteps << 8)); err != nil {
		return nil, err
	}
	if err := gen.SetTargetStep(uint32(*steps)); err != nil {
		return nil, err
	}
	return gen, nil
}

func printProfile(gen *stepgen.Stepgen) {
	for step := 0; ; step++ {
		if step == *stopAt {
			fmt.Println("Stopping")
			gen.SetTargetStep(0)
		}
		d, ok := gen.Next()
		if !ok {
			return
		}
		fmt.Println(d.Round())
	}
}

// stream sends the configured move to the firmware as framed
// commands: configure the axis, then start the move. The firmware's
// timer loop generates the identical profile on its own.
func stream() error {
	port, err := serial.Open(&serial.Config{
		Device:      *device,
		Baud:        *baud,
		ReadTimeout: 100,
	})
	if err != nil {
		return err
	}
	defer port.Close()

	cmds := [][]uint32{
		{uint32(core.CmdConfigRampStepper), uint32(*oid), uint32(*stepPin), uint32(*dirPin)},
		{uint32(core.CmdSetAcceleration), uint32(*oid), uint32(*accel * *microsteps << 8)},
		{uint32(core.CmdSetSpeed), uint32(*oid), uint32(*speed * *microsteps << 8)},
		{uint32(core.CmdMove), uint32(*oid), uint32(*steps), 0},
	}

	var buf []byte
	for seq, cmd := range cmds {
		var payload []byte
		for _, v := range cmd {
			payload = wire.AppendVLQUint(payload, v)
		}
		buf, err = wire.AppendFrame(buf, uint8(seq), payload)
		if err != nil {
			return err
		}
	}

	if _, err := port.Write(buf); err != nil {
		return err
	}
	if err := port.Flush(); err != nil {
		return err
	}

	fmt.Printf("Sent move to step %d (oid %d) over %s\n", *steps, *oid, *device)
	return nil
}
