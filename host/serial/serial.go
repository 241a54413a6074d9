// Package serial abstracts the host's serial link to the firmware.
package serial

import "io"

// Port is a host-side serial connection. The native implementation
// wraps github.com/tarm/serial; tests substitute an in-memory one.
type Port interface {
	io.ReadWriteCloser

	// Flush pushes any buffered data to the device.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0", "COM3").
	Device string

	// Baud rate. USB CDC devices ignore this.
	Baud int

	// Read timeout in milliseconds (0 = blocking).
	ReadTimeout int
}

// DefaultConfig returns the standard configuration for a firmware
// link on the given device.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        250000,
		ReadTimeout: 100,
	}
}
