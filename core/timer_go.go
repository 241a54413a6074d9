//go:build !tinygo

package core

var systemTicksValue uint32

// getSystemTicks returns the current system ticks (host implementation).
func getSystemTicks() uint32 {
	return systemTicksValue
}

// setSystemTicks sets the system ticks (host implementation; tests use
// this as their simulated clock).
func setSystemTicks(ticks uint32) {
	systemTicksValue = ticks
}
