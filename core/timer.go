package core

// TimerFreq is the system timer tick rate. The ramp generators are
// constructed against the same rate, so one produced delay unit is one
// timer tick.
const TimerFreq = 1_000_000 // 1MHz (1us resolution)

// GetTime returns the current system time in timer ticks.
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time. Hardware integration drives
// this from the tick interrupt; tests drive it directly.
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// ProcessTimers runs every timer whose wake time has passed. Called
// from the main loop (or the tick interrupt on hardware targets).
func ProcessTimers() {
	currentTime = GetTime()
	timerDispatch()
}
