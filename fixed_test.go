package stepgen

import "testing"

func TestDelayRound(t *testing.T) {
	cases := []struct {
		d    Delay
		want uint32
	}{
		{0, 0},
		{127, 0},   // just below half a tick
		{128, 1},   // exactly half rounds up
		{255, 1},
		{256, 1},
		{2242*256 - 128, 2242},
		{0xFFFF00, 0xFFFF},
	}

	for _, c := range cases {
		if got := c.d.Round(); got != c.want {
			t.Errorf("Delay(%d).Round() = %d, want %d", c.d, got, c.want)
		}
	}
}

func TestDelay16Out(t *testing.T) {
	// Downshift to 16.8 truncates, never rounds.
	if got := delay16(0x1FFFF).out(); got != 0x1FF {
		t.Errorf("delay16(0x1FFFF).out() = %#x, want 0x1ff", got)
	}
	if got := delay16(0x100).out(); got != 1 {
		t.Errorf("delay16(0x100).out() = %d, want 1", got)
	}
}

func TestRoundDiv(t *testing.T) {
	cases := []struct {
		n, d, want uint32
	}{
		{10, 4, 3},  // 2.5 rounds up
		{9, 4, 2},   // 2.25 rounds down
		{11, 4, 3},  // 2.75 rounds up
		{10, 5, 2},
		{0, 7, 0},
		{1, 2, 1},   // 0.5 rounds up
	}

	for _, c := range cases {
		if got := roundDiv(c.n, c.d); got != c.want {
			t.Errorf("roundDiv(%d, %d) = %d, want %d", c.n, c.d, got, c.want)
		}
	}
}
