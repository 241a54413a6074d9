package stepgen

import (
	"bufio"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Regression fixtures: each file under testdata holds the expected
// rounded delay sequence for one run on a 1MHz timer, one delay per
// line. The file name encodes the run parameters as
// <target_step>[_<microsteps>[_<stop_at>]]: microsteps scales both the
// acceleration and the target speed, stop_at is the step at which the
// target is forced to 0 mid-run (marked by a literal "Stopping" line).
func TestProfileFixtures(t *testing.T) {
	entries, err := os.ReadDir("testdata")
	if err != nil {
		t.Fatalf("reading testdata: %v", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		t.Run(name, func(t *testing.T) {
			targetStep, microsteps, stopAt := parseFixtureName(t, name)

			expected := readFixture(t, filepath.Join("testdata", name))
			actual := runProfile(t, targetStep, microsteps, stopAt)

			if len(actual) != len(expected) {
				t.Fatalf("produced %d lines, want %d", len(actual), len(expected))
			}
			for i := range expected {
				if actual[i] != expected[i] {
					t.Fatalf("line %d: got %q, want %q", i+1, actual[i], expected[i])
				}
			}
		})
	}
}

func parseFixtureName(t *testing.T, name string) (targetStep, microsteps, stopAt uint32) {
	t.Helper()
	microsteps = 1
	stopAt = math.MaxUint32

	parts := strings.Split(name, "_")
	values := make([]uint32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			t.Fatalf("bad fixture name %q: %v", name, err)
		}
		values[i] = uint32(v)
	}

	targetStep = values[0]
	if len(values) > 1 {
		microsteps = values[1]
	}
	if len(values) > 2 {
		stopAt = values[2]
	}
	return targetStep, microsteps, stopAt
}

func readFixture(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return lines
}

// runProfile replays a run and formats it the way the fixtures are
// stored: every produced delay rounded to whole ticks, plus the
// "Stopping" marker where the target is pulled to zero.
func runProfile(t *testing.T, targetStep, microsteps, stopAt uint32) []string {
	t.Helper()

	g := New(testFreq)
	if err := g.SetAcceleration(Accel((1000 * microsteps) << 8)); err != nil {
		t.Fatalf("SetAcceleration failed: %v", err)
	}
	if err := g.SetTargetSpeed(Speed((800 * microsteps) << 8)); err != nil {
		t.Fatalf("SetTargetSpeed failed: %v", err)
	}
	if err := g.SetTargetStep(targetStep); err != nil {
		t.Fatalf("SetTargetStep failed: %v", err)
	}
	if got := g.TargetStep(); got != targetStep {
		t.Fatalf("TargetStep() = %d, want %d", got, targetStep)
	}

	var lines []string
	for step := uint32(0); ; step++ {
		if step == stopAt {
			lines = append(lines, "Stopping")
			if err := g.SetTargetStep(0); err != nil {
				t.Fatalf("SetTargetStep(0) failed: %v", err)
			}
		}
		if got := g.CurrentStep(); got != step {
			t.Fatalf("CurrentStep() = %d, want %d", got, step)
		}
		d, ok := g.Next()
		if !ok {
			return lines
		}
		lines = append(lines, strconv.FormatUint(uint64(d.Round()), 10))
	}
}
