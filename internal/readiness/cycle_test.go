package readiness

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPhaseOn(t *testing.T) {
	anchor := day(2025, time.March, 1)

	tests := []struct {
		name       string
		target     time.Time
		cycleLen   int
		wantName   string
		wantDay    int
		wantLuteal bool
	}{
		{"anchor day is cycle day 1", day(2025, time.March, 1), 28, PhaseMenstrual, 1, false},
		{"day 5 still menstrual", day(2025, time.March, 5), 28, PhaseMenstrual, 5, false},
		{"day 6 follicular", day(2025, time.March, 6), 28, PhaseFollicular, 6, false},
		{"ovulation day follicular", day(2025, time.March, 14), 28, PhaseFollicular, 14, false},
		{"day after ovulation luteal", day(2025, time.March, 15), 28, PhaseLuteal, 15, true},
		{"last cycle day luteal", day(2025, time.March, 28), 28, PhaseLuteal, 28, true},
		{"wraps to next cycle", day(2025, time.March, 29), 28, PhaseMenstrual, 1, false},
		{"short cycle ovulation at day 10", day(2025, time.March, 11), 21, PhaseLuteal, 11, true},
		{"long cycle day 17 follicular", day(2025, time.March, 17), 35, PhaseFollicular, 17, false},
		{"target before anchor wraps positively", day(2025, time.February, 28), 28, PhaseLuteal, 28, true},
		{"far before anchor", day(2024, time.January, 1), 28, PhaseLuteal, 24, true},
		{"zero length falls back to default", day(2025, time.March, 6), 0, PhaseFollicular, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhaseOn(anchor, tt.target, tt.cycleLen)
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Day != tt.wantDay {
				t.Errorf("Day = %d, want %d", got.Day, tt.wantDay)
			}
			if got.IsLuteal != tt.wantLuteal {
				t.Errorf("IsLuteal = %v, want %v", got.IsLuteal, tt.wantLuteal)
			}
		})
	}
}

// Cycle day must stay in [1, cycleLength] no matter how far the target date
// drifts from the anchor in either direction.
func TestPhaseOnDayWraparound(t *testing.T) {
	anchor := day(2025, time.June, 15)

	for _, cycleLen := range []int{21, 28, 35} {
		for offset := -500; offset <= 500; offset += 13 {
			target := anchor.AddDate(0, 0, offset)
			got := PhaseOn(anchor, target, cycleLen)
			if got.Day < 1 || got.Day > cycleLen {
				t.Fatalf("PhaseOn(offset %d, len %d).Day = %d, want in [1,%d]",
					offset, cycleLen, got.Day, cycleLen)
			}
		}
	}
}

// The calculator must be time-of-day insensitive: any timestamp within the
// same calendar day maps to the same phase.
func TestPhaseOnIgnoresTimeOfDay(t *testing.T) {
	anchor := day(2025, time.March, 1)
	morning := time.Date(2025, time.March, 20, 6, 15, 0, 0, time.UTC)
	night := time.Date(2025, time.March, 20, 23, 59, 59, 0, time.UTC)

	a := PhaseOn(anchor, morning, 28)
	b := PhaseOn(anchor, night, 28)
	if a != b {
		t.Errorf("phase differs by time of day: %+v vs %+v", a, b)
	}
}

func TestIsLutealName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Luteal", true},
		{"luteal", true},
		{"LUTEAL", true},
		{"mid_luteal", true},
		{"Late_Luteal", true},
		{"Follicular", false},
		{"Menstrual", false},
		{"", false},
		{"lutealish", false},
	}

	for _, tt := range tests {
		if got := IsLutealName(tt.name); got != tt.want {
			t.Errorf("IsLutealName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
