package readiness

import (
	"strings"
	"time"
)

// Cycle phase names
const (
	PhaseMenstrual  = "Menstrual"
	PhaseFollicular = "Follicular"
	PhaseLuteal     = "Luteal"
	PhaseUnknown    = "Unknown"
)

// Cycle length domain. Lengths outside 21-35 days are rejected by config
// validation before they reach the engine.
const (
	MinCycleLengthDays     = 21
	MaxCycleLengthDays     = 35
	DefaultCycleLengthDays = 28
)

// lutealNames accepts finer-grained sub-labels so externally sourced phase
// vocabularies ("mid_luteal", "late_luteal") still get the luteal correction.
var lutealNames = map[string]bool{
	"luteal":      true,
	"mid_luteal":  true,
	"late_luteal": true,
}

// IsLutealName reports whether a phase label counts as luteal (case-insensitive).
func IsLutealName(name string) bool {
	return lutealNames[strings.ToLower(name)]
}

// CyclePhase is the derived phase for a single calendar day.
type CyclePhase struct {
	Name     string
	Day      int // 1-based day within the cycle, always in [1, cycleLength]
	IsLuteal bool
}

// PhaseOn maps a cycle anchor (first day of the last period) and a target date
// to the phase on that date. Both inputs are treated at calendar-day
// granularity. The function is pure: it gives identical results whether called
// for today or for any historical date, including dates before the anchor
// (the day index wraps with a positive modulo).
func PhaseOn(anchor, target time.Time, cycleLengthDays int) CyclePhase {
	if cycleLengthDays <= 0 {
		cycleLengthDays = DefaultCycleLengthDays
	}

	days := daysBetween(anchor, target)
	day := ((days%cycleLengthDays)+cycleLengthDays)%cycleLengthDays + 1

	ovulationDay := cycleLengthDays / 2

	var name string
	switch {
	case day <= 5:
		name = PhaseMenstrual
	case day <= ovulationDay:
		name = PhaseFollicular
	case day <= cycleLengthDays:
		name = PhaseLuteal
	default:
		name = PhaseMenstrual
	}

	return CyclePhase{
		Name:     name,
		Day:      day,
		IsLuteal: name == PhaseLuteal,
	}
}

// daysBetween returns whole calendar days from a to b (negative when b < a).
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
