package readiness

import "time"

// Workload windows. The acute window is fixed at 7 days; the chronic window is
// configurable between 28 and 56 days and normalized to a weekly average.
const (
	AcuteWindowDays      = 7
	MinChronicWindowDays = 28
	MaxChronicWindowDays = 56
)

// ACWR band thresholds
const (
	acwrLowCeiling   = 0.8
	acwrSweetCeiling = 1.3
	acwrOverCeiling  = 1.5
)

// Band names for the acute:chronic ratio. Diagnostic only; the decision engine
// works from the raw ratio.
const (
	BandLow          = "LOW"
	BandSweet        = "SWEET"
	BandOverreaching = "OVERREACHING"
	BandSpike        = "SPIKE"
)

const dayLayout = "2006-01-02"

// LoadEntry is one activity's contribution to the workload windows: a calendar
// day and a corrected load. Entries excluded from aggregation should be
// filtered out before calling ComputeWorkload.
type LoadEntry struct {
	Day  time.Time
	Load float64
}

// Workload is the derived acute:chronic view for a reference day.
type Workload struct {
	AcuteSum         float64
	ChronicWeeklyAvg float64
	// Ratio is nil when the chronic window carries no load. That is distinct
	// from a ratio of zero: the decision engine treats a missing ratio as
	// grounds to withhold a PUSH.
	Ratio *float64
	Band  string
}

// ComputeWorkload aggregates corrected loads into a 7-day acute sum and a
// weekly-normalized chronic average over the trailing window ending at today
// (inclusive). Day membership is decided by calendar-day comparison, so an
// activity anywhere within the span counts regardless of time of day.
// windowDays is clamped to [28, 56].
func ComputeWorkload(entries []LoadEntry, today time.Time, windowDays int) Workload {
	if windowDays < MinChronicWindowDays {
		windowDays = MinChronicWindowDays
	}
	if windowDays > MaxChronicWindowDays {
		windowDays = MaxChronicWindowDays
	}

	todayKey := today.Format(dayLayout)
	acuteFrom := today.AddDate(0, 0, -(AcuteWindowDays - 1)).Format(dayLayout)
	chronicFrom := today.AddDate(0, 0, -(windowDays - 1)).Format(dayLayout)

	var acuteSum, chronicSum float64
	for _, e := range entries {
		if !isFinite(e.Load) {
			continue
		}
		key := e.Day.Format(dayLayout)
		if key > todayKey || key < chronicFrom {
			continue
		}
		chronicSum += e.Load
		if key >= acuteFrom {
			acuteSum += e.Load
		}
	}

	w := Workload{
		AcuteSum:         acuteSum,
		ChronicWeeklyAvg: chronicSum / (float64(windowDays) / 7.0),
	}

	if w.ChronicWeeklyAvg > 0 {
		ratio := round2(acuteSum / w.ChronicWeeklyAvg)
		w.Ratio = &ratio
		w.Band = RatioBand(ratio)
	}

	return w
}

// RatioBand classifies an acute:chronic ratio.
func RatioBand(ratio float64) string {
	switch {
	case ratio < acwrLowCeiling:
		return BandLow
	case ratio <= acwrSweetCeiling:
		return BandSweet
	case ratio <= acwrOverCeiling:
		return BandOverreaching
	default:
		return BandSpike
	}
}
