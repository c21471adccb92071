package readiness

// Rolling baseline parameters for resting HR and HRV. The window covers the
// 28 days preceding the target day; the target day's own reading is excluded
// so a deviation doesn't dilute the baseline it is compared against.
const (
	BaselineWindowDays = 28
	MinBaselineSamples = 3
)

// Baseline returns the mean of the supplied readings, or nil when there are
// too few samples to form a stable baseline. Non-finite readings are skipped.
func Baseline(samples []float64) *float64 {
	var sum float64
	var n int
	for _, v := range samples {
		if !isFinite(v) {
			continue
		}
		sum += v
		n++
	}
	if n < MinBaselineSamples {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

// HRVVsBaselinePct returns today's HRV as a percentage of its baseline, or
// nil when either side is missing.
func HRVVsBaselinePct(hrv, baseline *float64) *float64 {
	if !present(hrv) || !present(baseline) || *baseline <= 0 {
		return nil
	}
	pct := round2(*hrv / *baseline * 100)
	return &pct
}
