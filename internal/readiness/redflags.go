package readiness

import "fmt"

// Red flag thresholds
const (
	lowSleepHours   = 5.5
	rhrFlagFactor   = 1.05
	hrvFlagFactor   = 0.9
	lutealRHROffset = 3.0
	lutealHRVFactor = 1.12
)

// RedFlagInput carries today's biometrics and their rolling 28-day baselines.
type RedFlagInput struct {
	SleepHours        *float64
	RestingHR         *float64
	RestingHRBaseline *float64
	HRV               *float64
	HRVBaseline       *float64
	IsLuteal          bool
}

// RedFlagDetails exposes the adjusted baselines and per-flag outcomes for
// auditing.
type RedFlagDetails struct {
	AdjustedRHRBaseline float64
	AdjustedHRVBaseline float64
	SleepFlag           bool
	RestingHRFlag       bool
	HRVFlag             bool
}

// RedFlagResult is the detector output. When Computable is false the count is
// meaningless and must not be treated as zero by callers; the decision layer
// receives a nil count instead.
type RedFlagResult struct {
	Computable bool
	Count      int
	Reasons    []string
	Details    RedFlagDetails
}

// DetectRedFlags compares today's sleep, resting HR, and HRV against
// phase-adjusted rolling baselines and counts independent warning signals.
// All five inputs must be present and finite; otherwise the result is marked
// not computable.
func DetectRedFlags(in RedFlagInput) RedFlagResult {
	if !present(in.SleepHours) || !present(in.RestingHR) || !present(in.RestingHRBaseline) ||
		!present(in.HRV) || !present(in.HRVBaseline) {
		return RedFlagResult{}
	}

	// During the luteal phase resting HR runs higher and HRV lower, so the
	// baselines shift before comparison.
	rhrBase := *in.RestingHRBaseline
	hrvBase := *in.HRVBaseline
	if in.IsLuteal {
		rhrBase += lutealRHROffset
		hrvBase *= lutealHRVFactor
	}

	result := RedFlagResult{
		Computable: true,
		Details: RedFlagDetails{
			AdjustedRHRBaseline: rhrBase,
			AdjustedHRVBaseline: hrvBase,
		},
	}

	if *in.SleepHours < lowSleepHours {
		result.Details.SleepFlag = true
		result.Count++
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("sleep %.1fh below %.1fh minimum", *in.SleepHours, lowSleepHours))
	}

	rhrLimit := rhrBase * rhrFlagFactor
	if *in.RestingHR > rhrLimit {
		result.Details.RestingHRFlag = true
		result.Count++
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("resting HR %.0f above %.1f (baseline %.1f +5%%)", *in.RestingHR, rhrLimit, rhrBase))
	}

	hrvLimit := hrvBase * hrvFlagFactor
	if *in.HRV < hrvLimit {
		result.Details.HRVFlag = true
		result.Count++
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("HRV %.0f below %.1f (90%% of baseline %.1f)", *in.HRV, hrvLimit, hrvBase))
	}

	return result
}

func present(f *float64) bool {
	return f != nil && isFinite(*f)
}
