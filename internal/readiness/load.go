package readiness

import "math"

// HRProfile holds the athlete's heart rate bounds for load estimation.
type HRProfile struct {
	RestingHR float64
	MaxHR     float64
}

// DefaultProfile returns sensible defaults if the athlete hasn't configured
// heart rate bounds.
func DefaultProfile() HRProfile {
	return HRProfile{
		RestingHR: 60,
		MaxHR:     190,
	}
}

// Banister exponential coefficient and the scaling factor that brings the
// HR-reserve model onto the same scale as vendor strain scores.
const (
	banisterB     = 1.92
	banisterScale = 0.64
)

// flatLoadPerMinute is the fallback when neither a vendor effort score nor
// heart rate data is available.
const flatLoadPerMinute = 40.0

// RawLoad estimates the physiological load of one activity, in priority order:
//  1. a vendor-supplied effort score, used directly
//  2. a Banister-style exponential HR-reserve model:
//     minutes * hrr * 0.64 * e^(1.92*hrr)
//  3. a flat per-minute estimate
//
// Zero or missing duration yields 0. The result is never negative or NaN.
func RawLoad(durationSeconds float64, avgHR, effortScore *float64, profile HRProfile) float64 {
	if !isFinite(durationSeconds) || durationSeconds <= 0 {
		return 0
	}

	if effortScore != nil && isFinite(*effortScore) {
		if *effortScore < 0 {
			return 0
		}
		return *effortScore
	}

	minutes := durationSeconds / 60.0

	if avgHR != nil && isFinite(*avgHR) {
		hrReserve := profile.MaxHR - profile.RestingHR
		if hrReserve > 0 {
			hrr := clamp((*avgHR-profile.RestingHR)/hrReserve, 0, 1)
			return round1(minutes * hrr * banisterScale * math.Exp(banisterB*hrr))
		}
		// Fall through to the flat estimate on a degenerate profile.
	}

	return round1(minutes * flatLoadPerMinute)
}

// Corrector multipliers. Identical external load imposes higher internal
// strain on luteal-phase and low-readiness days.
const (
	lutealMultiplier     = 1.05
	lutealHighExertion   = 0.05
	highExertionHRFrac   = 0.85
	readinessStepPct     = 0.01
	readinessMaxBonusPct = 0.04
)

// CorrectedLoad adjusts a raw load by cycle phase, exertion intensity, and
// same-day subjective readiness ("prime load"). It returns a non-negative
// integer; negative, zero, or non-finite raw loads all collapse to 0.
func CorrectedLoad(rawLoad float64, phaseName *string, readiness, avgHR, maxHR *float64) int {
	if !isFinite(rawLoad) || rawLoad <= 0 {
		return 0
	}

	multiplier := 1.0

	if phaseName != nil && IsLutealName(*phaseName) {
		multiplier = lutealMultiplier
		if avgHR != nil && maxHR != nil && isFinite(*avgHR) && isFinite(*maxHR) &&
			*maxHR > 0 && *avgHR / *maxHR >= highExertionHRFrac {
			multiplier += lutealHighExertion
		}
	}

	if readiness != nil && isFinite(*readiness) {
		severity := clamp(10-*readiness, 0, 9)
		multiplier += math.Min(severity*readinessStepPct, readinessMaxBonusPct)
	}

	return int(math.Round(rawLoad * multiplier))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
