package readiness

import (
	"math"
	"testing"
)

func TestRawLoad(t *testing.T) {
	profile := DefaultProfile()

	tests := []struct {
		name            string
		durationSeconds float64
		avgHR           *float64
		effortScore     *float64
		profile         HRProfile
		expected        float64
		delta           float64
	}{
		{
			name:            "vendor effort score wins over HR",
			durationSeconds: 3600,
			avgHR:           floatPtr(150),
			effortScore:     floatPtr(85.5),
			profile:         profile,
			expected:        85.5,
		},
		{
			name:            "banister model from average HR",
			durationSeconds: 3600,
			avgHR:           floatPtr(150),
			profile:         profile,
			// minutes = 60
			// hrr = (150-60)/(190-60) = 90/130 = 0.6923
			// load = 60 * 0.6923 * 0.64 * e^(1.92*0.6923) = 100.4
			expected: 100.4,
			delta:    0.05,
		},
		{
			name:            "flat fallback without HR or effort",
			durationSeconds: 1800,
			profile:         profile,
			// 30 minutes * 40
			expected: 1200,
		},
		{
			name:            "zero duration yields zero",
			durationSeconds: 0,
			avgHR:           floatPtr(150),
			profile:         profile,
			expected:        0,
		},
		{
			name:            "negative duration yields zero",
			durationSeconds: -60,
			effortScore:     floatPtr(50),
			profile:         profile,
			expected:        0,
		},
		{
			name:            "NaN effort score falls back to HR model",
			durationSeconds: 3600,
			avgHR:           floatPtr(150),
			effortScore:     floatPtr(math.NaN()),
			profile:         profile,
			expected:        100.4,
			delta:           0.05,
		},
		{
			name:            "degenerate profile falls back to flat estimate",
			durationSeconds: 3600,
			avgHR:           floatPtr(150),
			profile:         HRProfile{RestingHR: 190, MaxHR: 190},
			expected:        2400,
		},
		{
			name:            "avg HR below resting clamps to zero load",
			durationSeconds: 3600,
			avgHR:           floatPtr(45),
			profile:         profile,
			expected:        0,
		},
		{
			name:            "avg HR above max clamps to full reserve",
			durationSeconds: 3600,
			avgHR:           floatPtr(210),
			profile:         profile,
			// hrr clamps to 1: 60 * 1 * 0.64 * e^1.92 = 261.9
			expected: 261.9,
			delta:    0.1,
		},
		{
			name:            "negative effort score yields zero",
			durationSeconds: 3600,
			effortScore:     floatPtr(-12),
			profile:         profile,
			expected:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RawLoad(tt.durationSeconds, tt.avgHR, tt.effortScore, tt.profile)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("RawLoad() = %v, want %v (±%v)", got, tt.expected, tt.delta)
			}
		})
	}
}

func TestCorrectedLoad(t *testing.T) {
	tests := []struct {
		name      string
		rawLoad   float64
		phase     *string
		readiness *float64
		avgHR     *float64
		maxHR     *float64
		expected  int
	}{
		{
			name:     "no corrections",
			rawLoad:  100,
			expected: 100,
		},
		{
			name:     "luteal adds 5 percent",
			rawLoad:  100,
			phase:    strPtr("Luteal"),
			expected: 105,
		},
		{
			name:     "luteal sub-label matches",
			rawLoad:  100,
			phase:    strPtr("mid_luteal"),
			expected: 105,
		},
		{
			name:     "luteal plus high exertion adds 10 percent",
			rawLoad:  100,
			phase:    strPtr("Luteal"),
			avgHR:    floatPtr(165),
			maxHR:    floatPtr(190),
			expected: 110,
		},
		{
			name:     "high exertion without luteal phase adds nothing",
			rawLoad:  100,
			phase:    strPtr("Follicular"),
			avgHR:    floatPtr(165),
			maxHR:    floatPtr(190),
			expected: 100,
		},
		{
			name:      "readiness shortfall capped at 4 percent",
			rawLoad:   100,
			readiness: floatPtr(1),
			// severity = clamp(10-1,0,9) = 9, bonus = min(0.09, 0.04)
			expected: 104,
		},
		{
			name:      "mild readiness shortfall",
			rawLoad:   100,
			readiness: floatPtr(8),
			// severity 2 -> +2%
			expected: 102,
		},
		{
			name:      "luteal and low readiness stack",
			rawLoad:   100,
			phase:     strPtr("Luteal"),
			readiness: floatPtr(2),
			// 1.05 + min(0.08, 0.04) = 1.09
			expected: 109,
		},
		{
			name:      "perfect readiness adds nothing",
			rawLoad:   200,
			readiness: floatPtr(10),
			expected:  200,
		},
		{
			name:     "zero raw load stays zero",
			rawLoad:  0,
			phase:    strPtr("Luteal"),
			expected: 0,
		},
		{
			name:     "negative raw load collapses to zero",
			rawLoad:  -50,
			expected: 0,
		},
		{
			name:     "NaN raw load collapses to zero",
			rawLoad:  math.NaN(),
			expected: 0,
		},
		{
			name:     "infinite raw load collapses to zero",
			rawLoad:  math.Inf(1),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CorrectedLoad(tt.rawLoad, tt.phase, tt.readiness, tt.avgHR, tt.maxHR)
			if got != tt.expected {
				t.Errorf("CorrectedLoad() = %d, want %d", got, tt.expected)
			}
			if got < 0 {
				t.Errorf("CorrectedLoad() = %d, must never be negative", got)
			}
		})
	}
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }
