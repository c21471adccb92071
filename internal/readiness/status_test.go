package readiness

import (
	"reflect"
	"testing"
)

func hasReason(d Decision, code ReasonCode) bool {
	for _, r := range d.Reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		in         DecisionInput
		wantTag    Tag
		wantSignal Signal
		wantReason ReasonCode // must be present in the output
	}{
		{
			name: "golden push",
			in: DecisionInput{
				Readiness:  floatPtr(8),
				RedFlags:   intPtr(0),
				CyclePhase: strPtr(PhaseFollicular),
				ACWR:       floatPtr(1.0),
			},
			wantTag:    TagPush,
			wantSignal: SignalGreen,
			wantReason: ReasonFollicularPrimed,
		},
		{
			name: "spike ceiling fires despite high readiness",
			in: DecisionInput{
				Readiness:  floatPtr(9),
				CyclePhase: strPtr(PhaseFollicular),
				ACWR:       floatPtr(1.6),
			},
			wantTag:    TagRecover,
			wantSignal: SignalRed,
			wantReason: ReasonACWRSpike,
		},
		{
			name: "floor blocks a push down to maintain",
			in: DecisionInput{
				Readiness:  floatPtr(8),
				RedFlags:   intPtr(0),
				CyclePhase: strPtr(PhaseFollicular),
				ACWR:       floatPtr(0.75),
			},
			wantTag:    TagMaintain,
			wantSignal: SignalOrange,
			wantReason: ReasonACWRUndertrained,
		},
		{
			name: "sick overrides everything",
			in: DecisionInput{
				SickOrInjured: true,
				Readiness:     floatPtr(9),
				ACWR:          floatPtr(1.0),
			},
			wantTag:    TagRecover,
			wantSignal: SignalRed,
			wantReason: ReasonSickOrInjured,
		},
		{
			name: "no ratio withholds the push",
			in: DecisionInput{
				Readiness:  floatPtr(8),
				RedFlags:   intPtr(0),
				CyclePhase: strPtr(PhaseFollicular),
			},
			wantTag:    TagMaintain,
			wantSignal: SignalOrange,
			wantReason: ReasonNoACWR,
		},
		{
			name: "lethargy override beats the luteal recover rule",
			in: DecisionInput{
				Readiness:        floatPtr(5),
				CyclePhase:       strPtr(PhaseLuteal),
				HRVVsBaselinePct: floatPtr(110),
				ACWR:             floatPtr(1.0),
			},
			wantTag:    TagMaintain,
			wantSignal: SignalOrange,
			wantReason: ReasonLutealLethargy,
		},
		{
			name: "very low readiness rests",
			in: DecisionInput{
				Readiness: floatPtr(2),
				ACWR:      floatPtr(1.0),
			},
			wantTag:    TagRest,
			wantSignal: SignalRed,
			wantReason: ReasonLowReadiness,
		},
		{
			name: "two red flags rest",
			in: DecisionInput{
				Readiness: floatPtr(7),
				RedFlags:  intPtr(2),
				ACWR:      floatPtr(1.0),
			},
			wantTag:    TagRest,
			wantSignal: SignalRed,
			wantReason: ReasonMultipleRedFlags,
		},
		{
			name: "one red flag recovers",
			in: DecisionInput{
				Readiness: floatPtr(7),
				RedFlags:  intPtr(1),
				ACWR:      floatPtr(1.0),
			},
			wantTag:    TagRecover,
			wantSignal: SignalRed,
			wantReason: ReasonSingleRedFlag,
		},
		{
			name: "moderate readiness in luteal recovers",
			in: DecisionInput{
				Readiness:  floatPtr(4),
				CyclePhase: strPtr(PhaseLuteal),
				ACWR:       floatPtr(1.0),
			},
			wantTag:    TagRecover,
			wantSignal: SignalRed,
			wantReason: ReasonLutealLowEnergy,
		},
		{
			name: "menstrual rebound pushes on day 2",
			in: DecisionInput{
				Readiness:  floatPtr(8),
				RedFlags:   intPtr(0),
				CyclePhase: strPtr(PhaseMenstrual),
				CycleDay:   intPtr(2),
				ACWR:       floatPtr(1.0),
			},
			wantTag:    TagPush,
			wantSignal: SignalGreen,
			wantReason: ReasonMenstrualRebound,
		},
		{
			name: "menstrual rebound blocked by suppressed HRV",
			in: DecisionInput{
				Readiness:        floatPtr(8),
				RedFlags:         intPtr(0),
				CyclePhase:       strPtr(PhaseMenstrual),
				CycleDay:         intPtr(2),
				HRVVsBaselinePct: floatPtr(90),
				ACWR:             floatPtr(1.0),
			},
			wantTag:    TagMaintain,
			wantSignal: SignalOrange,
			wantReason: ReasonSteadyState,
		},
		{
			name: "menstrual rebound blocked past day 3",
			in: DecisionInput{
				Readiness:  floatPtr(8),
				RedFlags:   intPtr(0),
				CyclePhase: strPtr(PhaseMenstrual),
				CycleDay:   intPtr(4),
				ACWR:       floatPtr(1.0),
			},
			wantTag:    TagMaintain,
			wantSignal: SignalOrange,
			wantReason: ReasonSteadyState,
		},
		{
			name: "spike ceiling overrides the rebound push",
			in: DecisionInput{
				Readiness:  floatPtr(9),
				RedFlags:   intPtr(0),
				CyclePhase: strPtr(PhaseMenstrual),
				CycleDay:   intPtr(1),
				ACWR:       floatPtr(1.7),
			},
			wantTag:    TagRecover,
			wantSignal: SignalRed,
			wantReason: ReasonACWRSpike,
		},
		{
			name: "overreaching ratio downgrades a push",
			in: DecisionInput{
				Readiness:  floatPtr(9),
				RedFlags:   intPtr(0),
				CyclePhase: strPtr(PhaseFollicular),
				ACWR:       floatPtr(1.4),
			},
			wantTag:    TagRecover,
			wantSignal: SignalRed,
			wantReason: ReasonACWROverreach,
		},
		{
			name: "in-band ratio imposes no clamp",
			in: DecisionInput{
				Readiness: floatPtr(6),
				RedFlags:  intPtr(0),
				ACWR:      floatPtr(1.2),
			},
			wantTag:    TagMaintain,
			wantSignal: SignalOrange,
			wantReason: ReasonSteadyState,
		},
		{
			name:       "empty input defaults to maintain with a no-data reason",
			in:         DecisionInput{},
			wantTag:    TagMaintain,
			wantSignal: SignalOrange,
			wantReason: ReasonNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.in)
			if got.Tag != tt.wantTag {
				t.Errorf("Tag = %s, want %s (reasons: %v)", got.Tag, tt.wantTag, got.Reasons)
			}
			if got.Signal != tt.wantSignal {
				t.Errorf("Signal = %s, want %s", got.Signal, tt.wantSignal)
			}
			if !hasReason(got, tt.wantReason) {
				t.Errorf("missing reason %q in %v", tt.wantReason, got.Reasons)
			}
			if len(got.Reasons) == 0 {
				t.Error("every decision must carry at least one reason")
			}
		})
	}
}

// sampleInputs enumerates a grid of inputs for the property tests below.
func sampleInputs() []DecisionInput {
	readiness := []*float64{nil, floatPtr(1), floatPtr(3), floatPtr(5), floatPtr(8), floatPtr(10)}
	redFlags := []*int{nil, intPtr(0), intPtr(1), intPtr(3)}
	phases := []*string{nil, strPtr(PhaseMenstrual), strPtr(PhaseFollicular), strPtr(PhaseLuteal)}
	acwrs := []*float64{nil, floatPtr(0.5), floatPtr(1.0), floatPtr(1.4), floatPtr(2.0)}
	hrvPcts := []*float64{nil, floatPtr(90), floatPtr(110)}

	var inputs []DecisionInput
	for _, r := range readiness {
		for _, f := range redFlags {
			for _, p := range phases {
				for _, a := range acwrs {
					for _, h := range hrvPcts {
						inputs = append(inputs, DecisionInput{
							Readiness:        r,
							RedFlags:         f,
							CyclePhase:       p,
							ACWR:             a,
							HRVVsBaselinePct: h,
							CycleDay:         intPtr(2),
						})
					}
				}
			}
		}
	}
	return inputs
}

func TestDecideSickAlwaysRecovers(t *testing.T) {
	for _, in := range sampleInputs() {
		in.SickOrInjured = true
		got := Decide(in)
		if got.Tag != TagRecover {
			t.Fatalf("Decide(%+v) = %s, want RECOVER when sick", in, got.Tag)
		}
	}
}

func TestDecideSpikeCeiling(t *testing.T) {
	for _, in := range sampleInputs() {
		in.ACWR = floatPtr(1.6)
		got := Decide(in)
		if got.Tag != TagRecover {
			t.Fatalf("Decide(%+v) = %s, want RECOVER above the spike ceiling", in, got.Tag)
		}
	}
}

func TestDecideNoRatioNeverPushes(t *testing.T) {
	for _, in := range sampleInputs() {
		in.ACWR = nil
		got := Decide(in)
		if got.Tag == TagPush {
			t.Fatalf("Decide(%+v) = PUSH without a workload ratio", in)
		}
	}
}

func TestDecideLowRatioNeverPushes(t *testing.T) {
	for _, in := range sampleInputs() {
		in.ACWR = floatPtr(0.7)
		got := Decide(in)
		if got.Tag == TagPush {
			t.Fatalf("Decide(%+v) = PUSH below the workload floor", in)
		}
	}
}

func TestDecideIdempotent(t *testing.T) {
	for _, in := range sampleInputs() {
		a := Decide(in)
		b := Decide(in)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Decide is not deterministic for %+v: %+v vs %+v", in, a, b)
		}
	}
}

func TestDecidePrescriptionHint(t *testing.T) {
	in := DecisionInput{
		Readiness:  floatPtr(8),
		RedFlags:   intPtr(0),
		CyclePhase: strPtr(PhaseFollicular),
		ACWR:       floatPtr(1.0),
	}
	got := Decide(in)
	if got.Tag != TagPush {
		t.Fatalf("Tag = %s, want PUSH", got.Tag)
	}
	if got.PrescriptionHint != HintProgressiveOverload {
		t.Errorf("PrescriptionHint = %q, want %q", got.PrescriptionHint, HintProgressiveOverload)
	}
	if got.InstructionClass != InstructProgress {
		t.Errorf("InstructionClass = %q, want %q", got.InstructionClass, InstructProgress)
	}
}

// The cascade order is part of the contract: base selection first, cycle
// overrides next, hard ACWR clamps after, the no-ratio guard last.
func TestCascadeOrder(t *testing.T) {
	want := []string{
		"sick-override",
		"base",
		"luteal-lethargy",
		"menstrual-rebound",
		"acwr-bounds",
		"no-acwr-no-push",
	}

	if len(cascade) != len(want) {
		t.Fatalf("cascade has %d rules, want %d", len(cascade), len(want))
	}
	for i, r := range cascade {
		if r.name != want[i] {
			t.Errorf("cascade[%d] = %q, want %q", i, r.name, want[i])
		}
	}
}
