package readiness

import (
	"fmt"
	"strings"
)

// Tag is the daily recommendation.
type Tag string

const (
	TagRest     Tag = "REST"
	TagRecover  Tag = "RECOVER"
	TagMaintain Tag = "MAINTAIN"
	TagPush     Tag = "PUSH"
)

// Signal is the traffic-light view of a tag.
type Signal string

const (
	SignalGreen  Signal = "GREEN"
	SignalOrange Signal = "ORANGE"
	SignalRed    Signal = "RED"
)

// ReasonCode identifies which rule fired. Codes are stable; consuming layers
// may treat them as opaque.
type ReasonCode string

const (
	ReasonSickOrInjured    ReasonCode = "sick_or_injured"
	ReasonLowReadiness     ReasonCode = "low_readiness"
	ReasonMultipleRedFlags ReasonCode = "multiple_red_flags"
	ReasonSingleRedFlag    ReasonCode = "single_red_flag"
	ReasonLutealLowEnergy  ReasonCode = "luteal_low_energy"
	ReasonFollicularPrimed ReasonCode = "follicular_primed"
	ReasonSteadyState      ReasonCode = "steady_state"
	ReasonLutealLethargy   ReasonCode = "luteal_lethargy"
	ReasonMenstrualRebound ReasonCode = "menstrual_rebound"
	ReasonACWRSpike        ReasonCode = "acwr_spike"
	ReasonACWROverreach    ReasonCode = "acwr_overreaching"
	ReasonACWRUndertrained ReasonCode = "acwr_undertrained"
	ReasonNoACWR           ReasonCode = "no_acwr"
	ReasonNoData           ReasonCode = "no_data"
)

// Reason records one rule firing. Reasons accumulate across the cascade; only
// the final tag is authoritative.
type Reason struct {
	Code    ReasonCode
	Message string
}

// Instruction classes layered on top of the tag for downstream guidance.
const (
	InstructFullRest       = "full_rest"
	InstructActiveRecovery = "active_recovery"
	InstructSteady         = "steady"
	InstructProgress       = "progress"
)

// HintProgressiveOverload nudges a small load increase when a PUSH lands
// inside the sweet workload band.
const HintProgressiveOverload = "progressive_overload"

// Base-rule defaults for absent inputs. The ACWR is deliberately not
// defaulted: a missing ratio propagates so the no-ACWR rule can fire.
const (
	defaultReadiness = 5.0
	defaultRedFlags  = 0
)

// DecisionInput is everything the status engine considers for one day. Nil
// pointers mean the signal was unavailable, which is distinct from zero.
type DecisionInput struct {
	ACWR             *float64
	SickOrInjured    bool
	Readiness        *float64 // 1-10
	RedFlags         *int
	CyclePhase       *string
	HRVVsBaselinePct *float64
	CycleDay         *int
}

// Decision is the engine's output for one day.
type Decision struct {
	Tag              Tag
	Signal           Signal
	InstructionClass string
	PrescriptionHint string
	Reasons          []Reason
}

// ruleState is the mutable state threaded through the cascade.
type ruleState struct {
	in DecisionInput

	// Effective values after base-rule defaulting.
	readiness float64
	redFlags  int
	phase     string

	tag        Tag
	baseLocked bool // sick override short-circuits rules 2-4
	reasons    []Reason
}

func (s *ruleState) addReason(code ReasonCode, format string, args ...any) {
	s.reasons = append(s.reasons, Reason{Code: code, Message: fmt.Sprintf(format, args...)})
}

// rule is one step of the ordered cascade. A later rule may override the tag
// set by an earlier one; the slice order is the specification.
type rule struct {
	name    string
	matches func(*ruleState) bool
	apply   func(*ruleState)
}

// cascade is evaluated top to bottom on every Decide call. Keeping it as data
// makes the ordering itself testable.
var cascade = []rule{
	{
		name:    "sick-override",
		matches: func(s *ruleState) bool { return s.in.SickOrInjured },
		apply: func(s *ruleState) {
			s.tag = TagRecover
			s.baseLocked = true
			s.addReason(ReasonSickOrInjured, "sick or injured: recovery takes priority")
		},
	},
	{
		name:    "base",
		matches: func(s *ruleState) bool { return !s.baseLocked },
		apply:   applyBaseRule,
	},
	{
		name: "luteal-lethargy",
		matches: func(s *ruleState) bool {
			return !s.baseLocked &&
				IsLutealName(s.phase) &&
				s.readiness >= 4 && s.readiness <= 6 &&
				s.in.HRVVsBaselinePct != nil && *s.in.HRVVsBaselinePct > 105
		},
		apply: func(s *ruleState) {
			s.tag = TagMaintain
			s.addReason(ReasonLutealLethargy,
				"HRV %.0f%% of baseline despite low luteal energy: hold steady rather than over-rest",
				*s.in.HRVVsBaselinePct)
		},
	},
	{
		name: "menstrual-rebound",
		matches: func(s *ruleState) bool {
			return !s.baseLocked &&
				strings.EqualFold(s.phase, PhaseMenstrual) &&
				s.in.CycleDay != nil && *s.in.CycleDay >= 1 && *s.in.CycleDay <= 3 &&
				s.readiness >= 8 &&
				(s.in.HRVVsBaselinePct == nil || *s.in.HRVVsBaselinePct >= 98)
		},
		apply: func(s *ruleState) {
			s.tag = TagPush
			s.addReason(ReasonMenstrualRebound,
				"strong readiness %.0f on cycle day %d: hormonal rebound window", s.readiness, *s.in.CycleDay)
		},
	},
	{
		name: "acwr-bounds",
		matches: func(s *ruleState) bool {
			return s.in.ACWR != nil && isFinite(*s.in.ACWR)
		},
		apply: applyACWRBounds,
	},
	{
		name: "no-acwr-no-push",
		matches: func(s *ruleState) bool {
			noRatio := s.in.ACWR == nil || !isFinite(*s.in.ACWR)
			return noRatio && s.tag == TagPush
		},
		apply: func(s *ruleState) {
			s.tag = TagMaintain
			s.addReason(ReasonNoACWR, "no workload ratio available: not enough history to justify a push")
		},
	},
}

func applyBaseRule(s *ruleState) {
	switch {
	case s.readiness <= 3:
		s.tag = TagRest
		s.addReason(ReasonLowReadiness, "readiness %.0f/10 is very low", s.readiness)
	case s.redFlags >= 2:
		s.tag = TagRest
		s.addReason(ReasonMultipleRedFlags, "%d physiological red flags today", s.redFlags)
	case s.redFlags == 1:
		s.tag = TagRecover
		s.addReason(ReasonSingleRedFlag, "one physiological red flag today")
	case s.readiness >= 4 && s.readiness <= 5 && IsLutealName(s.phase):
		s.tag = TagRecover
		s.addReason(ReasonLutealLowEnergy, "moderate readiness %.0f during the luteal phase", s.readiness)
	case s.readiness >= 8 && s.redFlags == 0 && strings.EqualFold(s.phase, PhaseFollicular):
		s.tag = TagPush
		s.addReason(ReasonFollicularPrimed, "readiness %.0f, no red flags, follicular phase", s.readiness)
	default:
		s.tag = TagMaintain
		s.addReason(ReasonSteadyState, "no signal warrants deviating from the current plan")
	}

	if s.in.Readiness == nil && s.in.RedFlags == nil && s.in.CyclePhase == nil {
		s.addReason(ReasonNoData, "no readiness, red flag, or cycle data: defaulting conservatively")
	}
}

func applyACWRBounds(s *ruleState) {
	acwr := *s.in.ACWR
	switch {
	case acwr > acwrOverCeiling:
		s.tag = TagRecover
		s.addReason(ReasonACWRSpike, "workload ratio %.2f above the %.1f spike ceiling", acwr, acwrOverCeiling)
	case acwr > acwrSweetCeiling && s.tag == TagPush:
		s.tag = TagRecover
		s.addReason(ReasonACWROverreach, "workload ratio %.2f already overreaching: no push", acwr)
	case acwr < acwrLowCeiling && s.tag == TagPush:
		s.tag = TagMaintain
		s.addReason(ReasonACWRUndertrained, "workload ratio %.2f too low to absorb a push safely", acwr)
	}
}

// Decide runs the ordered rule cascade and produces the final recommendation.
// It is the only place a tag is computed; both live advice and historical
// replay route through it. Given identical inputs it returns identical output.
func Decide(in DecisionInput) Decision {
	s := &ruleState{
		in:        in,
		readiness: defaultReadiness,
		redFlags:  defaultRedFlags,
		phase:     PhaseUnknown,
		tag:       TagMaintain,
	}
	if in.Readiness != nil && isFinite(*in.Readiness) {
		s.readiness = *in.Readiness
	}
	if in.RedFlags != nil {
		s.redFlags = *in.RedFlags
	}
	if in.CyclePhase != nil && *in.CyclePhase != "" {
		s.phase = *in.CyclePhase
	}

	for _, r := range cascade {
		if r.matches(s) {
			r.apply(s)
		}
	}

	d := Decision{
		Tag:              s.tag,
		Signal:           signalFor(s.tag),
		InstructionClass: instructionFor(s.tag),
		Reasons:          s.reasons,
	}

	if s.tag == TagPush && in.ACWR != nil && isFinite(*in.ACWR) && RatioBand(*in.ACWR) == BandSweet {
		d.PrescriptionHint = HintProgressiveOverload
	}

	return d
}

func signalFor(tag Tag) Signal {
	switch tag {
	case TagPush:
		return SignalGreen
	case TagMaintain:
		return SignalOrange
	default:
		return SignalRed
	}
}

func instructionFor(tag Tag) string {
	switch tag {
	case TagRest:
		return InstructFullRest
	case TagRecover:
		return InstructActiveRecovery
	case TagPush:
		return InstructProgress
	default:
		return InstructSteady
	}
}
