package service

import (
	"fmt"
	"time"

	"trainready/internal/config"
	"trainready/internal/readiness"
	"trainready/internal/store"
)

const dayLayout = "2006-01-02"

// AdviceService assembles the daily snapshot and routes it through the
// readiness engine. It is read-only; all writes happen in the sync service or
// directly through the store.
type AdviceService struct {
	store             *store.DB
	cycleAnchor       *time.Time
	cycleLengthDays   int
	chronicWindowDays int
}

// NewAdviceService creates a new advice service
func NewAdviceService(db *store.DB, cfg *config.Config) *AdviceService {
	return &AdviceService{
		store:             db,
		cycleAnchor:       cfg.CycleAnchor(),
		cycleLengthDays:   cfg.Cycle.CycleLengthDays,
		chronicWindowDays: cfg.Advice.ChronicWindowDays,
	}
}

// DailyAdvice is everything the UI needs to render one day's recommendation
type DailyAdvice struct {
	Day              string
	Decision         readiness.Decision
	Workload         readiness.Workload
	Phase            *readiness.CyclePhase
	RedFlags         *readiness.RedFlagResult
	Log              *store.DailyLog
	HRVVsBaselinePct *float64
	Activities       []store.Activity
}

// AdviceFor computes the recommendation for one calendar day. Historical days
// replay through the same path as today, so a day's advice is reproducible as
// long as the underlying data hasn't changed.
func (s *AdviceService) AdviceFor(day time.Time) (*DailyAdvice, error) {
	dayKey := day.Format(dayLayout)

	advice := &DailyAdvice{Day: dayKey}

	// Workload windows
	chronicFrom := day.AddDate(0, 0, -(readiness.MaxChronicWindowDays - 1)).Format(dayLayout)
	activities, err := s.store.ListActivitiesBetween(chronicFrom, dayKey)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	var entries []readiness.LoadEntry
	for _, a := range activities {
		if !a.IncludeInLoad {
			continue
		}
		d, err := time.Parse(dayLayout, a.Day)
		if err != nil {
			continue
		}
		entries = append(entries, readiness.LoadEntry{Day: d, Load: float64(a.CorrectedLoad)})
		if a.Day == dayKey {
			advice.Activities = append(advice.Activities, a)
		}
	}
	advice.Workload = readiness.ComputeWorkload(entries, day, s.chronicWindowDays)

	// Daily logs covering the baseline window plus the target day
	baselineFrom := day.AddDate(0, 0, -readiness.BaselineWindowDays).Format(dayLayout)
	logs, err := s.store.ListDailyLogsBetween(baselineFrom, dayKey)
	if err != nil {
		return nil, fmt.Errorf("listing daily logs: %w", err)
	}

	var todayLog *store.DailyLog
	var rhrSamples, hrvSamples []float64
	for i := range logs {
		l := &logs[i]
		if l.Day == dayKey {
			todayLog = l
			continue
		}
		// Prior days only; the target day never feeds its own baseline
		if l.RestingHR != nil {
			rhrSamples = append(rhrSamples, *l.RestingHR)
		}
		if l.HRV != nil {
			hrvSamples = append(hrvSamples, *l.HRV)
		}
	}
	advice.Log = todayLog

	rhrBaseline := readiness.Baseline(rhrSamples)
	hrvBaseline := readiness.Baseline(hrvSamples)

	// Cycle phase
	if s.cycleAnchor != nil {
		phase := readiness.PhaseOn(*s.cycleAnchor, day, s.cycleLengthDays)
		advice.Phase = &phase
	}

	// Red flags
	isLuteal := advice.Phase != nil && advice.Phase.IsLuteal
	var sleepHours, restingHR, hrv *float64
	if todayLog != nil {
		sleepHours = todayLog.SleepHours
		restingHR = todayLog.RestingHR
		hrv = todayLog.HRV
	}
	flags := readiness.DetectRedFlags(readiness.RedFlagInput{
		SleepHours:        sleepHours,
		RestingHR:         restingHR,
		RestingHRBaseline: rhrBaseline,
		HRV:               hrv,
		HRVBaseline:       hrvBaseline,
		IsLuteal:          isLuteal,
	})
	if flags.Computable {
		advice.RedFlags = &flags
	}

	advice.HRVVsBaselinePct = readiness.HRVVsBaselinePct(hrv, hrvBaseline)

	// Decision
	in := readiness.DecisionInput{
		ACWR:             advice.Workload.Ratio,
		HRVVsBaselinePct: advice.HRVVsBaselinePct,
	}
	if todayLog != nil {
		in.SickOrInjured = todayLog.SickOrInjured
		if todayLog.Readiness != nil {
			v := float64(*todayLog.Readiness)
			in.Readiness = &v
		}
	}
	if advice.RedFlags != nil {
		count := advice.RedFlags.Count
		in.RedFlags = &count
	}
	if advice.Phase != nil {
		in.CyclePhase = &advice.Phase.Name
		in.CycleDay = &advice.Phase.Day
	}

	advice.Decision = readiness.Decide(in)

	return advice, nil
}

// Today computes the recommendation for the current calendar day
func (s *AdviceService) Today() (*DailyAdvice, error) {
	return s.AdviceFor(time.Now())
}

// History replays the recommendation for the last n days, oldest first
func (s *AdviceService) History(n int) ([]DailyAdvice, error) {
	today := time.Now()

	history := make([]DailyAdvice, 0, n)
	for i := n - 1; i >= 0; i-- {
		advice, err := s.AdviceFor(today.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		history = append(history, *advice)
	}
	return history, nil
}

// ACWRTrend returns the daily workload ratio series for the last n days,
// oldest first, for charting. Days without a computable ratio carry zero.
func (s *AdviceService) ACWRTrend(n int) (ratios []float64, labels []string, err error) {
	today := time.Now()

	from := today.AddDate(0, 0, -(n - 1 + readiness.MaxChronicWindowDays)).Format(dayLayout)
	activities, err := s.store.ListActivitiesBetween(from, today.Format(dayLayout))
	if err != nil {
		return nil, nil, fmt.Errorf("listing activities: %w", err)
	}

	var entries []readiness.LoadEntry
	for _, a := range activities {
		if !a.IncludeInLoad {
			continue
		}
		d, err := time.Parse(dayLayout, a.Day)
		if err != nil {
			continue
		}
		entries = append(entries, readiness.LoadEntry{Day: d, Load: float64(a.CorrectedLoad)})
	}

	ratios = make([]float64, n)
	labels = make([]string, n)
	for i := 0; i < n; i++ {
		day := today.AddDate(0, 0, -(n - 1 - i))
		w := readiness.ComputeWorkload(entries, day, s.chronicWindowDays)
		if w.Ratio != nil {
			ratios[i] = *w.Ratio
		}
		labels[i] = day.Format("Jan 02")
	}
	return ratios, labels, nil
}

// SetReadiness records the subjective 1-10 readiness for a day
func (s *AdviceService) SetReadiness(day time.Time, readinessScore int) error {
	if readinessScore < 1 || readinessScore > 10 {
		return fmt.Errorf("readiness must be 1-10, got %d", readinessScore)
	}
	return s.store.SetReadiness(day.Format(dayLayout), readinessScore)
}

// SetSickOrInjured flips the sick flag for a day
func (s *AdviceService) SetSickOrInjured(day time.Time, sick bool) error {
	return s.store.SetSickOrInjured(day.Format(dayLayout), sick)
}

// SetIncludeInLoad toggles whether an activity counts toward workload windows
func (s *AdviceService) SetIncludeInLoad(activityID int64, include bool) error {
	return s.store.SetIncludeInLoad(activityID, include)
}

// RecentActivities returns stored activities, newest first
func (s *AdviceService) RecentActivities(limit, offset int) ([]store.Activity, error) {
	return s.store.ListActivities(limit, offset)
}

// ActivityCount returns the total number of stored activities
func (s *AdviceService) ActivityCount() (int, error) {
	return s.store.CountActivities()
}
