package service

import (
	"testing"
	"time"

	"trainready/internal/config"
	"trainready/internal/readiness"
	"trainready/internal/store"
)

// Fixed reference day for reproducible advice scenarios
var adviceDay = time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)

func newAdviceService(t *testing.T, mutate func(*config.Config)) (*AdviceService, *store.DB) {
	t.Helper()

	db := store.NewTestDB(t)
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewAdviceService(db, &cfg), db
}

// seedDailyLoad stores one synthetic activity per day carrying the given
// corrected load, for daysAgo counting back from adviceDay.
func seedDailyLoad(t *testing.T, db *store.DB, daysAgo int, load int) {
	t.Helper()

	day := adviceDay.AddDate(0, 0, -daysAgo)
	a := &store.Activity{
		ID:              int64(1000 + daysAgo),
		Sport:           "Running",
		Day:             day.Format(dayLayout),
		StartTime:       day,
		DurationSeconds: 1800,
		IncludeInLoad:   true,
		CorrectedLoad:   load,
	}
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("seeding activity: %v", err)
	}
}

func TestAdviceForSteadyTrainingPush(t *testing.T) {
	svc, db := newAdviceService(t, func(c *config.Config) {
		// adviceDay lands on cycle day 9: follicular
		c.Cycle.LastPeriodStart = "2025-06-12"
	})

	// Uniform load across the whole chronic window: ratio 1.0
	for i := 0; i < 28; i++ {
		seedDailyLoad(t, db, i, 100)
	}
	if err := db.SetReadiness(adviceDay.Format(dayLayout), 8); err != nil {
		t.Fatal(err)
	}

	advice, err := svc.AdviceFor(adviceDay)
	if err != nil {
		t.Fatal(err)
	}

	if advice.Workload.Ratio == nil || *advice.Workload.Ratio != 1.0 {
		t.Fatalf("Ratio = %v, want 1.0", advice.Workload.Ratio)
	}
	if advice.Phase == nil || advice.Phase.Name != readiness.PhaseFollicular {
		t.Fatalf("Phase = %+v, want follicular", advice.Phase)
	}
	if advice.Decision.Tag != readiness.TagPush {
		t.Errorf("Tag = %v, want PUSH (readiness 8, follicular, sweet ratio)", advice.Decision.Tag)
	}
	if advice.Decision.PrescriptionHint != readiness.HintProgressiveOverload {
		t.Errorf("PrescriptionHint = %q, want progressive overload in the sweet band", advice.Decision.PrescriptionHint)
	}
}

func TestAdviceForWorkloadSpike(t *testing.T) {
	svc, db := newAdviceService(t, nil)

	// Heavy week after three quiet weeks: acute 1400, chronic weekly 350
	for i := 0; i < 7; i++ {
		seedDailyLoad(t, db, i, 200)
	}
	if err := db.SetReadiness(adviceDay.Format(dayLayout), 9); err != nil {
		t.Fatal(err)
	}

	advice, err := svc.AdviceFor(adviceDay)
	if err != nil {
		t.Fatal(err)
	}

	if advice.Workload.Ratio == nil || *advice.Workload.Ratio != 4.0 {
		t.Fatalf("Ratio = %v, want 4.0", advice.Workload.Ratio)
	}
	if advice.Decision.Tag != readiness.TagRecover {
		t.Errorf("Tag = %v, want RECOVER on a workload spike", advice.Decision.Tag)
	}
	if !hasReason(advice.Decision, readiness.ReasonACWRSpike) {
		t.Errorf("Reasons = %v, want acwr_spike", advice.Decision.Reasons)
	}
}

func TestAdviceForSickOverride(t *testing.T) {
	svc, db := newAdviceService(t, nil)

	for i := 0; i < 28; i++ {
		seedDailyLoad(t, db, i, 100)
	}
	dayKey := adviceDay.Format(dayLayout)
	if err := db.SetReadiness(dayKey, 9); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSickOrInjured(dayKey, true); err != nil {
		t.Fatal(err)
	}

	advice, err := svc.AdviceFor(adviceDay)
	if err != nil {
		t.Fatal(err)
	}

	if advice.Decision.Tag != readiness.TagRecover {
		t.Errorf("Tag = %v, want RECOVER when sick regardless of other signals", advice.Decision.Tag)
	}
	if !hasReason(advice.Decision, readiness.ReasonSickOrInjured) {
		t.Errorf("Reasons = %v, want sick_or_injured", advice.Decision.Reasons)
	}
}

func TestAdviceForRedFlags(t *testing.T) {
	svc, db := newAdviceService(t, nil)

	// Ten prior days of stable biometrics to form baselines
	for i := 1; i <= 10; i++ {
		day := adviceDay.AddDate(0, 0, -i).Format(dayLayout)
		rhr, hrv, sleep := 60.0, 65.0, 7.5
		log := &store.DailyLog{Day: day, RestingHR: &rhr, HRV: &hrv, SleepHours: &sleep}
		if err := db.UpsertDailyLog(log); err != nil {
			t.Fatal(err)
		}
	}

	// Today: short sleep, elevated RHR (>63), suppressed HRV (<58.5)
	rhr, hrv, sleep := 66.0, 50.0, 5.0
	today := &store.DailyLog{
		Day:        adviceDay.Format(dayLayout),
		RestingHR:  &rhr,
		HRV:        &hrv,
		SleepHours: &sleep,
	}
	if err := db.UpsertDailyLog(today); err != nil {
		t.Fatal(err)
	}

	advice, err := svc.AdviceFor(adviceDay)
	if err != nil {
		t.Fatal(err)
	}

	if advice.RedFlags == nil {
		t.Fatal("RedFlags = nil, want a computable result")
	}
	if advice.RedFlags.Count != 3 {
		t.Errorf("RedFlags.Count = %d, want 3", advice.RedFlags.Count)
	}
	if advice.Decision.Tag != readiness.TagRest {
		t.Errorf("Tag = %v, want REST with multiple red flags", advice.Decision.Tag)
	}
}

func TestAdviceForNoData(t *testing.T) {
	svc, _ := newAdviceService(t, nil)

	advice, err := svc.AdviceFor(adviceDay)
	if err != nil {
		t.Fatal(err)
	}

	if advice.RedFlags != nil {
		t.Errorf("RedFlags = %+v, want nil when biometrics are absent", advice.RedFlags)
	}
	if advice.Workload.Ratio != nil {
		t.Errorf("Ratio = %v, want nil with no load history", advice.Workload.Ratio)
	}
	if advice.Decision.Tag != readiness.TagMaintain {
		t.Errorf("Tag = %v, want the conservative MAINTAIN default", advice.Decision.Tag)
	}
	if !hasReason(advice.Decision, readiness.ReasonNoData) {
		t.Errorf("Reasons = %v, want no_data", advice.Decision.Reasons)
	}
}

func TestAdviceForExcludedActivities(t *testing.T) {
	svc, db := newAdviceService(t, nil)

	seedDailyLoad(t, db, 0, 100)

	excluded := &store.Activity{
		ID:              9999,
		Sport:           "Running",
		Day:             adviceDay.Format(dayLayout),
		StartTime:       adviceDay,
		DurationSeconds: 1800,
		IncludeInLoad:   true,
		CorrectedLoad:   1000,
	}
	if err := db.UpsertActivity(excluded); err != nil {
		t.Fatal(err)
	}
	if err := db.SetIncludeInLoad(excluded.ID, false); err != nil {
		t.Fatal(err)
	}

	advice, err := svc.AdviceFor(adviceDay)
	if err != nil {
		t.Fatal(err)
	}

	if advice.Workload.AcuteSum != 100 {
		t.Errorf("AcuteSum = %v, want 100 (excluded activity must not count)", advice.Workload.AcuteSum)
	}
}

func TestHistoryOrderAndLength(t *testing.T) {
	svc, db := newAdviceService(t, nil)
	seedDailyLoad(t, db, 0, 100)

	history, err := svc.History(7)
	if err != nil {
		t.Fatal(err)
	}

	if len(history) != 7 {
		t.Fatalf("len(history) = %d, want 7", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i-1].Day >= history[i].Day {
			t.Errorf("history out of order: %q before %q", history[i-1].Day, history[i].Day)
		}
	}
	if history[len(history)-1].Day != time.Now().Format(dayLayout) {
		t.Errorf("last history day = %q, want today", history[len(history)-1].Day)
	}
}

func TestACWRTrendLength(t *testing.T) {
	svc, db := newAdviceService(t, nil)
	seedDailyLoad(t, db, 0, 100)

	ratios, labels, err := svc.ACWRTrend(14)
	if err != nil {
		t.Fatal(err)
	}
	if len(ratios) != 14 || len(labels) != 14 {
		t.Fatalf("series lengths = %d/%d, want 14/14", len(ratios), len(labels))
	}
}

func TestSetReadinessValidation(t *testing.T) {
	svc, _ := newAdviceService(t, nil)

	if err := svc.SetReadiness(adviceDay, 0); err == nil {
		t.Error("SetReadiness(0) = nil, want range error")
	}
	if err := svc.SetReadiness(adviceDay, 11); err == nil {
		t.Error("SetReadiness(11) = nil, want range error")
	}
	if err := svc.SetReadiness(adviceDay, 7); err != nil {
		t.Errorf("SetReadiness(7) = %v, want nil", err)
	}
}

func hasReason(d readiness.Decision, code readiness.ReasonCode) bool {
	for _, r := range d.Reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}
