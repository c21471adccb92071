package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"trainready/internal/config"
	"trainready/internal/readiness"
	"trainready/internal/store"
	"trainready/internal/whoop"
)

// SyncService orchestrates syncing workouts and biometrics from WHOOP
type SyncService struct {
	client          *whoop.Client
	store           *store.DB
	profile         readiness.HRProfile
	cycleAnchor     *time.Time
	cycleLengthDays int
}

// NewSyncService creates a new sync service
func NewSyncService(client *whoop.Client, db *store.DB, cfg *config.Config) *SyncService {
	return &SyncService{
		client: client,
		store:  db,
		profile: readiness.HRProfile{
			RestingHR: cfg.Athlete.RestingHR,
			MaxHR:     cfg.Athlete.MaxHR,
		},
		cycleAnchor:     cfg.CycleAnchor(),
		cycleLengthDays: cfg.Cycle.CycleLengthDays,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase     string // "workouts", "recoveries", "sleeps", "loads"
	Total     int
	Completed int
	Error     error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	WorkoutsFetched  int
	WorkoutsStored   int
	RecoveriesStored int
	SleepsStored     int
	LoadsComputed    int
	Errors           []error
}

// SyncAll performs a full sync: workouts -> recoveries -> sleeps -> loads
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	if err := s.syncWorkouts(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing workouts: %w", err)
	}

	if err := s.syncRecoveries(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing recoveries: %w", err)
	}

	if err := s.syncSleeps(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing sleeps: %w", err)
	}

	// Loads come last so recovery readings synced above feed the correction
	if err := s.computeLoads(ctx, progress, result); err != nil {
		return result, fmt.Errorf("computing loads: %w", err)
	}

	return result, nil
}

// syncWorkouts fetches all workouts from WHOOP and stores them
func (s *SyncService) syncWorkouts(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	start := s.lastSyncTime("last_workout_sync")

	if progress != nil {
		progress <- SyncProgress{Phase: "workouts"}
	}

	workouts, err := s.client.GetAllWorkouts(ctx, start, func(fetched int) {
		if progress != nil {
			progress <- SyncProgress{Phase: "workouts", Total: fetched, Completed: fetched}
		}
	})
	if err != nil {
		return err
	}

	result.WorkoutsFetched = len(workouts)

	for _, w := range workouts {
		activity := convertWorkout(w)
		if err := s.store.UpsertActivity(activity); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing workout %d: %w", w.ID, err))
			continue
		}
		result.WorkoutsStored++
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "workouts",
			Total:     result.WorkoutsFetched,
			Completed: result.WorkoutsStored,
		}
	}

	s.checkpoint("last_workout_sync", result)

	return nil
}

// syncRecoveries merges recovery scores (resting HR, HRV) into daily logs
func (s *SyncService) syncRecoveries(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	start := s.lastSyncTime("last_recovery_sync")

	if progress != nil {
		progress <- SyncProgress{Phase: "recoveries"}
	}

	recoveries, err := s.client.GetAllRecoveries(ctx, start)
	if err != nil {
		return err
	}

	for _, r := range recoveries {
		if r.ScoreState != whoop.ScoreStateScored || r.Score == nil {
			continue
		}

		rhr := r.Score.RestingHeartRate
		hrv := r.Score.HRVRmssdMilli
		log := &store.DailyLog{
			Day:       r.CreatedAt.UTC().Format("2006-01-02"),
			RestingHR: &rhr,
			HRV:       &hrv,
		}
		if err := s.store.UpsertDailyLog(log); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing recovery for cycle %d: %w", r.CycleID, err))
			continue
		}
		result.RecoveriesStored++
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "recoveries",
			Total:     len(recoveries),
			Completed: result.RecoveriesStored,
		}
	}

	s.checkpoint("last_recovery_sync", result)

	return nil
}

// syncSleeps merges sleep durations into daily logs. A sleep is attributed to
// the day the athlete woke up, in the sleep's own timezone.
func (s *SyncService) syncSleeps(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	start := s.lastSyncTime("last_sleep_sync")

	if progress != nil {
		progress <- SyncProgress{Phase: "sleeps"}
	}

	sleeps, err := s.client.GetAllSleeps(ctx, start)
	if err != nil {
		return err
	}

	for _, sl := range sleeps {
		if sl.Nap || sl.ScoreState != whoop.ScoreStateScored || sl.Score == nil {
			continue
		}

		loc, _ := parseTimezoneOffset(sl.TimezoneOffset)
		hours := sl.Score.TotalSleepHours()
		log := &store.DailyLog{
			Day:        sl.End.In(loc).Format("2006-01-02"),
			SleepHours: &hours,
		}
		if err := s.store.UpsertDailyLog(log); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing sleep %d: %w", sl.ID, err))
			continue
		}
		result.SleepsStored++
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "sleeps",
			Total:     len(sleeps),
			Completed: result.SleepsStored,
		}
	}

	s.checkpoint("last_sleep_sync", result)

	return nil
}

// computeLoads recomputes raw and corrected loads for every stored activity.
// This runs on every sync because cycle configuration and same-day readiness
// entries can change after a workout was first stored.
func (s *SyncService) computeLoads(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	activities, err := s.store.ListActivities(10000, 0)
	if err != nil {
		return fmt.Errorf("listing activities: %w", err)
	}

	if len(activities) == 0 {
		return nil
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "loads", Total: len(activities)}
	}

	logs, err := s.dailyLogsByDay(activities)
	if err != nil {
		return err
	}

	for i, a := range activities {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		raw, corrected := s.computeActivityLoads(&a, logs[a.Day])
		if raw != a.RawLoad || corrected != a.CorrectedLoad {
			if err := s.store.UpdateActivityLoads(a.ID, raw, corrected); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("updating loads for %d: %w", a.ID, err))
				continue
			}
		}
		result.LoadsComputed++

		if progress != nil && (i+1)%50 == 0 {
			progress <- SyncProgress{Phase: "loads", Total: len(activities), Completed: i + 1}
		}
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "loads", Total: len(activities), Completed: len(activities)}
	}

	return nil
}

// computeActivityLoads derives the raw and corrected load for one activity
// given that day's log (which may be nil).
func (s *SyncService) computeActivityLoads(a *store.Activity, log *store.DailyLog) (float64, int) {
	raw := readiness.RawLoad(float64(a.DurationSeconds), a.AverageHR, a.StrainScore, s.profile)

	var phaseName *string
	if s.cycleAnchor != nil {
		if day, err := time.Parse("2006-01-02", a.Day); err == nil {
			phase := readiness.PhaseOn(*s.cycleAnchor, day, s.cycleLengthDays)
			phaseName = &phase.Name
		}
	}

	var readinessVal *float64
	if log != nil && log.Readiness != nil {
		v := float64(*log.Readiness)
		readinessVal = &v
	}

	maxHR := s.profile.MaxHR
	corrected := readiness.CorrectedLoad(raw, phaseName, readinessVal, a.AverageHR, &maxHR)

	return raw, corrected
}

// dailyLogsByDay fetches the logs spanning the given activities, keyed by day
func (s *SyncService) dailyLogsByDay(activities []store.Activity) (map[string]*store.DailyLog, error) {
	minDay, maxDay := activities[0].Day, activities[0].Day
	for _, a := range activities {
		if a.Day < minDay {
			minDay = a.Day
		}
		if a.Day > maxDay {
			maxDay = a.Day
		}
	}

	logs, err := s.store.ListDailyLogsBetween(minDay, maxDay)
	if err != nil {
		return nil, fmt.Errorf("listing daily logs: %w", err)
	}

	byDay := make(map[string]*store.DailyLog, len(logs))
	for i := range logs {
		byDay[logs[i].Day] = &logs[i]
	}
	return byDay, nil
}

// checkpoint records a sync watermark. A failed write is reported rather
// than fatal: the data itself is stored, the next run just refetches a
// wider window.
func (s *SyncService) checkpoint(key string, result *SyncResult) {
	if err := s.store.SetSyncState(key, time.Now().UTC().Format(time.RFC3339)); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("saving %s checkpoint: %w", key, err))
	}
}

// lastSyncTime reads a sync checkpoint, returning the zero time when none
// exists so the first sync fetches full history.
func (s *SyncService) lastSyncTime(key string) time.Time {
	str, _ := s.store.GetSyncState(key)
	if str == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}
	}
	// Overlap the previous sync slightly so records scored late are not missed
	return t.AddDate(0, 0, -2)
}

// RateLimitStatus returns the current rate limit status from the client
func (s *SyncService) RateLimitStatus() (minuteRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}

// convertWorkout converts a WHOOP API workout to a store activity. The
// workout's own timezone offset resolves the local calendar day; when the
// provider omits it, the sync falls back to UTC and records that it did.
func convertWorkout(w whoop.Workout) *store.Activity {
	loc, usedDefault := parseTimezoneOffset(w.TimezoneOffset)

	activity := &store.Activity{
		ID:                  w.ID,
		UserID:              w.UserID,
		Sport:               sportName(w.SportID),
		Day:                 w.Start.In(loc).Format("2006-01-02"),
		StartTime:           w.Start,
		DurationSeconds:     int(w.DurationSeconds()),
		IncludeInLoad:       true,
		UsedDefaultTimezone: usedDefault,
	}

	if w.Score != nil {
		activity.AverageHR = w.Score.AverageHeartRate
		activity.MaxHR = w.Score.MaxHeartRate
		if w.Score.Strain > 0 {
			strain := w.Score.Strain
			activity.StrainScore = &strain
		}
	}

	return activity
}

// parseTimezoneOffset converts a "+05:30" style offset into a fixed location.
// The second return is true when the offset was missing or malformed and UTC
// was used instead.
func parseTimezoneOffset(offset string) (*time.Location, bool) {
	if len(offset) != 6 || (offset[0] != '+' && offset[0] != '-') || offset[3] != ':' {
		return time.UTC, true
	}

	hours, err1 := strconv.Atoi(offset[1:3])
	minutes, err2 := strconv.Atoi(offset[4:6])
	if err1 != nil || err2 != nil || hours > 14 || minutes > 59 {
		return time.UTC, true
	}

	seconds := hours*3600 + minutes*60
	if offset[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone("UTC"+offset, seconds), false
}

// sportName maps WHOOP sport IDs to display names. Unknown IDs keep the
// numeric form so nothing is dropped.
func sportName(id int) string {
	if name, ok := sportNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Sport %d", id)
}

var sportNames = map[int]string{
	-1: "Activity",
	0:  "Running",
	1:  "Cycling",
	18: "Rowing",
	33: "Swimming",
	44: "Yoga",
	45: "Weightlifting",
	48: "Functional Fitness",
	63: "Walking",
	66: "Hiking",
	70: "Pilates",
	96: "HIIT",
}
