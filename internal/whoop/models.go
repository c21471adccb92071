package whoop

import "time"

// Score states returned by the API. Records still being scored carry
// PENDING_SCORE and a nil Score.
const (
	ScoreStateScored     = "SCORED"
	ScoreStatePending    = "PENDING_SCORE"
	ScoreStateUnscorable = "UNSCORABLE"
)

// Workout represents a workout record from the WHOOP API
type Workout struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"user_id"`
	SportID        int           `json:"sport_id"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	TimezoneOffset string        `json:"timezone_offset"` // "+05:30", "-08:00"
	ScoreState     string        `json:"score_state"`
	Score          *WorkoutScore `json:"score"`
}

// WorkoutScore holds the scored metrics of a workout
type WorkoutScore struct {
	Strain           float64  `json:"strain"`
	AverageHeartRate *float64 `json:"average_heart_rate"`
	MaxHeartRate     *float64 `json:"max_heart_rate"`
	Kilojoule        float64  `json:"kilojoule"`
}

// DurationSeconds returns the workout duration in seconds
func (w *Workout) DurationSeconds() float64 {
	return w.End.Sub(w.Start).Seconds()
}

// Recovery represents a recovery record from the WHOOP API
type Recovery struct {
	CycleID    int64          `json:"cycle_id"`
	SleepID    int64          `json:"sleep_id"`
	UserID     int64          `json:"user_id"`
	CreatedAt  time.Time      `json:"created_at"`
	ScoreState string         `json:"score_state"`
	Score      *RecoveryScore `json:"score"`
}

// RecoveryScore holds the scored recovery metrics
type RecoveryScore struct {
	RecoveryScore    float64 `json:"recovery_score"`
	RestingHeartRate float64 `json:"resting_heart_rate"`
	HRVRmssdMilli    float64 `json:"hrv_rmssd_milli"`
}

// Sleep represents a sleep record from the WHOOP API
type Sleep struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	TimezoneOffset string      `json:"timezone_offset"`
	Nap            bool        `json:"nap"`
	ScoreState     string      `json:"score_state"`
	Score          *SleepScore `json:"score"`
}

// SleepScore holds the scored sleep metrics
type SleepScore struct {
	StageSummary SleepStageSummary `json:"stage_summary"`
}

// SleepStageSummary breaks total time in bed into stages, in milliseconds
type SleepStageSummary struct {
	TotalInBedMilli      int64 `json:"total_in_bed_time_milli"`
	TotalAwakeMilli      int64 `json:"total_awake_time_milli"`
	TotalLightSleepMilli int64 `json:"total_light_sleep_time_milli"`
	TotalSlowWaveMilli   int64 `json:"total_slow_wave_sleep_time_milli"`
	TotalREMSleepMilli   int64 `json:"total_rem_sleep_time_milli"`
}

// TotalSleepHours returns hours actually asleep (in bed minus awake)
func (s *SleepScore) TotalSleepHours() float64 {
	asleep := s.StageSummary.TotalInBedMilli - s.StageSummary.TotalAwakeMilli
	if asleep < 0 {
		asleep = 0
	}
	return float64(asleep) / (1000 * 60 * 60)
}

// Profile represents the basic user profile
type Profile struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Paginated responses wrap records with a continuation token. An empty
// NextToken means the last page.
type workoutsResponse struct {
	Records   []Workout `json:"records"`
	NextToken string    `json:"next_token"`
}

type recoveriesResponse struct {
	Records   []Recovery `json:"records"`
	NextToken string     `json:"next_token"`
}

type sleepsResponse struct {
	Records   []Sleep `json:"records"`
	NextToken string  `json:"next_token"`
}
