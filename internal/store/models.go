package store

import "time"

// Auth represents OAuth tokens for provider API access
type Auth struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Activity represents one synced workout. Day is the local calendar day
// ("2006-01-02") resolved at ingestion; the readiness engine never sees raw
// timestamps.
type Activity struct {
	ID              int64
	UserID          int64
	Sport           string
	Day             string
	StartTime       time.Time
	DurationSeconds int
	AverageHR       *float64 // nullable
	MaxHR           *float64 // nullable
	StrainScore     *float64 // vendor effort score, nullable
	IncludeInLoad   bool
	RawLoad         float64
	CorrectedLoad   int
	// UsedDefaultTimezone records that the provider supplied no timezone and
	// the sync fell back to UTC when resolving Day.
	UsedDefaultTimezone bool
}

// DailyLog represents one day's biometric readings. Any field may be absent;
// a row with any numeric field present still feeds baseline aggregation.
type DailyLog struct {
	Day           string
	SleepHours    *float64
	HRV           *float64
	RestingHR     *float64
	Readiness     *int // 1-10 subjective, manually entered
	SickOrInjured bool
}
