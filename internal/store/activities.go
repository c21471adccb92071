package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertActivity inserts or updates an activity. A re-sync does not touch
// include_in_load, so manual exclusions survive.
func (db *DB) UpsertActivity(a *Activity) error {
	_, err := db.Exec(`
		INSERT INTO activities (
			id, user_id, sport, day, start_time, duration_seconds,
			average_heartrate, max_heartrate, strain_score,
			include_in_load, raw_load, corrected_load, used_default_timezone, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			sport = excluded.sport,
			day = excluded.day,
			start_time = excluded.start_time,
			duration_seconds = excluded.duration_seconds,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			strain_score = excluded.strain_score,
			raw_load = excluded.raw_load,
			corrected_load = excluded.corrected_load,
			used_default_timezone = excluded.used_default_timezone,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.UserID, a.Sport, a.Day, a.StartTime.Format(time.RFC3339),
		a.DurationSeconds, a.AverageHR, a.MaxHR, a.StrainScore,
		boolToInt(a.IncludeInLoad), a.RawLoad, a.CorrectedLoad, boolToInt(a.UsedDefaultTimezone),
	)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id int64) (*Activity, error) {
	row := db.QueryRow(selectActivity+` WHERE id = ?`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	return a, err
}

// ListActivities returns activities ordered by start time descending
func (db *DB) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := db.Query(selectActivity+`
		ORDER BY start_time DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListActivitiesBetween returns activities whose day falls in [from, to]
// inclusive, ordered by day ascending. Day bounds use the "2006-01-02" form.
func (db *DB) ListActivitiesBetween(from, to string) ([]Activity, error) {
	rows, err := db.Query(selectActivity+`
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC, start_time ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// SetIncludeInLoad toggles whether an activity counts toward workload windows.
func (db *DB) SetIncludeInLoad(id int64, include bool) error {
	result, err := db.Exec(`
		UPDATE activities SET include_in_load = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, boolToInt(include), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// UpdateActivityLoads rewrites the stored load estimates for an activity.
// Loads are recomputed after every sync because same-day readiness entries
// and cycle configuration can change after the workout was first stored.
func (db *DB) UpdateActivityLoads(id int64, rawLoad float64, correctedLoad int) error {
	result, err := db.Exec(`
		UPDATE activities SET raw_load = ?, corrected_load = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, rawLoad, correctedLoad, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM activities`).Scan(&count)
	return count, err
}

const selectActivity = `
	SELECT id, user_id, sport, day, start_time, duration_seconds,
		average_heartrate, max_heartrate, strain_score,
		include_in_load, raw_load, corrected_load, used_default_timezone
	FROM activities`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*Activity, error) {
	var a Activity
	var startTime string
	var avgHR, maxHR, strain sql.NullFloat64
	var include, usedDefaultTZ int

	err := row.Scan(
		&a.ID, &a.UserID, &a.Sport, &a.Day, &startTime, &a.DurationSeconds,
		&avgHR, &maxHR, &strain, &include, &a.RawLoad, &a.CorrectedLoad, &usedDefaultTZ,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime, err = time.Parse(time.RFC3339, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time %q: %w", startTime, err)
	}
	a.AverageHR = nullFloat64ToPtr(avgHR)
	a.MaxHR = nullFloat64ToPtr(maxHR)
	a.StrainScore = nullFloat64ToPtr(strain)
	a.IncludeInLoad = include == 1
	a.UsedDefaultTimezone = usedDefaultTZ == 1

	return &a, nil
}

func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}
