package store

import (
	"database/sql"
	"errors"
)

// UpsertDailyLog merges one day's biometrics into the log. NULL incoming
// fields never clobber stored values, so a provider sync and a manual
// readiness entry can each write their half of the same row. The sick flag
// is deliberately not written here: it has no absent state on the incoming
// struct, and a re-sync must not clear a manually set flag. Use
// SetSickOrInjured for it.
func (db *DB) UpsertDailyLog(l *DailyLog) error {
	_, err := db.Exec(`
		INSERT INTO daily_logs (
			day, sleep_hours, hrv, resting_heartrate, readiness, updated_at
		) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(day) DO UPDATE SET
			sleep_hours = COALESCE(excluded.sleep_hours, daily_logs.sleep_hours),
			hrv = COALESCE(excluded.hrv, daily_logs.hrv),
			resting_heartrate = COALESCE(excluded.resting_heartrate, daily_logs.resting_heartrate),
			readiness = COALESCE(excluded.readiness, daily_logs.readiness),
			updated_at = CURRENT_TIMESTAMP
	`, l.Day, l.SleepHours, l.HRV, l.RestingHR, l.Readiness)
	return err
}

// SetSickOrInjured flips just the sick flag for a day, creating the row if
// needed.
func (db *DB) SetSickOrInjured(day string, sick bool) error {
	_, err := db.Exec(`
		INSERT INTO daily_logs (day, sick_or_injured, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(day) DO UPDATE SET
			sick_or_injured = excluded.sick_or_injured,
			updated_at = CURRENT_TIMESTAMP
	`, day, boolToInt(sick))
	return err
}

// SetReadiness records the subjective 1-10 readiness for a day, creating the
// row if needed.
func (db *DB) SetReadiness(day string, readiness int) error {
	_, err := db.Exec(`
		INSERT INTO daily_logs (day, readiness, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(day) DO UPDATE SET
			readiness = excluded.readiness,
			updated_at = CURRENT_TIMESTAMP
	`, day, readiness)
	return err
}

// GetDailyLog retrieves the log for a day
func (db *DB) GetDailyLog(day string) (*DailyLog, error) {
	row := db.QueryRow(selectDailyLog+` WHERE day = ?`, day)
	l, err := scanDailyLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLogNotFound
	}
	return l, err
}

// ListDailyLogsBetween returns logs whose day falls in [from, to] inclusive,
// ordered by day ascending.
func (db *DB) ListDailyLogsBetween(from, to string) ([]DailyLog, error) {
	rows, err := db.Query(selectDailyLog+`
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []DailyLog
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

const selectDailyLog = `
	SELECT day, sleep_hours, hrv, resting_heartrate, readiness, sick_or_injured
	FROM daily_logs`

func scanDailyLog(row rowScanner) (*DailyLog, error) {
	var l DailyLog
	var sleep, hrv, rhr sql.NullFloat64
	var readiness sql.NullInt64
	var sick int

	err := row.Scan(&l.Day, &sleep, &hrv, &rhr, &readiness, &sick)
	if err != nil {
		return nil, err
	}

	l.SleepHours = nullFloat64ToPtr(sleep)
	l.HRV = nullFloat64ToPtr(hrv)
	l.RestingHR = nullFloat64ToPtr(rhr)
	l.Readiness = nullInt64ToIntPtr(readiness)
	l.SickOrInjured = sick == 1

	return &l, nil
}
