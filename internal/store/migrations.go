package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activities (workouts synced from the provider)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			sport TEXT NOT NULL,
			day TEXT NOT NULL,
			start_time TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			average_heartrate REAL,
			max_heartrate REAL,
			strain_score REAL,
			include_in_load INTEGER NOT NULL DEFAULT 1,
			raw_load REAL NOT NULL DEFAULT 0,
			corrected_load INTEGER NOT NULL DEFAULT 0,
			used_default_timezone INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_day ON activities(day)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_include ON activities(include_in_load)`,

		// Daily biometric logs: recovery data merged from the provider plus
		// manually entered readiness and sick flags. Rows may be partial.
		`CREATE TABLE IF NOT EXISTS daily_logs (
			day TEXT PRIMARY KEY,
			sleep_hours REAL,
			hrv REAL,
			resting_heartrate REAL,
			readiness INTEGER,
			sick_or_injured INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
