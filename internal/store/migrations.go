package store

import (
	"fmt"
	"log"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS activities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at DATETIME NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    activity_type TEXT,
    elapsed_sec REAL,
    moving_sec REAL,
    distance_m REAL,
    max_speed REAL,
    elevation_gain REAL,
    elevation_loss REAL,
    elevation_low REAL,
    elevation_high REAL,
    max_grade REAL,
    avg_grade REAL,
    calories REAL,
    distance_mi REAL,
    elapsed_min REAL,
    moving_min REAL,
    elapsed_pace REAL,
    moving_pace REAL,
    local_hour INTEGER,
    year INTEGER,
    day_of_year INTEGER,
    time_of_day TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(started_at, name)
);

CREATE TABLE IF NOT EXISTS model_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_at DATETIME NOT NULL,
    model_id TEXT NOT NULL,
    dataset TEXT NOT NULL,
    n INTEGER NOT NULL,
    r_squared REAL,
    adj_r_squared REAL,
    residual_se REAL,
    coefficients TEXT,
    UNIQUE(run_at, model_id)
);

CREATE TABLE IF NOT EXISTS comparison_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_at DATETIME NOT NULL,
    evaluated INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    simple_wins INTEGER NOT NULL,
    fraction REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activities_started ON activities(started_at);
CREATE INDEX IF NOT EXISTS idx_model_runs_run_at ON model_runs(run_at);
`,
	},
}

func (s *Store) Migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied int
		err := s.db.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.Version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if applied > 0 {
			continue
		}

		if _, err := s.db.Exec(m.SQL); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		log.Printf("applied migration %d: %s", m.Version, m.Description)
	}

	return nil
}
