package store

import (
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"github.com/jthorne/paceline/internal/models"
	"github.com/jthorne/paceline/internal/regress"
)

// Store archives imported activities and fit results. The analysis
// pipeline never reads from it; every run recomputes from the source
// export, the archive is for longitudinal inspection only.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertActivity(a models.Activity) error {
	_, err := s.db.Exec(`
		INSERT INTO activities (
			started_at, name, description, activity_type,
			elapsed_sec, moving_sec, distance_m, max_speed,
			elevation_gain, elevation_loss, elevation_low, elevation_high,
			max_grade, avg_grade, calories,
			distance_mi, elapsed_min, moving_min, elapsed_pace, moving_pace,
			local_hour, year, day_of_year, time_of_day
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(started_at, name) DO UPDATE SET
			description = excluded.description,
			activity_type = excluded.activity_type,
			elapsed_sec = excluded.elapsed_sec,
			moving_sec = excluded.moving_sec,
			distance_m = excluded.distance_m,
			max_speed = excluded.max_speed,
			elevation_gain = excluded.elevation_gain,
			elevation_loss = excluded.elevation_loss,
			elevation_low = excluded.elevation_low,
			elevation_high = excluded.elevation_high,
			max_grade = excluded.max_grade,
			avg_grade = excluded.avg_grade,
			calories = excluded.calories,
			distance_mi = excluded.distance_mi,
			elapsed_min = excluded.elapsed_min,
			moving_min = excluded.moving_min,
			elapsed_pace = excluded.elapsed_pace,
			moving_pace = excluded.moving_pace,
			local_hour = excluded.local_hour,
			year = excluded.year,
			day_of_year = excluded.day_of_year,
			time_of_day = excluded.time_of_day
	`, a.StartedAt, a.Name, a.Description, a.ActivityType,
		a.ElapsedSec, a.MovingSec, a.DistanceM, a.MaxSpeed,
		a.ElevationGain, a.ElevationLoss, a.ElevationLow, a.ElevationHigh,
		a.MaxGrade, a.AvgGrade, a.Calories,
		a.DistanceMi, a.ElapsedMin, a.MovingMin, nullablePace(a.ElapsedPace), nullablePace(a.MovingPace),
		a.LocalHour, a.Year, a.DayOfYear, a.TimeOfDay)
	return err
}

// nullablePace stores non-finite pace values as NULL; SQLite has no
// representation for Inf or NaN.
func nullablePace(v float64) sql.NullFloat64 {
	if !finite(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *Store) GetActivities(start, end time.Time) ([]models.Activity, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, name, description, activity_type,
			elapsed_sec, moving_sec, distance_m, max_speed,
			elevation_gain, elevation_loss, elevation_low, elevation_high,
			max_grade, avg_grade, calories,
			distance_mi, elapsed_min, moving_min, elapsed_pace, moving_pace,
			local_hour, year, day_of_year, time_of_day
		FROM activities
		WHERE started_at >= ? AND started_at <= ?
		ORDER BY started_at ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var desc, atype, tod sql.NullString
		var elapsedPace, movingPace sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.StartedAt, &a.Name, &desc, &atype,
			&a.ElapsedSec, &a.MovingSec, &a.DistanceM, &a.MaxSpeed,
			&a.ElevationGain, &a.ElevationLoss, &a.ElevationLow, &a.ElevationHigh,
			&a.MaxGrade, &a.AvgGrade, &a.Calories,
			&a.DistanceMi, &a.ElapsedMin, &a.MovingMin, &elapsedPace, &movingPace,
			&a.LocalHour, &a.Year, &a.DayOfYear, &tod); err != nil {
			return nil, err
		}
		a.Description = desc.String
		a.ActivityType = atype.String
		a.TimeOfDay = tod.String
		a.ElapsedPace = paceOrInf(elapsedPace)
		a.MovingPace = paceOrInf(movingPace)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func paceOrInf(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.Inf(1)
	}
	return v.Float64
}

func (s *Store) RecordModelRun(runAt time.Time, mf regress.ModelFit) error {
	coeffs, err := json.Marshal(mf.Fit.Coefficients)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO model_runs (run_at, model_id, dataset, n, r_squared, adj_r_squared, residual_se, coefficients)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_at, model_id) DO NOTHING
	`, runAt, mf.Spec.ID, string(mf.Spec.Dataset), mf.Fit.N, mf.Fit.RSquared, mf.Fit.AdjRSquared, mf.Fit.ResidualSE, string(coeffs))
	return err
}

func (s *Store) RecordComparisonRun(runAt time.Time, res regress.ComparisonResult) error {
	_, err := s.db.Exec(`
		INSERT INTO comparison_runs (run_at, evaluated, skipped, simple_wins, fraction)
		VALUES (?, ?, ?, ?, ?)
	`, runAt, res.Evaluated, res.Skipped, res.SimpleWins, res.Fraction)
	return err
}

// ModelRunSummary is one archived fit, coefficients decoded.
type ModelRunSummary struct {
	RunAt        time.Time
	ModelID      string
	Dataset      string
	N            int
	RSquared     float64
	Coefficients []regress.Coefficient
}

func (s *Store) GetModelRuns(modelID string, limit int) ([]ModelRunSummary, error) {
	rows, err := s.db.Query(`
		SELECT run_at, model_id, dataset, n, r_squared, coefficients
		FROM model_runs
		WHERE model_id = ?
		ORDER BY run_at DESC
		LIMIT ?
	`, modelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ModelRunSummary
	for rows.Next() {
		var mr ModelRunSummary
		var coeffs string
		if err := rows.Scan(&mr.RunAt, &mr.ModelID, &mr.Dataset, &mr.N, &mr.RSquared, &coeffs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(coeffs), &mr.Coefficients); err != nil {
			return nil, err
		}
		runs = append(runs, mr)
	}
	return runs, rows.Err()
}
