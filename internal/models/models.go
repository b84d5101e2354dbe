package models

import (
	"database/sql"
	"math"
	"time"
)

// Activity is one recorded exercise session from the export.
// Source fields are filled by ingest; derived fields by derive.Derive.
type Activity struct {
	ID            int64
	StartedAt     time.Time
	Name          string
	Description   string
	ActivityType  string
	ElapsedSec    float64
	MovingSec     float64
	DistanceM     float64
	MaxSpeed      sql.NullFloat64
	ElevationGain sql.NullFloat64
	ElevationLoss sql.NullFloat64
	ElevationLow  sql.NullFloat64
	ElevationHigh sql.NullFloat64
	MaxGrade      sql.NullFloat64
	AvgGrade      sql.NullFloat64
	Calories      sql.NullFloat64

	// Derived, set once at normalization. Pace fields are +Inf or NaN
	// when DistanceM is zero.
	DistanceMi  float64
	ElapsedMin  float64
	MovingMin   float64
	ElapsedPace float64 // min/mile
	MovingPace  float64 // min/mile
	LocalHour   int
	Year        int
	DayOfYear   int
	TimeOfDay   string // "AM" or "PM"
}

// HasPace reports whether both pace fields are finite and usable
// for filtering and modeling.
func (a Activity) HasPace() bool {
	return isFinite(a.MovingPace) && isFinite(a.ElapsedPace)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
