package ingest

import "github.com/jthorne/paceline/internal/models"

const (
	FlagDistanceNegative  = "distance_negative"
	FlagDistanceZero      = "distance_zero"
	FlagElapsedNegative   = "elapsed_negative"
	FlagMovingNegative    = "moving_negative"
	FlagMovingOverElapsed = "moving_over_elapsed"
	FlagCaloriesNegative  = "calories_negative"
	FlagGradeImplausible  = "grade_implausible"
)

// Validate returns plausibility flags for a loaded record. Flags are
// informational; the loader never drops records.
func Validate(a models.Activity) []string {
	var flags []string

	if a.DistanceM < 0 {
		flags = append(flags, FlagDistanceNegative)
	} else if a.DistanceM == 0 {
		flags = append(flags, FlagDistanceZero)
	}

	if a.ElapsedSec < 0 {
		flags = append(flags, FlagElapsedNegative)
	}
	if a.MovingSec < 0 {
		flags = append(flags, FlagMovingNegative)
	}
	if a.MovingSec > a.ElapsedSec {
		flags = append(flags, FlagMovingOverElapsed)
	}

	if a.Calories.Valid && a.Calories.Float64 < 0 {
		flags = append(flags, FlagCaloriesNegative)
	}

	if a.MaxGrade.Valid {
		if a.MaxGrade.Float64 < -100 || a.MaxGrade.Float64 > 100 {
			flags = append(flags, FlagGradeImplausible)
		}
	}

	return flags
}
