package derive

import (
	"github.com/jthorne/paceline/internal/models"
)

// MilesPerMeter converts the raw meter distances to miles.
const MilesPerMeter = 0.000621371

// Clock shift from the export's timestamps to local time. Source hours at
// or below the cutoff belong to the previous local day and wrap forward.
const (
	hourCutoff    = 7
	shiftForward  = 17
	shiftBackward = 7
)

// Derive returns a new slice with all derived fields computed. Input
// records are not mutated. When a record's distance is zero its pace
// fields are +Inf (or NaN when the duration is also zero); such records
// are excluded from filtering, modeling and comparison downstream rather
// than failing the run.
func Derive(activities []models.Activity) []models.Activity {
	out := make([]models.Activity, len(activities))
	for i, a := range activities {
		out[i] = deriveOne(a)
	}
	return out
}

func deriveOne(a models.Activity) models.Activity {
	a.DistanceMi = a.DistanceM * MilesPerMeter
	a.ElapsedMin = a.ElapsedSec / 60
	a.MovingMin = a.MovingSec / 60
	a.ElapsedPace = a.ElapsedMin / a.DistanceMi
	a.MovingPace = a.MovingMin / a.DistanceMi

	a.LocalHour = LocalHour(a.StartedAt.Hour())
	if a.LocalHour < 12 {
		a.TimeOfDay = "AM"
	} else {
		a.TimeOfDay = "PM"
	}

	a.Year = a.StartedAt.Year()
	a.DayOfYear = a.StartedAt.YearDay()

	return a
}

// LocalHour shifts a source hour to the local clock with day wraparound.
// The modulo keeps the cutoff hour itself on the clock (7+17 wraps to 0).
func LocalHour(srcHour int) int {
	if srcHour <= hourCutoff {
		return (srcHour + shiftForward) % 24
	}
	return srcHour - shiftBackward
}

// Outlier bounds in minutes per mile. Records at or above either bound
// are implausible for the runs being modeled and skew the pace fits.
const (
	MaxMovingPace  = 10.0
	MaxElapsedPace = 25.0
)

// FilterOutliers returns the subset of records with plausible paces:
// moving pace < 10 min/mile and elapsed pace < 25 min/mile. Records with
// non-finite paces fail the predicate and are excluded.
func FilterOutliers(activities []models.Activity) []models.Activity {
	var out []models.Activity
	for _, a := range activities {
		if !a.HasPace() {
			continue
		}
		if a.MovingPace < MaxMovingPace && a.ElapsedPace < MaxElapsedPace {
			out = append(out, a)
		}
	}
	return out
}
