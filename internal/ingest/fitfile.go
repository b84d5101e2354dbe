package ingest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tormoder/fit"

	"github.com/jthorne/paceline/internal/models"
)

// LoadFIT decodes a single .fit activity file into one Activity record so
// device files can be appended to a CSV-sourced dataset. Only the first
// session message is used.
func LoadFIT(path string) (models.Activity, error) {
	var a models.Activity

	f, err := os.Open(path)
	if err != nil {
		return a, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return a, &LoadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	activity, err := decoded.Activity()
	if err != nil {
		return a, &LoadError{Path: path, Err: fmt.Errorf("not an activity file: %w", err)}
	}
	if len(activity.Sessions) == 0 {
		return a, &LoadError{Path: path, Err: fmt.Errorf("no session message")}
	}
	session := activity.Sessions[0]

	a.StartedAt = session.StartTime
	a.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	a.ActivityType = fmt.Sprint(session.Sport)
	a.ElapsedSec = session.GetTotalElapsedTimeScaled()
	a.MovingSec = session.GetTotalMovingTimeScaled()
	if a.MovingSec == 0 {
		a.MovingSec = session.GetTotalTimerTimeScaled()
	}
	if a.MovingSec == 0 {
		a.MovingSec = a.ElapsedSec
	}
	a.DistanceM = session.GetTotalDistanceScaled()

	if v := session.GetMaxSpeedScaled(); v > 0 {
		a.MaxSpeed = sql.NullFloat64{Float64: v, Valid: true}
	}
	if session.TotalAscent != 0xFFFF {
		a.ElevationGain = sql.NullFloat64{Float64: float64(session.TotalAscent), Valid: true}
	}
	if session.TotalDescent != 0xFFFF {
		a.ElevationLoss = sql.NullFloat64{Float64: float64(session.TotalDescent), Valid: true}
	}
	if session.TotalCalories != 0xFFFF {
		a.Calories = sql.NullFloat64{Float64: float64(session.TotalCalories), Valid: true}
	}

	return a, nil
}
