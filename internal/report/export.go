package report

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/jthorne/paceline/internal/models"
)

var exportHeader = []string{
	"started_at", "name", "activity_type",
	"distance_mi", "elapsed_min", "moving_min",
	"elapsed_pace", "moving_pace",
	"local_hour", "year", "day_of_year", "time_of_day",
	"calories",
}

// ExportCSV writes the derived dataset for downstream tools.
func ExportCSV(path string, activities []models.Activity) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return err
	}

	for _, a := range activities {
		row := []string{
			a.StartedAt.Format("2006-01-02 15:04:05"),
			a.Name,
			a.ActivityType,
			formatFloat(a.DistanceMi),
			formatFloat(a.ElapsedMin),
			formatFloat(a.MovingMin),
			formatFloat(a.ElapsedPace),
			formatFloat(a.MovingPace),
			strconv.Itoa(a.LocalHour),
			strconv.Itoa(a.Year),
			strconv.Itoa(a.DayOfYear),
			a.TimeOfDay,
			formatNullFloat(a.Calories),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatFloat leaves non-finite paces as empty cells.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatNullFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', 1, 64)
}
