package report

import (
	"fmt"
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/jthorne/paceline/internal/models"
)

type activityParquetRow struct {
	StartedAt   string  `parquet:"name=started_at, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name        string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Type        string  `parquet:"name=activity_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DistanceMi  float64 `parquet:"name=distance_mi, type=DOUBLE"`
	ElapsedMin  float64 `parquet:"name=elapsed_min, type=DOUBLE"`
	MovingMin   float64 `parquet:"name=moving_min, type=DOUBLE"`
	ElapsedPace float64 `parquet:"name=elapsed_pace, type=DOUBLE"`
	MovingPace  float64 `parquet:"name=moving_pace, type=DOUBLE"`
	LocalHour   int32   `parquet:"name=local_hour, type=INT32"`
	Year        int32   `parquet:"name=year, type=INT32"`
	DayOfYear   int32   `parquet:"name=day_of_year, type=INT32"`
	TimeOfDay   string  `parquet:"name=time_of_day, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Calories    float64 `parquet:"name=calories, type=DOUBLE"`
	HasCalories bool    `parquet:"name=has_calories, type=BOOLEAN"`
}

// ExportParquet writes the derived dataset as snappy-compressed parquet.
// Absent calories and non-finite paces are written as NaN with the
// has_calories flag carrying presence.
func ExportParquet(path string, activities []models.Activity) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(activityParquetRow), 4)
	if err != nil {
		return fmt.Errorf("parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, a := range activities {
		row := activityParquetRow{
			StartedAt:   a.StartedAt.Format("2006-01-02 15:04:05"),
			Name:        a.Name,
			Type:        a.ActivityType,
			DistanceMi:  a.DistanceMi,
			ElapsedMin:  a.ElapsedMin,
			MovingMin:   a.MovingMin,
			ElapsedPace: a.ElapsedPace,
			MovingPace:  a.MovingPace,
			LocalHour:   int32(a.LocalHour),
			Year:        int32(a.Year),
			DayOfYear:   int32(a.DayOfYear),
			TimeOfDay:   a.TimeOfDay,
			Calories:    math.NaN(),
			HasCalories: a.Calories.Valid,
		}
		if a.Calories.Valid {
			row.Calories = a.Calories.Float64
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("write row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet: %w", err)
	}
	return nil
}
