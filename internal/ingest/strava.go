package ingest

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jthorne/paceline/internal/models"
)

// timeLayout matches the activity date format of the Strava bulk export.
const timeLayout = "Jan 2, 2006, 3:04:05 PM"

// LoadError reports an unreadable source file or a mapped column that is
// absent from the header. The load never partially recovers.
type LoadError struct {
	Path   string
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("load %s: column %q: %v", e.Path, e.Column, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var errColumnMissing = fmt.Errorf("not found in header")

// ColumnRef names a source column by header text plus occurrence index,
// because the export repeats header names ("Elapsed Time" and "Distance"
// each appear twice with different units).
type ColumnRef struct {
	Name       string
	Occurrence int
}

// FieldMap resolves each logical field to a concrete source column.
type FieldMap struct {
	Date          ColumnRef
	Name          ColumnRef
	Type          ColumnRef
	Description   ColumnRef
	ElapsedTime   ColumnRef
	MovingTime    ColumnRef
	Distance      ColumnRef
	MaxSpeed      ColumnRef
	ElevationGain ColumnRef
	ElevationLoss ColumnRef
	ElevationLow  ColumnRef
	ElevationHigh ColumnRef
	MaxGrade      ColumnRef
	AvgGrade      ColumnRef
	Calories      ColumnRef
}

// StravaFields is the default mapping for the Strava activities.csv export.
// The second occurrences of Elapsed Time and Distance are the second-
// and meter-denominated columns; the first occurrences carry display units.
func StravaFields() FieldMap {
	return FieldMap{
		Date:          ColumnRef{Name: "Activity Date"},
		Name:          ColumnRef{Name: "Activity Name"},
		Type:          ColumnRef{Name: "Activity Type"},
		Description:   ColumnRef{Name: "Activity Description"},
		ElapsedTime:   ColumnRef{Name: "Elapsed Time", Occurrence: 1},
		MovingTime:    ColumnRef{Name: "Moving Time"},
		Distance:      ColumnRef{Name: "Distance", Occurrence: 1},
		MaxSpeed:      ColumnRef{Name: "Max Speed"},
		ElevationGain: ColumnRef{Name: "Elevation Gain"},
		ElevationLoss: ColumnRef{Name: "Elevation Loss"},
		ElevationLow:  ColumnRef{Name: "Elevation Low"},
		ElevationHigh: ColumnRef{Name: "Elevation High"},
		MaxGrade:      ColumnRef{Name: "Max Grade"},
		AvgGrade:      ColumnRef{Name: "Average Grade"},
		Calories:      ColumnRef{Name: "Calories"},
	}
}

// LoadCSV reads the export at path and returns one Activity per row,
// source fields only. Derived fields are filled by the derive package.
func LoadCSV(path string, fm FieldMap) ([]models.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("read header: %w", err)}
	}

	cols, err := resolveColumns(header, fm)
	if err != nil {
		le := err.(*LoadError)
		le.Path = path
		return nil, le
	}

	var activities []models.Activity
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("line %d: %w", line, err)}
		}

		a, err := parseRow(row, cols)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		activities = append(activities, a)
	}

	return activities, nil
}

// columnIndexes holds the resolved positional index for each mapped field.
type columnIndexes struct {
	date, name, typ, desc                 int
	elapsed, moving, distance, maxSpeed   int
	elevGain, elevLoss, elevLow, elevHigh int
	maxGrade, avgGrade, calories          int
}

func resolveColumns(header []string, fm FieldMap) (columnIndexes, error) {
	var ci columnIndexes
	var err error
	resolve := func(ref ColumnRef, dst *int) {
		if err != nil {
			return
		}
		seen := 0
		for i, h := range header {
			if strings.TrimSpace(h) == ref.Name {
				if seen == ref.Occurrence {
					*dst = i
					return
				}
				seen++
			}
		}
		err = &LoadError{Column: ref.Name, Err: errColumnMissing}
	}

	resolve(fm.Date, &ci.date)
	resolve(fm.Name, &ci.name)
	resolve(fm.Type, &ci.typ)
	resolve(fm.Description, &ci.desc)
	resolve(fm.ElapsedTime, &ci.elapsed)
	resolve(fm.MovingTime, &ci.moving)
	resolve(fm.Distance, &ci.distance)
	resolve(fm.MaxSpeed, &ci.maxSpeed)
	resolve(fm.ElevationGain, &ci.elevGain)
	resolve(fm.ElevationLoss, &ci.elevLoss)
	resolve(fm.ElevationLow, &ci.elevLow)
	resolve(fm.ElevationHigh, &ci.elevHigh)
	resolve(fm.MaxGrade, &ci.maxGrade)
	resolve(fm.AvgGrade, &ci.avgGrade)
	resolve(fm.Calories, &ci.calories)
	if err != nil {
		return columnIndexes{}, err
	}
	return ci, nil
}

func parseRow(row []string, ci columnIndexes) (models.Activity, error) {
	var a models.Activity

	startedAt, err := time.Parse(timeLayout, field(row, ci.date))
	if err != nil {
		return a, fmt.Errorf("activity date: %w", err)
	}
	a.StartedAt = startedAt
	a.Name = field(row, ci.name)
	a.ActivityType = field(row, ci.typ)
	a.Description = field(row, ci.desc)

	if a.ElapsedSec, err = parseFloat(field(row, ci.elapsed), "elapsed time"); err != nil {
		return a, err
	}
	if a.MovingSec, err = parseFloat(field(row, ci.moving), "moving time"); err != nil {
		return a, err
	}
	if a.DistanceM, err = parseFloat(field(row, ci.distance), "distance"); err != nil {
		return a, err
	}

	a.MaxSpeed = parseNullFloat(field(row, ci.maxSpeed))
	a.ElevationGain = parseNullFloat(field(row, ci.elevGain))
	a.ElevationLoss = parseNullFloat(field(row, ci.elevLoss))
	a.ElevationLow = parseNullFloat(field(row, ci.elevLow))
	a.ElevationHigh = parseNullFloat(field(row, ci.elevHigh))
	a.MaxGrade = parseNullFloat(field(row, ci.maxGrade))
	a.AvgGrade = parseNullFloat(field(row, ci.avgGrade))
	a.Calories = parseNullFloat(field(row, ci.calories))

	return a, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloat(s, what string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return v, nil
}

func parseNullFloat(s string) sql.NullFloat64 {
	if s == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
