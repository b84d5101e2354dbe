package report

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jthorne/paceline/internal/models"
	"github.com/jthorne/paceline/internal/regress"
)

func sampleActivities() []models.Activity {
	return []models.Activity{
		{
			StartedAt:    time.Date(2023, 6, 14, 12, 30, 0, 0, time.UTC),
			Name:         "Morning Run",
			ActivityType: "Run",
			DistanceMi:   6.21,
			ElapsedMin:   60,
			MovingMin:    50,
			ElapsedPace:  9.66,
			MovingPace:   8.05,
			LocalHour:    5,
			Year:         2023,
			DayOfYear:    165,
			TimeOfDay:    "AM",
			Calories:     sql.NullFloat64{Float64: 620, Valid: true},
		},
		{
			StartedAt:   time.Date(2023, 6, 15, 6, 0, 0, 0, time.UTC),
			Name:        "Treadmill",
			ElapsedMin:  30,
			MovingMin:   25,
			ElapsedPace: math.Inf(1),
			MovingPace:  math.Inf(1),
			TimeOfDay:   "PM",
		},
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "derived.csv")
	if err := ExportCSV(path, sampleActivities()); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "started_at" {
		t.Errorf("header[0] = %q, want started_at", rows[0][0])
	}

	// Non-finite paces must come out as empty cells, absent calories too.
	paceCol, calCol := -1, -1
	for i, h := range rows[0] {
		switch h {
		case "moving_pace":
			paceCol = i
		case "calories":
			calCol = i
		}
	}
	if paceCol < 0 || calCol < 0 {
		t.Fatalf("header missing pace/calories columns: %v", rows[0])
	}
	if rows[2][paceCol] != "" {
		t.Errorf("zero-distance pace cell = %q, want empty", rows[2][paceCol])
	}
	if rows[2][calCol] != "" {
		t.Errorf("absent calories cell = %q, want empty", rows[2][calCol])
	}
	if rows[1][calCol] != "620.0" {
		t.Errorf("calories cell = %q, want 620.0", rows[1][calCol])
	}
}

func TestWriteComparison(t *testing.T) {
	var buf bytes.Buffer
	WriteComparison(&buf, regress.ComparisonResult{Evaluated: 200, Skipped: 4, SimpleWins: 124, Fraction: 0.62})

	out := buf.String()
	if !strings.Contains(out, "124 of 200") {
		t.Errorf("output missing win counts: %q", out)
	}
	if !strings.Contains(out, "62.0%") {
		t.Errorf("output missing percentage: %q", out)
	}
}

func TestWriteModels(t *testing.T) {
	var buf bytes.Buffer
	fits := []regress.ModelFit{{
		Spec: regress.ModelSpec{ID: "cal~moving_min", Dataset: regress.DatasetFull},
		Fit: &regress.Fit{
			N:        120,
			RSquared: 0.91,
			Coefficients: []regress.Coefficient{
				{Name: "(intercept)", Estimate: 12.5, StdErr: 4.1, TStat: 3.05, PValue: 0.003},
				{Name: "moving_min", Estimate: 19.9, StdErr: 0.4, TStat: 49.75, PValue: 0},
			},
		},
	}}

	WriteModels(&buf, fits)
	out := buf.String()
	if !strings.Contains(out, "cal~moving_min") {
		t.Errorf("output missing model id: %q", out)
	}
	if !strings.Contains(out, "moving_min") || !strings.Contains(out, "19.9000") {
		t.Errorf("output missing coefficient row: %q", out)
	}
}
