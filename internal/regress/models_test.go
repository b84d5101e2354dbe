package regress

import (
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/jthorne/paceline/internal/models"
)

// syntheticActivities generates records where calories track moving
// duration almost linearly, with enough spread in pace to keep the
// interaction design matrix well conditioned.
func syntheticActivities(n int) []models.Activity {
	out := make([]models.Activity, n)
	for i := 0; i < n; i++ {
		movingMin := 20 + float64(i)*3.5
		pace := 7 + float64(i%5)*0.6
		calories := 20*movingMin - 3*pace + float64(i%3)
		out[i] = models.Activity{
			MovingMin:   movingMin,
			ElapsedMin:  movingMin * 1.1,
			MovingPace:  pace,
			ElapsedPace: pace * 1.2,
			Calories:    sql.NullFloat64{Float64: calories, Valid: true},
		}
	}
	return out
}

func TestFitAllStandardSuite(t *testing.T) {
	full := syntheticActivities(24)
	filtered := full // all synthetic paces are inside the outlier bounds

	fits, err := FitAll(full, filtered)
	if err != nil {
		t.Fatalf("FitAll: %v", err)
	}
	if len(fits) != 7 {
		t.Fatalf("len(fits) = %d, want 7", len(fits))
	}

	// The duration models explain nearly all variance in the synthetic
	// data; the duration slope must be close to the generating value.
	movingFit := fits[0]
	if movingFit.Spec.ID != "cal~moving_min" {
		t.Fatalf("first model = %s, want cal~moving_min", movingFit.Spec.ID)
	}
	if got := movingFit.Fit.Coef("moving_min"); math.Abs(got-20) > 0.5 {
		t.Errorf("moving_min slope = %v, want ~20", got)
	}
	if movingFit.Fit.RSquared < 0.99 {
		t.Errorf("moving_min R² = %v, want > 0.99", movingFit.Fit.RSquared)
	}

	interaction := fits[6]
	if !interaction.Spec.Interaction {
		t.Fatal("seventh model is not the interaction model")
	}
	terms := interaction.Fit.Coefficients
	if len(terms) != 4 {
		t.Fatalf("interaction model has %d terms, want 4 (intercept, t, p, t:p)", len(terms))
	}
	if terms[3].Name != "moving_min:moving_pace" {
		t.Errorf("interaction term name = %q", terms[3].Name)
	}
}

func TestFitModelExcludesUnusableRecords(t *testing.T) {
	records := syntheticActivities(12)
	records = append(records,
		models.Activity{MovingMin: 30, MovingPace: 8}, // no calories
		models.Activity{MovingMin: 30, MovingPace: math.Inf(1), Calories: sql.NullFloat64{Float64: 500, Valid: true}},
	)

	spec := ModelSpec{ID: "cal~moving_pace", Dataset: DatasetFull, Predictors: []Predictor{MovingPace}}
	mf, err := FitModel(spec, records)
	if err != nil {
		t.Fatalf("FitModel: %v", err)
	}
	if mf.Fit.N != 12 {
		t.Errorf("N = %d, want 12 (unusable records excluded)", mf.Fit.N)
	}
}

func TestFitModelDegenerateInput(t *testing.T) {
	tests := []struct {
		name    string
		records []models.Activity
	}{
		{"too few observations", syntheticActivities(2)},
		{
			"constant predictor",
			[]models.Activity{
				record(30, 8, 600), record(30, 7, 650), record(30, 9, 580),
				record(30, 8.5, 610), record(30, 7.5, 640),
			},
		},
	}

	spec := ModelSpec{ID: "cal~moving_min", Dataset: DatasetFull, Predictors: []Predictor{MovingMin}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitModel(spec, tt.records)
			var fe *FitError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v, want *FitError", err)
			}
			if fe.Model != spec.ID {
				t.Errorf("FitError.Model = %q, want %q", fe.Model, spec.ID)
			}
		})
	}
}
