package regress

import (
	"errors"

	"github.com/jthorne/paceline/internal/models"
)

var errInteractionArity = errors.New("interaction model needs two predictors")

// Dataset selects which record set a model is fitted on.
type Dataset string

const (
	DatasetFull     Dataset = "full"
	DatasetFiltered Dataset = "filtered"
)

// Predictor extracts one model term from a record.
type Predictor struct {
	Name  string
	Value func(models.Activity) float64
}

var (
	MovingMin   = Predictor{Name: "moving_min", Value: func(a models.Activity) float64 { return a.MovingMin }}
	ElapsedMin  = Predictor{Name: "elapsed_min", Value: func(a models.Activity) float64 { return a.ElapsedMin }}
	MovingPace  = Predictor{Name: "moving_pace", Value: func(a models.Activity) float64 { return a.MovingPace }}
	ElapsedPace = Predictor{Name: "elapsed_pace", Value: func(a models.Activity) float64 { return a.ElapsedPace }}
)

// ModelSpec is one calories regression to fit.
type ModelSpec struct {
	ID          string
	Dataset     Dataset
	Predictors  []Predictor
	Interaction bool // include the product of the first two predictors
}

// StandardModels is the fixed comparison suite: single-predictor duration
// and pace models on the full dataset, pace models refit on the
// outlier-filtered subset, and a duration-by-pace interaction model.
func StandardModels() []ModelSpec {
	return []ModelSpec{
		{ID: "cal~moving_min", Dataset: DatasetFull, Predictors: []Predictor{MovingMin}},
		{ID: "cal~elapsed_min", Dataset: DatasetFull, Predictors: []Predictor{ElapsedMin}},
		{ID: "cal~moving_pace", Dataset: DatasetFull, Predictors: []Predictor{MovingPace}},
		{ID: "cal~elapsed_pace", Dataset: DatasetFull, Predictors: []Predictor{ElapsedPace}},
		{ID: "cal~moving_pace/filtered", Dataset: DatasetFiltered, Predictors: []Predictor{MovingPace}},
		{ID: "cal~elapsed_pace/filtered", Dataset: DatasetFiltered, Predictors: []Predictor{ElapsedPace}},
		{ID: "cal~moving_min*moving_pace/filtered", Dataset: DatasetFiltered, Predictors: []Predictor{MovingMin, MovingPace}, Interaction: true},
	}
}

// ModelFit pairs a spec with its completed fit.
type ModelFit struct {
	Spec ModelSpec
	Fit  *Fit
}

// FitModel fits one spec against the given records. Records without a
// calories value or with a non-finite required predictor are excluded.
func FitModel(spec ModelSpec, records []models.Activity) (ModelFit, error) {
	var y []float64
	cols := make([][]float64, len(spec.Predictors))
	names := make([]string, len(spec.Predictors))
	for i, p := range spec.Predictors {
		names[i] = p.Name
	}

	for _, a := range records {
		if !a.Calories.Valid {
			continue
		}
		vals := make([]float64, len(spec.Predictors))
		usable := true
		for i, p := range spec.Predictors {
			vals[i] = p.Value(a)
			if !finite(vals[i]) {
				usable = false
				break
			}
		}
		if !usable {
			continue
		}
		y = append(y, a.Calories.Float64)
		for i := range cols {
			cols[i] = append(cols[i], vals[i])
		}
	}

	if spec.Interaction {
		if len(spec.Predictors) < 2 {
			return ModelFit{}, &FitError{Model: spec.ID, Err: errInteractionArity}
		}
		inter := make([]float64, len(y))
		for i := range inter {
			inter[i] = cols[0][i] * cols[1][i]
		}
		cols = append(cols, inter)
		names = append(names, names[0]+":"+names[1])
	}

	fit, err := OLS(y, cols, names)
	if err != nil {
		if fe, ok := err.(*FitError); ok {
			fe.Model = spec.ID
		}
		return ModelFit{}, err
	}
	return ModelFit{Spec: spec, Fit: fit}, nil
}

// FitAll fits the standard suite, routing each spec to the full or
// filtered dataset. Any single failure aborts the run.
func FitAll(full, filtered []models.Activity) ([]ModelFit, error) {
	specs := StandardModels()
	fits := make([]ModelFit, 0, len(specs))
	for _, spec := range specs {
		records := full
		if spec.Dataset == DatasetFiltered {
			records = filtered
		}
		mf, err := FitModel(spec, records)
		if err != nil {
			return nil, err
		}
		fits = append(fits, mf)
	}
	return fits, nil
}
