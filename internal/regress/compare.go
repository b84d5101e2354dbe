package regress

import (
	"math"

	"github.com/jthorne/paceline/internal/models"
)

// FrozenCoefficients is a fixed model snapshot applied to current data.
// The per-record comparison deliberately does not re-fit: the reported
// fraction is a function of these constants and the input records only,
// so it reproduces exactly across runs.
type FrozenCoefficients struct {
	// Interaction model: Intercept + Time*t + Pace*p + TimePace*t*p
	Intercept float64
	Time      float64
	Pace      float64
	TimePace  float64
	// Single-predictor model through the origin: SimpleSlope*t
	SimpleSlope float64
}

// DefaultFrozen is the historical fit snapshot the comparison is defined
// against.
func DefaultFrozen() FrozenCoefficients {
	return FrozenCoefficients{
		Intercept:   18.3325,
		Time:        42.1752,
		Pace:        -0.8559,
		TimePace:    -2.8583,
		SimpleSlope: 19.9026,
	}
}

// InteractionPredict evaluates the frozen interaction model at moving
// duration t (minutes) and moving pace p (min/mile).
func (c FrozenCoefficients) InteractionPredict(t, p float64) float64 {
	return c.Intercept + c.Time*t + c.Pace*p + c.TimePace*t*p
}

// SimplePredict evaluates the frozen duration-only model at t.
func (c FrozenCoefficients) SimplePredict(t float64) float64 {
	return c.SimpleSlope * t
}

// RecordComparison is one record's head-to-head result.
type RecordComparison struct {
	Activity        models.Activity
	SimplePred      float64
	InteractionPred float64
	SimpleErr       float64
	InteractionErr  float64
	SimpleWins      bool // interaction absolute error exceeded the simple model's
}

// ComparisonResult aggregates the per-record comparison over a dataset.
type ComparisonResult struct {
	Records    []RecordComparison
	Evaluated  int
	Skipped    int // no calories value, or non-finite pace
	SimpleWins int
	Fraction   float64 // SimpleWins / Evaluated
}

// Compare runs the frozen-coefficient comparison over every usable record.
// Records without an observed calories value, or whose moving pace is
// non-finite, are skipped and counted in neither the numerator nor the
// denominator. Deterministic for fixed input and coefficients.
func Compare(records []models.Activity, coef FrozenCoefficients) ComparisonResult {
	res := ComparisonResult{}
	for _, a := range records {
		if !a.Calories.Valid || !finite(a.MovingPace) {
			res.Skipped++
			continue
		}

		rc := RecordComparison{Activity: a}
		rc.SimplePred = coef.SimplePredict(a.MovingMin)
		rc.InteractionPred = coef.InteractionPredict(a.MovingMin, a.MovingPace)
		rc.SimpleErr = math.Abs(rc.SimplePred - a.Calories.Float64)
		rc.InteractionErr = math.Abs(rc.InteractionPred - a.Calories.Float64)
		rc.SimpleWins = rc.InteractionErr > rc.SimpleErr

		res.Records = append(res.Records, rc)
		res.Evaluated++
		if rc.SimpleWins {
			res.SimpleWins++
		}
	}
	if res.Evaluated > 0 {
		res.Fraction = float64(res.SimpleWins) / float64(res.Evaluated)
	}
	return res
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
