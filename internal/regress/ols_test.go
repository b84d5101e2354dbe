package regress

import (
	"errors"
	"math"
	"testing"
)

func TestOLSExactLine(t *testing.T) {
	// y = 2 + 3x exactly; coefficients must be recovered to numerical
	// precision and R² must be 1.
	x := []float64{1, 2, 3, 4, 5, 6}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2 + 3*v
	}

	fit, err := OLS(y, [][]float64{x}, []string{"x"})
	if err != nil {
		t.Fatalf("OLS: %v", err)
	}

	if got := fit.Coef("(intercept)"); math.Abs(got-2) > 1e-9 {
		t.Errorf("intercept = %v, want 2", got)
	}
	if got := fit.Coef("x"); math.Abs(got-3) > 1e-9 {
		t.Errorf("slope = %v, want 3", got)
	}
	if math.Abs(fit.RSquared-1) > 1e-9 {
		t.Errorf("R² = %v, want 1", fit.RSquared)
	}
	if fit.N != len(x) {
		t.Errorf("N = %d, want %d", fit.N, len(x))
	}
}

func TestOLSMatchesClosedForm(t *testing.T) {
	// Noisy data; compare against the closed-form simple-regression
	// solution computed independently below.
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2.1, 4.3, 5.9, 8.2, 9.8, 12.3, 13.9, 16.2}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}
	wantSlope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	wantIntercept := (sumY - wantSlope*sumX) / n

	fit, err := OLS(y, [][]float64{x}, []string{"x"})
	if err != nil {
		t.Fatalf("OLS: %v", err)
	}

	if got := fit.Coef("x"); relDiff(got, wantSlope) > 1e-6 {
		t.Errorf("slope = %v, want %v", got, wantSlope)
	}
	if got := fit.Coef("(intercept)"); relDiff(got, wantIntercept) > 1e-6 {
		t.Errorf("intercept = %v, want %v", got, wantIntercept)
	}

	// A strong linear trend must come out significant.
	slope := fit.Coefficients[1]
	if slope.PValue > 0.001 {
		t.Errorf("slope p-value = %v, want < 0.001", slope.PValue)
	}
	if slope.StdErr <= 0 {
		t.Errorf("slope std err = %v, want > 0", slope.StdErr)
	}
}

func TestOLSTwoPredictorsWithInteraction(t *testing.T) {
	// y = 10 + 2a + 3b + 0.5ab, generated exactly.
	a := []float64{1, 2, 3, 4, 5, 6, 7, 2, 5}
	b := []float64{3, 1, 4, 1, 5, 9, 2, 6, 3}
	ab := make([]float64, len(a))
	y := make([]float64, len(a))
	for i := range a {
		ab[i] = a[i] * b[i]
		y[i] = 10 + 2*a[i] + 3*b[i] + 0.5*ab[i]
	}

	fit, err := OLS(y, [][]float64{a, b, ab}, []string{"a", "b", "a:b"})
	if err != nil {
		t.Fatalf("OLS: %v", err)
	}

	wants := map[string]float64{
		"(intercept)": 10,
		"a":           2,
		"b":           3,
		"a:b":         0.5,
	}
	for name, want := range wants {
		if got := fit.Coef(name); math.Abs(got-want) > 1e-8 {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}

func TestOLSTooFewObservations(t *testing.T) {
	_, err := OLS([]float64{1, 2}, [][]float64{{1, 2}}, []string{"x"})
	var fe *FitError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FitError", err)
	}
}

func TestOLSConstantPredictor(t *testing.T) {
	// A constant predictor column is collinear with the intercept.
	y := []float64{1, 2, 3, 4, 5}
	x := []float64{2, 2, 2, 2, 2}

	_, err := OLS(y, [][]float64{x}, []string{"x"})
	var fe *FitError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FitError for singular design", err)
	}
}

func relDiff(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
