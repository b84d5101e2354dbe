package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// FitError reports degenerate regression input: fewer observations than
// free parameters, or a singular design matrix (e.g. a constant predictor).
type FitError struct {
	Model string
	Err   error
}

func (e *FitError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("fit %s: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("fit: %v", e.Err)
}

func (e *FitError) Unwrap() error { return e.Err }

// Coefficient is one fitted term with its inference statistics.
type Coefficient struct {
	Name     string
	Estimate float64
	StdErr   float64
	TStat    float64
	PValue   float64
}

// Fit is a completed ordinary-least-squares fit.
type Fit struct {
	Coefficients []Coefficient
	N            int
	RSquared     float64
	AdjRSquared  float64
	ResidualSE   float64
}

// Coef returns the estimate for the named term, or NaN if absent.
func (f *Fit) Coef(name string) float64 {
	for _, c := range f.Coefficients {
		if c.Name == name {
			return c.Estimate
		}
	}
	return math.NaN()
}

// OLS fits y = b0 + b1*x1 + ... with an implicit intercept. predictors is
// column-major: one slice per term, each of length len(y). Solved by QR
// decomposition of the design matrix.
func OLS(y []float64, predictors [][]float64, names []string) (*Fit, error) {
	if len(predictors) != len(names) {
		return nil, &FitError{Err: fmt.Errorf("%d predictors but %d names", len(predictors), len(names))}
	}
	n := len(y)
	p := len(predictors) + 1 // including intercept
	if n <= p {
		return nil, &FitError{Err: fmt.Errorf("%d observations for %d parameters", n, p)}
	}
	for i, col := range predictors {
		if len(col) != n {
			return nil, &FitError{Err: fmt.Errorf("predictor %s has %d values, want %d", names[i], len(col), n)}
		}
	}

	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j, col := range predictors {
			X.Set(i, j+1, col[i])
		}
	}
	yv := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(X)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yv); err != nil {
		return nil, &FitError{Err: fmt.Errorf("singular design matrix: %w", err)}
	}

	// Residuals and sums of squares.
	var fitted mat.VecDense
	fitted.MulVec(X, &beta)

	meanY := 0.0
	for _, v := range y {
		meanY += v
	}
	meanY /= float64(n)

	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		ssRes += r * r
		d := y[i] - meanY
		ssTot += d * d
	}

	dof := float64(n - p)
	sigma2 := ssRes / dof

	// Coefficient covariance: sigma^2 * (X'X)^-1.
	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, &FitError{Err: fmt.Errorf("singular design matrix: %w", err)}
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}

	coeffs := make([]Coefficient, p)
	termNames := append([]string{"(intercept)"}, names...)
	for j := 0; j < p; j++ {
		est := beta.AtVec(j)
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		t := est / se
		coeffs[j] = Coefficient{
			Name:     termNames[j],
			Estimate: est,
			StdErr:   se,
			TStat:    t,
			PValue:   2 * tdist.Survival(math.Abs(t)),
		}
	}

	fit := &Fit{
		Coefficients: coeffs,
		N:            n,
		ResidualSE:   math.Sqrt(sigma2),
	}
	if ssTot > 0 {
		fit.RSquared = 1 - ssRes/ssTot
		fit.AdjRSquared = 1 - (1-fit.RSquared)*float64(n-1)/dof
	}
	return fit, nil
}
