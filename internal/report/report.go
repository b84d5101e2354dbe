package report

import (
	"fmt"
	"io"

	"github.com/jthorne/paceline/internal/models"
	"github.com/jthorne/paceline/internal/regress"
)

// WriteModels writes the per-model coefficient tables.
func WriteModels(w io.Writer, fits []regress.ModelFit) {
	for _, mf := range fits {
		fmt.Fprintf(w, "Model: %s  (dataset=%s, n=%d)\n", mf.Spec.ID, mf.Spec.Dataset, mf.Fit.N)
		fmt.Fprintf(w, "  %-24s | %12s | %10s | %8s | %8s\n", "Term", "Estimate", "Std Err", "t", "p")
		fmt.Fprintf(w, "  -------------------------+--------------+------------+----------+---------\n")
		for _, c := range mf.Fit.Coefficients {
			fmt.Fprintf(w, "  %-24s | %12.4f | %10.4f | %8.3f | %8.4f\n",
				c.Name, c.Estimate, c.StdErr, c.TStat, c.PValue)
		}
		fmt.Fprintf(w, "  R² = %.4f  adjusted R² = %.4f  residual SE = %.2f\n\n",
			mf.Fit.RSquared, mf.Fit.AdjRSquared, mf.Fit.ResidualSE)
	}
}

// WriteComparison writes the frozen-coefficient comparison summary.
func WriteComparison(w io.Writer, res regress.ComparisonResult) {
	fmt.Fprintf(w, "Frozen-coefficient model comparison\n")
	fmt.Fprintf(w, "  evaluated: %d  skipped: %d\n", res.Evaluated, res.Skipped)
	fmt.Fprintf(w, "  simple model closer: %d of %d (%.1f%%)\n",
		res.SimpleWins, res.Evaluated, res.Fraction*100)
}

// WriteSummary writes dataset counts ahead of the model tables.
func WriteSummary(w io.Writer, full, filtered []models.Activity) {
	withCalories := 0
	zeroDistance := 0
	for _, a := range full {
		if a.Calories.Valid {
			withCalories++
		}
		if a.DistanceM == 0 {
			zeroDistance++
		}
	}
	fmt.Fprintf(w, "Loaded %d activities (%d with calories, %d zero-distance)\n", len(full), withCalories, zeroDistance)
	fmt.Fprintf(w, "Outlier-filtered subset: %d activities\n\n", len(filtered))
}
