package forest

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Score holds regression accuracy on a hold-out set.
type Score struct {
	MAE  float64
	RMSE float64
	R2   float64
}

// Evaluate compares predictions against actual values. R2 is 0 when the
// actual values are constant.
func Evaluate(actual, predicted []float64) Score {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return Score{}
	}
	var abs, sq float64
	for i := range actual {
		d := predicted[i] - actual[i]
		abs += math.Abs(d)
		sq += d * d
	}
	n := float64(len(actual))
	r2 := stat.RSquaredFrom(predicted, actual, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}
	return Score{MAE: abs / n, RMSE: math.Sqrt(sq / n), R2: r2}
}
