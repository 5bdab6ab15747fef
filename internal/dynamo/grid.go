package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns n evenly spaced points from t0 to t1 inclusive. The last
// point is exactly t1.
func Linspace(t0, t1 float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{t0}
	}
	tt := floats.Span(make([]float64, n), t0, t1)
	tt[n-1] = t1
	return tt
}

// Arange returns t0, t0+dt, ... stopping before t1. dt must point from t0
// towards t1.
func Arange(t0, t1, dt float64) []float64 {
	if dt == 0 || math.IsNaN(dt) || (t1-t0)*dt <= 0 {
		return nil
	}
	n := int(math.Ceil((t1-t0)/dt - 1e-9))
	tt := make([]float64, n)
	for k := range tt {
		tt[k] = t0 + float64(k)*dt
	}
	return tt
}

// ValidateGrid checks that tt is non-empty and strictly increasing or
// strictly decreasing.
func ValidateGrid(tt []float64) error {
	if len(tt) == 0 {
		return ErrEmptyTimeGrid
	}
	if len(tt) == 1 {
		if math.IsNaN(tt[0]) {
			return fmt.Errorf("%w: tt[0] is NaN", ErrNonMonotonicGrid)
		}
		return nil
	}
	dir := tt[1] - tt[0]
	for k := 1; k < len(tt); k++ {
		d := tt[k] - tt[k-1]
		if d == 0 || math.IsNaN(d) || (d > 0) != (dir > 0) {
			return fmt.Errorf("%w: tt[%d]=%g, tt[%d]=%g", ErrNonMonotonicGrid, k-1, tt[k-1], k, tt[k])
		}
	}
	return nil
}
