package dynamo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Trajectory holds one state per time point: States[k] is the state at Times[k].
type Trajectory struct {
	Times  []float64
	States []State
	// Shape is the logical shape of a single state; its product equals the
	// state length.
	Shape []int
}

func (tr *Trajectory) Len() int { return len(tr.States) }

func (tr *Trajectory) At(k int) State { return tr.States[k] }

func (tr *Trajectory) Final() State {
	if len(tr.States) == 0 {
		return nil
	}
	return tr.States[len(tr.States)-1]
}

// Dims returns (len(Times),) + Shape.
func (tr *Trajectory) Dims() []int {
	return append([]int{tr.Len()}, tr.Shape...)
}

// WithShape sets the logical state shape, rejecting shapes that do not cover
// the state length exactly.
func (tr *Trajectory) WithShape(shape ...int) error {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return fmt.Errorf("%w: negative extent in shape %v", ErrDimensionMismatch, shape)
		}
		n *= d
	}
	if tr.Len() > 0 && n != len(tr.States[0]) {
		return fmt.Errorf("%w: shape %v holds %d entries, state has %d", ErrDimensionMismatch, shape, n, len(tr.States[0]))
	}
	tr.Shape = append([]int(nil), shape...)
	return nil
}

// Component returns the time series of state entry i.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		if i < len(s) {
			out[k] = s[i]
		}
	}
	return out
}

// Dense copies the trajectory into a len(Times) x len(state) matrix.
func (tr *Trajectory) Dense() *mat.Dense {
	if tr.Len() == 0 || len(tr.States[0]) == 0 {
		return &mat.Dense{}
	}
	cols := len(tr.States[0])
	data := make([]float64, 0, tr.Len()*cols)
	for _, s := range tr.States {
		data = append(data, s...)
	}
	return mat.NewDense(tr.Len(), cols, data)
}
