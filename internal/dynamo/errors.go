package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration.
var (
	// ErrUnsupportedOrder indicates a Runge-Kutta order outside 1..4.
	ErrUnsupportedOrder = errors.New("dynamo: unsupported runge-kutta order")

	// ErrDimensionMismatch indicates a derivative whose length differs from the state.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and derivative")

	// ErrEmptyTimeGrid indicates a time sequence with no points.
	ErrEmptyTimeGrid = errors.New("dynamo: time grid has no points")

	// ErrNonMonotonicGrid indicates repeated points or a direction change in the time grid.
	ErrNonMonotonicGrid = errors.New("dynamo: time grid is not strictly monotonic")

	// ErrInvalidState indicates NaN or Inf in a state vector.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParam indicates a parameter name the system does not define.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")
)

// UnsupportedOrderError reports the rejected order value.
type UnsupportedOrderError struct {
	Order int
}

func (e *UnsupportedOrderError) Error() string {
	return fmt.Sprintf("dynamo: unsupported runge-kutta order %d (want 1..4)", e.Order)
}

func (e *UnsupportedOrderError) Is(target error) bool {
	return target == ErrUnsupportedOrder
}

// SimulationError wraps an error with the grid position where it was detected.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
