package sim

import "github.com/san-kum/corona/internal/dynamo"

// Metric accumulates a scalar over the rows of a trajectory.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x dynamo.State, t float64)
}

type Options struct {
	Order int
	// ChunkSize is the number of steps integrated between context checks;
	// zero integrates the whole grid in one call.
	ChunkSize int
	// ValidateState rejects NaN or Inf after every chunk.
	ValidateState bool
}

func DefaultOptions() Options {
	return Options{Order: 4, ChunkSize: 500, ValidateState: true}
}

type Result struct {
	Trajectory *dynamo.Trajectory
	Metrics    map[string]float64
	Chunks     int
}
