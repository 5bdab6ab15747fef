package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/integrators"
)

var decay = dynamo.DeriveFunc(func(x dynamo.State, t float64) (dynamo.State, error) {
	return dynamo.State{-x[0]}, nil
})

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(x dynamo.State, time float64) {
	t.count++
	t.sum += x[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type recorder struct{ times []float64 }

func (r *recorder) OnStep(x dynamo.State, t float64) { r.times = append(r.times, t) }

func TestRunnerRun(t *testing.T) {
	r := New()
	tt := dynamo.Linspace(0, 1, 11)

	result, err := r.Run(context.Background(), decay, dynamo.State{1.0}, tt, DefaultOptions())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Trajectory.Len() != 11 {
		t.Errorf("expected 11 states, got %d", result.Trajectory.Len())
	}

	final := result.Trajectory.Final()[0]
	if math.Abs(final-math.Exp(-1)) > 1e-4 {
		t.Errorf("expected final state ~%.6f, got %.6f", math.Exp(-1), final)
	}
}

func TestRunnerChunksMatchSingleCall(t *testing.T) {
	tt := dynamo.Linspace(0, 3, 31)
	want, err := integrators.IntegrateOrder(decay, dynamo.State{2}, tt, integrators.Kutta3)
	if err != nil {
		t.Fatal(err)
	}

	for _, chunk := range []int{0, 1, 4, 7, 30, 100} {
		res, err := New().Run(context.Background(), decay, dynamo.State{2}, tt, Options{Order: 3, ChunkSize: chunk})
		if err != nil {
			t.Fatalf("chunk %d: %v", chunk, err)
		}
		if res.Trajectory.Len() != len(tt) {
			t.Fatalf("chunk %d: expected %d rows, got %d", chunk, len(tt), res.Trajectory.Len())
		}
		for k := range tt {
			if res.Trajectory.Times[k] != tt[k] || res.Trajectory.At(k)[0] != want.At(k)[0] {
				t.Fatalf("chunk %d: row %d differs: %v vs %v", chunk, k, res.Trajectory.At(k), want.At(k))
			}
		}
	}
}

func TestRunnerSinglePoint(t *testing.T) {
	res, err := New().Run(context.Background(), decay, dynamo.State{5}, []float64{3}, Options{Order: 4, ChunkSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if res.Trajectory.Len() != 1 || res.Trajectory.At(0)[0] != 5 {
		t.Errorf("unexpected trajectory %v", res.Trajectory.States)
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		tt   []float64
		opts Options
		err  error
	}{
		{"order zero", []float64{0, 1}, Options{Order: 0}, dynamo.ErrUnsupportedOrder},
		{"order five", []float64{0, 1}, Options{Order: 5}, dynamo.ErrUnsupportedOrder},
		{"empty grid", nil, Options{Order: 4}, dynamo.ErrEmptyTimeGrid},
		{"unordered grid", []float64{0, 2, 1}, Options{Order: 4}, dynamo.ErrNonMonotonicGrid},
		{"negative chunk", []float64{0, 1}, Options{Order: 4, ChunkSize: -1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Run(context.Background(), decay, dynamo.State{1}, tt.tt, tt.opts)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestRunnerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	sys := dynamo.DeriveFunc(func(x dynamo.State, t float64) (dynamo.State, error) {
		calls++
		if calls == 8 {
			cancel()
		}
		return dynamo.State{-x[0]}, nil
	})

	res, err := New().Run(ctx, sys, dynamo.State{1}, dynamo.Linspace(0, 10, 101), Options{Order: 4, ChunkSize: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res != nil {
		t.Error("cancelled run should not return a result")
	}
	if calls != 8 {
		t.Errorf("expected integration to stop after the cancelling chunk, got %d calls", calls)
	}
}

func TestRunnerValidateState(t *testing.T) {
	sys := dynamo.DeriveFunc(func(x dynamo.State, t float64) (dynamo.State, error) {
		return dynamo.State{math.Log(x[0] - 0.5)}, nil
	})

	_, err := New().Run(context.Background(), sys, dynamo.State{1}, dynamo.Linspace(0, 5, 51), Options{Order: 4, ValidateState: true})
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected SimulationError wrapping ErrInvalidState, got %v", err)
	}
	if simErr.Step == 0 {
		t.Error("initial state is finite; failure should be reported later")
	}

	res, err := New().Run(context.Background(), sys, dynamo.State{1}, dynamo.Linspace(0, 5, 51), Options{Order: 4})
	if err != nil {
		t.Fatalf("without validation NaN should propagate silently: %v", err)
	}
	if res.Trajectory.Final().IsValid() {
		t.Error("expected a non-finite final state")
	}
}

func TestRunnerMetricsAndObservers(t *testing.T) {
	r := New()
	metric := &testMetric{}
	rec := &recorder{}
	r.AddMetric(metric)
	r.AddObserver(rec)

	tt := dynamo.Linspace(0, 1, 11)
	result, err := r.Run(context.Background(), decay, dynamo.State{1.0}, tt, Options{Order: 4, ChunkSize: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
	if len(rec.times) != 11 || rec.times[10] != 1 {
		t.Errorf("observer saw %v", rec.times)
	}
	if result.Chunks != 4 {
		t.Errorf("expected 4 chunks, got %d", result.Chunks)
	}
}
