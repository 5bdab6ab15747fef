package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/corona/internal/dynamo"
)

type CompartmentSummary struct {
	Label    string
	Min      float64
	Max      float64
	PeakTime float64
	Final    float64
}

// Summarize reports extremes per state entry. Missing labels fall back to x0, x1, ...
func Summarize(traj *dynamo.Trajectory, labels []string) []CompartmentSummary {
	if traj == nil || traj.Len() == 0 {
		return nil
	}

	n := len(traj.At(0))
	out := make([]CompartmentSummary, n)
	for i := 0; i < n; i++ {
		series := traj.Component(i)
		label := fmt.Sprintf("x%d", i)
		if i < len(labels) {
			label = labels[i]
		}
		peak := floats.MaxIdx(series)
		out[i] = CompartmentSummary{
			Label:    label,
			Min:      floats.Min(series),
			Max:      series[peak],
			PeakTime: traj.Times[peak],
			Final:    series[len(series)-1],
		}
	}
	return out
}
