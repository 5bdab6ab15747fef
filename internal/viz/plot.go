package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/corona/internal/dynamo"
)

type PlotOptions struct {
	Width  int
	Height int
	// MaxPoints downsamples long trajectories; zero keeps every row.
	MaxPoints int
	Color     bool
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 10, MaxPoints: 400}
}

// PlotComponent charts one state entry against time.
func PlotComponent(traj *dynamo.Trajectory, index int, label string, opts PlotOptions) (string, error) {
	if traj.Len() == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	if index < 0 || index >= len(traj.At(0)) {
		return "", fmt.Errorf("component %d out of range [0, %d)", index, len(traj.At(0)))
	}

	data := downsample(traj.Component(index), opts.MaxPoints)
	caption := fmt.Sprintf("%s vs time (t=%g..%g)", label, traj.Times[0], traj.Times[traj.Len()-1])

	graphOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	}
	if opts.Color {
		graphOpts = append(graphOpts, asciigraph.SeriesColors(seriesColor(label)))
	}
	return asciigraph.Plot(data, graphOpts...), nil
}

// PlotCompartments overlays several components in one chart. Each series
// keeps its compartment colour when opts.Color is set.
func PlotCompartments(traj *dynamo.Trajectory, indices []int, labels []string, opts PlotOptions) (string, error) {
	if traj.Len() == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	if len(indices) == 0 {
		return "", fmt.Errorf("no components selected")
	}

	series := make([][]float64, len(indices))
	colors := make([]asciigraph.AnsiColor, len(indices))
	names := make([]string, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(traj.At(0)) {
			return "", fmt.Errorf("component %d out of range [0, %d)", idx, len(traj.At(0)))
		}
		series[i] = downsample(traj.Component(idx), opts.MaxPoints)
		names[i] = labelAt(labels, idx)
		colors[i] = seriesColor(names[i])
	}

	graphOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(strings.Join(names, ", ")),
	}
	if opts.Color {
		graphOpts = append(graphOpts, asciigraph.SeriesColors(colors...))
	}
	return asciigraph.PlotMany(series, graphOpts...), nil
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("x%d", i)
}

// downsample keeps the first and last points and strides evenly between them.
func downsample(data []float64, maxPoints int) []float64 {
	if maxPoints <= 1 || len(data) <= maxPoints {
		return data
	}
	out := make([]float64, maxPoints)
	last := len(data) - 1
	for i := range out {
		out[i] = data[i*last/(maxPoints-1)]
	}
	return out
}
