// Package export renders trajectories as standalone SVG charts.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/viz"
)

type SVGOptions struct {
	Width  int
	Height int
	// Components selects state indices; nil draws all of them.
	Components []int
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 400}
}

const margin = 40.0

// TrajectorySVG draws one polyline per component against time on shared axes,
// each in its compartment colour, with a legend in the top left corner.
func TrajectorySVG(w io.Writer, traj *dynamo.Trajectory, labels []string, opts SVGOptions) error {
	if traj.Len() < 2 {
		return fmt.Errorf("need at least two points, got %d", traj.Len())
	}
	dim := len(traj.At(0))

	components := opts.Components
	if components == nil {
		components = make([]int, dim)
		for i := range components {
			components[i] = i
		}
	}
	for _, c := range components {
		if c < 0 || c >= dim {
			return fmt.Errorf("component %d out of range [0, %d)", c, dim)
		}
	}

	minT, maxT := traj.Times[0], traj.Times[traj.Len()-1]
	if minT > maxT {
		minT, maxT = maxT, minT
	}
	minY, maxY := traj.At(0)[components[0]], traj.At(0)[components[0]]
	for _, x := range traj.States {
		for _, c := range components {
			minY, maxY = min(minY, x[c]), max(maxY, x[c])
		}
	}
	rangeT := maxT - minT
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}

	plotW := float64(opts.Width) - 2*margin
	plotH := float64(opts.Height) - 2*margin
	px := func(t float64) int { return int(math.Round(margin + (t-minT)/rangeT*plotW)) }
	py := func(y float64) int { return int(math.Round(margin + plotH - (y-minY)/rangeY*plotH)) }
	left, right := int(margin), int(margin+plotW)
	top, bottom := int(margin), int(margin+plotH)

	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, `fill="#ffffff"`)

	canvas.Gstyle("stroke:#999999;stroke-width:1")
	canvas.Line(left, bottom, right, bottom)
	canvas.Line(left, top, left, bottom)
	canvas.Gend()

	canvas.Gstyle("font-family:sans-serif;font-size:11px;fill:#333333")
	canvas.Text(2, top+4, fmt.Sprintf("%.4g", maxY))
	canvas.Text(2, bottom, fmt.Sprintf("%.4g", minY))
	canvas.Text(left, bottom+16, fmt.Sprintf("%.4g", minT))
	canvas.Text(right, bottom+16, fmt.Sprintf("%.4g", maxT), `text-anchor="end"`)
	canvas.Gend()

	xs := make([]int, traj.Len())
	ys := make([]int, traj.Len())
	for n, c := range components {
		label := fmt.Sprintf("x%d", c)
		if c < len(labels) {
			label = labels[c]
		}
		color := string(viz.CompartmentColor(label))

		for k, x := range traj.States {
			xs[k], ys[k] = px(traj.Times[k]), py(x[c])
		}
		canvas.Polyline(xs, ys, `fill="none"`, fmt.Sprintf(`stroke="%s"`, color), `stroke-width="1.5"`)
		canvas.Text(left+8, top+14*n+10, label,
			`font-family="sans-serif"`, `font-size="11"`, fmt.Sprintf(`fill="%s"`, color))
	}

	canvas.End()
	return bw.Flush()
}
