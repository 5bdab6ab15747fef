package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/corona/internal/dynamo"
)

func sirLike() *dynamo.Trajectory {
	tt := dynamo.Linspace(0, 10, 11)
	traj := &dynamo.Trajectory{Times: tt, Shape: []int{3}}
	for _, t := range tt {
		traj.States = append(traj.States, dynamo.State{100 - 5*t, 5 * t * (10 - t) / 10, 5 * t * t / 10})
	}
	return traj
}

func TestTrajectorySVG(t *testing.T) {
	var buf bytes.Buffer
	err := TrajectorySVG(&buf, sirLike(), []string{"Susceptible", "Infected", "Recovered"}, DefaultSVGOptions())
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("output is not a complete svg document")
	}
	if n := strings.Count(out, "<polyline"); n != 3 {
		t.Errorf("expected 3 polylines, got %d", n)
	}
	if !strings.Contains(out, `stroke="#f0027f"`) {
		t.Error("infected series should use its compartment colour")
	}
	if !strings.Contains(out, ">Recovered</text>") {
		t.Error("legend entry missing")
	}
}

func TestTrajectorySVGComponents(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultSVGOptions()
	opts.Components = []int{1}
	if err := TrajectorySVG(&buf, sirLike(), nil, opts); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "<polyline"); n != 1 {
		t.Errorf("expected 1 polyline, got %d", n)
	}
	if !strings.Contains(buf.String(), ">x1</text>") {
		t.Error("missing fallback label")
	}

	opts.Components = []int{3}
	if err := TrajectorySVG(&buf, sirLike(), nil, opts); err == nil {
		t.Error("expected out of range error")
	}
}

func TestTrajectorySVGTooShort(t *testing.T) {
	traj := &dynamo.Trajectory{Times: []float64{0}, States: []dynamo.State{{1}}}
	if err := TrajectorySVG(&bytes.Buffer{}, traj, nil, DefaultSVGOptions()); err == nil {
		t.Error("expected error for a single point")
	}
}
