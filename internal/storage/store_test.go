package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/corona/internal/dynamo"
)

func sampleTrajectory() *dynamo.Trajectory {
	return &dynamo.Trajectory{
		Times:  []float64{0.0, 0.1, 0.2},
		States: []dynamo.State{{1.0, 0.0}, {0.9, 0.1 + 0.2}, {math.Exp(-1), math.Pi}},
		Shape:  []int{2},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	traj := sampleTrajectory()
	runID, err := st.Save(RunMetadata{
		Model:   "sir",
		Order:   4,
		T1:      0.2,
		Labels:  []string{"Susceptible", "Infected"},
		Metrics: map[string]float64{"peak_infected": 1.5},
	}, traj)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "sir_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Model != "sir" || meta.Order != 4 || meta.Points != 3 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["peak_infected"] != 1.5 {
		t.Errorf("expected metric 1.5, got %f", meta.Metrics["peak_infected"])
	}

	loaded, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("expected 3 states, got %d", loaded.Len())
	}
	for k := range traj.States {
		if loaded.Times[k] != traj.Times[k] {
			t.Errorf("time %d: %v != %v", k, loaded.Times[k], traj.Times[k])
		}
		for i := range traj.States[k] {
			if loaded.At(k)[i] != traj.At(k)[i] {
				t.Errorf("state %d[%d] not recovered exactly: %v != %v", k, i, loaded.At(k)[i], traj.At(k)[i])
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Model: "seir"}, sampleTrajectory()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(st.baseDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(st.baseDir, "broken"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids should be unique")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Model: "decay"}, sampleTrajectory())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "states.csv"} {
		if _, err := os.Stat(filepath.Join(st.baseDir, runID, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestLoadTrajectoryRejectsCorruptRows(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Model: "decay"}, sampleTrajectory())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(st.baseDir, runID, "states.csv")
	if err := os.WriteFile(path, []byte("time,x0\n0,abc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadTrajectory(runID); err == nil {
		t.Error("expected parse error")
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, sampleTrajectory(), []string{"S"}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(lines))
	}
	if lines[0] != "time,S,x1" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "0,1,0" {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{Model: "sir", Order: 3, Labels: []string{"S", "I"}}
	if err := ExportJSON(&buf, meta, sampleTrajectory()); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Steps != 3 || data.Order != 3 || len(data.States) != 3 {
		t.Errorf("unexpected export %+v", data)
	}
	if len(data.Shape) != 2 || data.Shape[0] != 3 || data.Shape[1] != 2 {
		t.Errorf("unexpected shape %v", data.Shape)
	}
}
