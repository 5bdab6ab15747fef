package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/corona/internal/dynamo"
)

type ExportData struct {
	Model   string             `json:"model"`
	Order   int                `json:"order"`
	Labels  []string           `json:"labels"`
	Shape   []int              `json:"shape"`
	Steps   int                `json:"steps"`
	Times   []float64          `json:"times"`
	States  [][]float64        `json:"states"`
	Params  map[string]float64 `json:"params,omitempty"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

func ExportJSON(w io.Writer, meta RunMetadata, traj *dynamo.Trajectory) error {
	data := ExportData{
		Model:   meta.Model,
		Order:   meta.Order,
		Labels:  columnLabels(traj, meta.Labels),
		Shape:   traj.Dims(),
		Steps:   traj.Len(),
		Times:   traj.Times,
		States:  make([][]float64, traj.Len()),
		Params:  meta.Params,
		Metrics: meta.Metrics,
	}
	for i, s := range traj.States {
		data.States[i] = s
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes a "time,<label>..." header and one row per time point.
func ExportCSV(w io.Writer, traj *dynamo.Trajectory, labels []string) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, columnLabels(traj, labels)...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, s := range traj.States {
		row := make([]string, 0, len(s)+1)
		row = append(row, strconv.FormatFloat(traj.Times[i], 'g', -1, 64))
		for _, v := range s {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func columnLabels(traj *dynamo.Trajectory, labels []string) []string {
	n := 0
	if traj.Len() > 0 {
		n = len(traj.At(0))
	} else if len(traj.Shape) == 1 {
		n = traj.Shape[0]
	}
	out := make([]string, n)
	for i := range out {
		if i < len(labels) {
			out[i] = labels[i]
		} else {
			out[i] = fmt.Sprintf("x%d", i)
		}
	}
	return out
}
