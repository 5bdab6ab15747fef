package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/corona/internal/analysis"
	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/export"
	"github.com/san-kum/corona/internal/storage"
	"github.com/san-kum/corona/internal/viz"
)

func loadRun(runID string) (*storage.RunMetadata, *dynamo.Trajectory, error) {
	st := storage.New(settings.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, traj, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(settings.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tORDER\tSPAN\tPOINTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g..%g\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Order,
			run.T0, run.T1,
			run.Points,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if traj.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.KeyValue("run", meta.ID))
	fmt.Fprintln(out, viz.KeyValue("model", meta.Model))
	fmt.Fprintln(out, viz.KeyValue("samples", fmt.Sprint(traj.Len())))
	fmt.Fprintln(out)

	opts := viz.PlotOptions{Width: width, Height: height, MaxPoints: 4 * width, Color: color}

	if component >= 0 {
		label := fmt.Sprintf("x%d", component)
		if component < len(meta.Labels) {
			label = meta.Labels[component]
		}
		graph, err := viz.PlotComponent(traj, component, label, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, graph)
		return nil
	}

	indices := make([]int, len(traj.At(0)))
	for i := range indices {
		indices[i] = i
	}
	graph, err := viz.PlotCompartments(traj, indices, meta.Labels, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, graph)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.NewPhasePortrait(traj, xAxis, yAxis)
	if portrait == nil {
		return fmt.Errorf("state dimension too small for selected axes")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "phase plane: %s\n", meta.ID)
	fmt.Fprintf(out, "x-axis: %s, y-axis: %s\n\n", axisLabel(meta, xAxis), axisLabel(meta, yAxis))
	fmt.Fprint(out, analysis.PhasePortraitToASCII(portrait, 70, 20))
	first, last := portrait.Points[0], portrait.Points[len(portrait.Points)-1]
	fmt.Fprintf(out, "\nstart (%.4g, %.4g)  end (%.4g, %.4g)\n", first.X, first.Y, last.X, last.Y)
	return nil
}

func axisLabel(meta *storage.RunMetadata, i int) string {
	if i < len(meta.Labels) {
		return meta.Labels[i]
	}
	return fmt.Sprintf("x%d", i)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if traj.Len() == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.ExportCSV(cmd.OutOrStdout(), traj, meta.Labels)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), *meta, traj)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	opts := export.DefaultSVGOptions()
	opts.Width, opts.Height = svgWidth, svgHeight
	return export.TrajectorySVG(cmd.OutOrStdout(), traj, meta.Labels, opts)
}
