package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/corona/internal/config"
	"github.com/san-kum/corona/internal/experiment"
)

var (
	v        *viper.Viper
	settings *config.Settings
	registry *experiment.Registry
	logger   = log.New(io.Discard, "corona: ", log.Ltime)

	// run
	configFile string
	preset     string
	t0         float64
	t1         float64
	points     int
	chunkSize  int
	setParams  []string
	initValues []string
	noSave     bool
	// plot
	component int
	color     bool
	width     int
	height    int
	// export-svg
	svgWidth  int
	svgHeight int
	// phase
	xAxis int
	yAxis int
	// convergence
	convT1    float64
	baseSteps int
	levels    int
	// sweep
	sweepParam  string
	sweepValues []float64
	sweepRange  string
	// search
	gridSpecs []string
	minimize  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v = config.NewViper()
	registry = experiment.NewRegistry()

	rootCmd := &cobra.Command{
		Use:          "corona",
		Short:        "compartment epidemic models on fixed-step Runge-Kutta",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			settings, err = config.LoadSettings(v)
			if err != nil {
				return err
			}
			if settings.Verbose {
				logger.SetOutput(cmd.ErrOrStderr())
			} else {
				logger.SetOutput(io.Discard)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("data-dir", v.GetString("data_dir"), "run storage directory (env CORONA_DATA_DIR)")
	pf.Int("order", v.GetInt("order"), "Runge-Kutta order 1-4 (env CORONA_ORDER)")
	pf.Int("workers", v.GetInt("workers"), "parallel sweep workers, 0 for GOMAXPROCS (env CORONA_WORKERS)")
	pf.BoolP("verbose", "v", v.GetBool("verbose"), "log progress to stderr (env CORONA_VERBOSE)")
	_ = v.BindPFlag("data_dir", pf.Lookup("data-dir"))
	_ = v.BindPFlag("order", pf.Lookup("order"))
	_ = v.BindPFlag("workers", pf.Lookup("workers"))
	_ = v.BindPFlag("verbose", pf.Lookup("verbose"))

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&chunkSize, "chunk", 0, "steps per chunk between cancellation checks")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without storing the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&component, "component", -1, "plot a single state index, -1 overlays all")
	plotCmd.Flags().BoolVar(&color, "color", false, "colour series by compartment")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 12, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plane plot of two state entries",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run chart to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [order1] [order2] ...",
		Short: "compare Runge-Kutta orders on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareOrders,
	}
	addScenarioFlags(compareCmd)

	convergenceCmd := &cobra.Command{
		Use:   "convergence [model]",
		Short: "measure the empirical order against the exact solution",
		Args:  cobra.ExactArgs(1),
		RunE:  convergenceStudy,
	}
	convergenceCmd.Flags().Float64Var(&convT1, "t1", 1, "end time")
	convergenceCmd.Flags().IntVar(&baseSteps, "steps", 8, "step count of the coarsest grid")
	convergenceCmd.Flags().IntVar(&levels, "levels", 5, "number of step halvings")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run one model over a range of parameter values in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParameter,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to vary")
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", nil, "comma separated parameter values")
	sweepCmd.Flags().StringVar(&sweepRange, "range", "", "evenly spaced values as min:max:count")
	_ = sweepCmd.MarkFlagRequired("param")
	sweepCmd.MarkFlagsMutuallyExclusive("values", "range")
	sweepCmd.MarkFlagsOneRequired("values", "range")

	searchCmd := &cobra.Command{
		Use:   "search [model]",
		Short: "grid search parameters for the run minimising a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  searchGrid,
	}
	addScenarioFlags(searchCmd)
	searchCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	searchCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "parameter grid name=v1,v2,... (repeatable)")
	searchCmd.Flags().StringVar(&minimize, "minimize", "peak_infected", "metric to minimise")
	_ = searchCmd.MarkFlagRequired("grid")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run and store every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models with their compartments and parameters",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		compareCmd, convergenceCmd, sweepCmd, searchCmd, batchCmd, presetsCmd, modelsCmd)

	return rootCmd
}

// addScenarioFlags registers the flags that shape a single integration.
func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	cmd.Flags().Float64Var(&t1, "t1", config.DefaultT1, "end time")
	cmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of time points")
	cmd.Flags().StringArrayVar(&setParams, "set", nil, "model parameter name=value (repeatable)")
	cmd.Flags().StringArrayVar(&initValues, "init", nil, "initial compartment label=value (repeatable)")
}
