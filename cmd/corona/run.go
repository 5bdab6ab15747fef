package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/corona/internal/analysis"
	"github.com/san-kum/corona/internal/config"
	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/experiment"
	"github.com/san-kum/corona/internal/integrators"
	"github.com/san-kum/corona/internal/sim"
	"github.com/san-kum/corona/internal/storage"
	"github.com/san-kum/corona/internal/viz"
)

// buildConfig layers defaults, preset, config file and flags, in that order.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model
	cfg.Order = settings.Order

	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		logger.Printf("using preset %s/%s", model, preset)
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Model != model {
			return nil, fmt.Errorf("config %s is for model %s, not %s", configFile, loaded.Model, model)
		}
		cfg = loaded
		logger.Printf("loaded config %s", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("order") {
		cfg.Order = settings.Order
	}
	if flags.Changed("t0") {
		cfg.T0 = t0
	}
	if flags.Changed("t1") {
		cfg.T1 = t1
	}
	if flags.Changed("points") {
		cfg.Points = points
	}
	if flags.Changed("chunk") {
		cfg.ChunkSize = chunkSize
	}

	params, err := parseAssignments(setParams)
	if err != nil {
		return nil, fmt.Errorf("--set: %w", err)
	}
	if len(params) > 0 && cfg.Params == nil {
		cfg.Params = make(map[string]float64, len(params))
	}
	for name, value := range params {
		cfg.Params[name] = value
	}

	inits, err := parseAssignments(initValues)
	if err != nil {
		return nil, fmt.Errorf("--init: %w", err)
	}
	if len(inits) > 0 && cfg.InitState == nil {
		cfg.InitState = make(map[string]float64, len(inits))
	}
	for label, value := range inits {
		cfg.InitState[label] = value
	}

	return cfg, cfg.Validate()
}

func parseAssignments(items []string) (map[string]float64, error) {
	out := make(map[string]float64, len(items))
	for _, item := range items {
		name, raw, ok := strings.Cut(item, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", item)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = value
	}
	return out, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, registry)
	if err != nil {
		return err
	}
	if settings.Verbose {
		exp.GetRunner().AddObserver(newProgress(cfg.Points))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %s with %s over %d points...\n", cfg.Model, integrators.Order(cfg.Order), cfg.Points)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	logger.Printf("integrated %d rows in %d chunk(s)", result.Trajectory.Len(), result.Chunks)

	fmt.Fprintf(out, "completed in %v\n\n", elapsed)
	if err := printSummary(out, cfg, exp.Model().Labels(), result); err != nil {
		return err
	}

	if noSave {
		return nil
	}

	st := storage.New(settings.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Model:   cfg.Model,
		Order:   cfg.Order,
		T0:      cfg.T0,
		T1:      cfg.T1,
		Points:  cfg.Points,
		Date0:   cfg.Date0,
		Labels:  exp.Model().Labels(),
		Params:  exp.Model().Params(),
		Metrics: result.Metrics,
	}, result.Trajectory)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nrun id: %s\n", runID)
	return nil
}

func printSummary(out io.Writer, cfg *config.Config, labels []string, result *sim.Result) error {
	fmt.Fprintln(out, viz.HeaderStyle.Render("compartments"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMIN\tMAX\tPEAK AT\tFINAL\tTREND")
	for i, s := range analysis.Summarize(result.Trajectory, labels) {
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%s\t%.6g\t%s\n",
			s.Label, s.Min, s.Max, formatTime(cfg, s.PeakTime), s.Final,
			viz.Sparkline(result.Trajectory.Component(i), 24))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(result.Metrics) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.HeaderStyle.Render("metrics"))
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", viz.KeyValue(name, strconv.FormatFloat(result.Metrics[name], 'g', 6, 64)))
	}
	return nil
}

// formatTime shows t as a calendar day when the config has a start date.
func formatTime(cfg *config.Config, t float64) string {
	if cfg.Date0 == "" {
		return strconv.FormatFloat(t, 'g', 6, 64)
	}
	d0, err := time.Parse(config.DateLayout, cfg.Date0)
	if err != nil {
		return strconv.FormatFloat(t, 'g', 6, 64)
	}
	return d0.Add(time.Duration((t - cfg.T0) * float64(24*time.Hour))).Format(config.DateLayout)
}

// progress logs roughly every tenth of the grid.
type progress struct {
	total, seen, next int
}

func newProgress(total int) *progress {
	return &progress{total: total, next: 1}
}

func (p *progress) OnStep(x dynamo.State, t float64) {
	p.seen++
	if p.seen < p.next {
		return
	}
	logger.Printf("t=%-10.4g %3.0f%%", t, 100*float64(p.seen)/float64(p.total))
	p.next += max(p.total/10, 1)
}
