package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/corona/internal/analysis"
	"github.com/san-kum/corona/internal/automation"
	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/experiment"
	"github.com/san-kum/corona/internal/integrators"
	"github.com/san-kum/corona/internal/optim"
	"github.com/san-kum/corona/internal/sim"
	"github.com/san-kum/corona/internal/storage"
	"github.com/san-kum/corona/internal/viz"
)

func compareOrders(cmd *cobra.Command, args []string) error {
	model := args[0]

	orders := make([]integrators.Order, 0, len(args)-1)
	for _, arg := range args[1:] {
		o, err := integrators.ParseOrder(arg)
		if err != nil {
			return err
		}
		orders = append(orders, o)
	}

	cfg, err := buildConfig(cmd, model)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, registry)
	if err != nil {
		return err
	}

	tt := cfg.TimeGrid()
	x0 := exp.InitialState()
	labels := exp.Model().Labels()

	finals := make([]dynamo.State, len(orders))
	evals := make([]int, len(orders))
	elapsed := make([]time.Duration, len(orders))
	for i, o := range orders {
		counted := dynamo.DeriveFunc(func(x dynamo.State, t float64) (dynamo.State, error) {
			evals[i]++
			return exp.Model().Derive(x, t)
		})

		start := time.Now()
		traj, err := integrators.IntegrateOrder(counted, x0, tt, o)
		if err != nil {
			return fmt.Errorf("%s: %w", o, err)
		}
		elapsed[i] = time.Since(start)
		finals[i] = traj.Final()
	}

	// The highest order listed is the reference.
	ref := 0
	for i, o := range orders {
		if o > orders[ref] {
			ref = i
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing orders on %s over %d points\n\n", model, len(tt))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ORDER\tEVALS\tTIME\t%s\tDIFF VS %s\n", strings.ToUpper(strings.Join(labels, "\t")), orders[ref])
	for i, o := range orders {
		cols := make([]string, len(finals[i]))
		for j, v := range finals[i] {
			cols[j] = fmt.Sprintf("%.6g", v)
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%s\t%.3e\n",
			o, evals[i], elapsed[i].Round(time.Microsecond), strings.Join(cols, "\t"),
			finals[i].Sub(finals[ref]).Norm())
	}
	return w.Flush()
}

func convergenceStudy(cmd *cobra.Command, args []string) error {
	m, err := registry.GetModel(args[0])
	if err != nil {
		return err
	}
	sys, ok := m.(dynamo.Solvable)
	if !ok {
		return fmt.Errorf("model %s has no closed-form solution (try decay, growth, oscillator or constant)", args[0])
	}
	if baseSteps < 1 || levels < 1 {
		return fmt.Errorf("--steps and --levels must be positive")
	}
	if !analysis.FitsConvergenceBudget(baseSteps, levels) {
		return fmt.Errorf("--steps %d with --levels %d needs more than %d steps on the finest grid", baseSteps, levels, analysis.MaxConvergenceSteps)
	}

	order := integrators.Order(settings.Order)
	rows, err := analysis.Convergence(sys, m.DefaultState(), 0, convT1, order, analysis.HalvingSteps(baseSteps, levels))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s on %s, t in [0, %g]\n\n", order, args[0], convT1)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tDT\tERROR\tOBSERVED ORDER")
	for _, row := range rows {
		observed := "-"
		if !math.IsNaN(row.Observed) {
			observed = fmt.Sprintf("%.3f", row.Observed)
		}
		fmt.Fprintf(w, "%d\t%.4g\t%.3e\t%s\n", row.Steps, row.Dt, row.Error, observed)
	}
	return w.Flush()
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if sweepRange != "" {
		sweep, err := parseRange(sweepParam, sweepRange)
		if err != nil {
			return err
		}
		if sweepValues, err = sweep.Values(); err != nil {
			return err
		}
	}
	if len(sweepValues) == 0 {
		return fmt.Errorf("--values must list at least one value")
	}

	jobs := make([]sim.Job, 0, len(sweepValues))
	for _, value := range sweepValues {
		c := cfg.Clone()
		if c.Params == nil {
			c.Params = make(map[string]float64, 1)
		}
		c.Params[sweepParam] = value

		exp, err := experiment.New(c, registry)
		if err != nil {
			return err
		}
		jobs = append(jobs, exp.Job(fmt.Sprintf("%s=%g", sweepParam, value)))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := runEnsemble(ctx, cfg.Order, cfg.ChunkSize, cfg.ValidateState, jobs)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(results[0].Metrics))
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(strings.Join(names, "\t")))
	for i, res := range results {
		cols := make([]string, len(names))
		for j, name := range names {
			cols[j] = fmt.Sprintf("%.6g", res.Metrics[name])
		}
		fmt.Fprintf(w, "%g\t%s\n", sweepValues[i], strings.Join(cols, "\t"))
	}
	return w.Flush()
}

func parseRange(param, spec string) (automation.ParameterSweep, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return automation.ParameterSweep{}, fmt.Errorf("--range: expected min:max:count, got %q", spec)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	n, err3 := strconv.Atoi(parts[2])
	if err := errors.Join(err1, err2, err3); err != nil {
		return automation.ParameterSweep{}, fmt.Errorf("--range: %w", err)
	}
	return automation.ParameterSweep{Param: param, Min: lo, Max: hi, Steps: n}, nil
}

func searchGrid(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	names := make([]string, 0, len(gridSpecs))
	ranges := make([][]float64, 0, len(gridSpecs))
	for _, spec := range gridSpecs {
		name, raw, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return fmt.Errorf("--grid: expected name=v1,v2,..., got %q", spec)
		}
		var values []float64
		for _, field := range strings.Split(raw, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("--grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := optim.NewGridSearch(names, ranges, settings.Workers)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	best, all, err := g.Search(ctx, cfg, registry, minimize)
	if err != nil {
		return err
	}
	logger.Printf("evaluated %d grid points in %v", len(all), time.Since(start))

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(minimize))
	for _, e := range all {
		cols := make([]string, len(names))
		for i, name := range names {
			cols[i] = fmt.Sprintf("%g", e.Params[name])
		}
		fmt.Fprintf(w, "%s\t%.6g\n", strings.Join(cols, "\t"), e.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = fmt.Sprintf("%s=%g", name, best.Params[name])
	}
	fmt.Fprintf(out, "\n%s\n", viz.KeyValue("best", strings.Join(pairs, " ")))
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(settings.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	if scenario.Name != "" {
		fmt.Fprintln(out, viz.Title.Render(scenario.Name))
	}

	results, err := automation.RunScenario(ctx, scenario, registry, st, logger)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tROWS")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\n", r.Name, r.RunID, r.Result.Trajectory.Len())
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runEnsemble(ctx context.Context, order, chunk int, validate bool, jobs []sim.Job) ([]*sim.Result, error) {
	opts := sim.Options{Order: order, ChunkSize: chunk, ValidateState: validate}
	ens := sim.NewEnsemble(opts, settings.Workers)

	start := time.Now()
	results, err := ens.Run(ctx, jobs)
	if err != nil {
		return nil, err
	}
	logger.Printf("ran %d jobs in %v", len(jobs), time.Since(start))
	return results, nil
}
