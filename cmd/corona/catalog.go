package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/corona/internal/config"
	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/viz"
)

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Fprintf(out, "no presets for model: %s\n", args[0])
		return nil
	}
	fmt.Fprintf(out, "presets for %s:\n", args[0])
	for _, p := range presets {
		cfg := config.GetPreset(args[0], p)
		fmt.Fprintf(out, "  %-10s t=%g..%g, %d points\n", p, cfg.T0, cfg.T1, cfg.Points)
	}
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tDIM\tCOMPARTMENTS\tPARAMETERS\tEXACT")

	for _, name := range registry.ListModels() {
		m, err := registry.GetModel(name)
		if err != nil {
			return err
		}

		labels := make([]string, len(m.Labels()))
		for i, l := range m.Labels() {
			labels[i] = viz.Label(l)
		}

		params := m.Params()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%g", k, params[k])
		}

		exact := ""
		if _, ok := m.(dynamo.Solvable); ok {
			exact = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			name, m.StateDim(), strings.Join(labels, ","), strings.Join(pairs, " "), exact)
	}
	return w.Flush()
}
