// Package viz renders trajectories for the terminal.
//
//   - [PlotComponent] and [PlotCompartments]: line charts via asciigraph
//   - [Sparkline]: one-line summary of a time series
//   - [CompartmentColor]: stable colour per compartment label
//
// Styles are lipgloss styles and degrade to plain text when stdout is not a
// terminal.
package viz
