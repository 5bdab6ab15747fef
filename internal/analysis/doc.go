// Package analysis inspects trajectories produced by the integrators.
//
// The package includes:
//
//   - [Convergence]: global error and empirical order of a method against a
//     closed-form solution
//   - [Summarize]: per-compartment extremes and final values
//   - [NewPhasePortrait]: two compartments plotted against each other
//
// # Order Verification
//
// Halving the step of an order-p method shrinks the global error by about
// 2^p, so the observed order of successive rows should approach p:
//
//	rows, _ := analysis.Convergence(models.NewGrowth(), x0, 0, 1, integrators.RK4, analysis.HalvingSteps(16, 4))
//	fmt.Println(rows[len(rows)-1].Observed) // ~4
package analysis
