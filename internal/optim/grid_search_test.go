package optim

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/corona/internal/config"
	"github.com/san-kum/corona/internal/experiment"
)

func TestNewGridSearchValidates(t *testing.T) {
	_, err := NewGridSearch(nil, nil, 1)
	require.Error(t, err)
	_, err = NewGridSearch([]string{"beta"}, [][]float64{{1}, {2}}, 1)
	require.Error(t, err)
	_, err = NewGridSearch([]string{"beta"}, [][]float64{{}}, 1)
	require.Error(t, err)
}

func TestGridPoints(t *testing.T) {
	g, err := NewGridSearch([]string{"beta", "gamma"}, [][]float64{{0.1, 0.2}, {1, 2, 3}}, 1)
	require.NoError(t, err)

	points := g.Points()
	require.Len(t, points, 6)
	require.Equal(t, map[string]float64{"beta": 0.1, "gamma": 1}, points[0])
	require.Equal(t, map[string]float64{"beta": 0.1, "gamma": 2}, points[1])
	require.Equal(t, map[string]float64{"beta": 0.2, "gamma": 3}, points[5])
}

func TestSearchFindsLowestPeak(t *testing.T) {
	base := config.GetPreset("sir", "flu")
	base.T1, base.Points = 60, 61

	g, err := NewGridSearch([]string{"beta", "gamma"}, [][]float64{{0.3, 0.6}, {0.1, 0.5}}, 2)
	require.NoError(t, err)

	best, all, err := g.Search(context.Background(), base, experiment.NewRegistry(), "peak_infected")
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, map[string]float64{"beta": 0.3, "gamma": 0.5}, best.Params)
	for i := 1; i < len(all); i++ {
		require.LessOrEqual(t, all[i-1].Value, all[i].Value)
	}
}

func TestSearchErrors(t *testing.T) {
	base := config.GetPreset("sir", "flu")
	g, err := NewGridSearch([]string{"beta"}, [][]float64{{0.3}}, 1)
	require.NoError(t, err)

	_, _, err = g.Search(context.Background(), base, experiment.NewRegistry(), "nope")
	require.ErrorContains(t, err, "unknown metric")

	g, err = NewGridSearch([]string{"kappa"}, [][]float64{{0.3}}, 1)
	require.NoError(t, err)
	_, _, err = g.Search(context.Background(), base, experiment.NewRegistry(), "peak_infected")
	require.Error(t, err)
}

func TestLessOrdersNaNLast(t *testing.T) {
	require.True(t, less(1, math.NaN()))
	require.False(t, less(math.NaN(), 1))
	require.True(t, less(1, 2))
}
