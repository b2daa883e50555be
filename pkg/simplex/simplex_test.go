package simplex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandwich-gate/complexity/pkg/simplex"
	"github.com/sandwich-gate/complexity/pkg/types"
)

func TestNormalizeSumsToOne(t *testing.T) {
	point := simplex.Normalize(types.RawTriple{Bread: 30, Cheese: 50, Ham: 20})
	require.InDelta(t, 1.0, point.Bread+point.Cheese+point.Ham, 1e-9)
	require.InDelta(t, 0.3, point.Bread, 1e-9)
	require.InDelta(t, 0.5, point.Cheese, 1e-9)
	require.InDelta(t, 0.2, point.Ham, 1e-9)
}

func TestNormalizeZeroTotalFallsBackToThirds(t *testing.T) {
	point := simplex.Normalize(types.RawTriple{})
	require.InDelta(t, 1.0/3.0, point.Bread, 1e-9)
	require.InDelta(t, 1.0/3.0, point.Cheese, 1e-9)
	require.InDelta(t, 1.0/3.0, point.Ham, 1e-9)
}

func TestComputeDeviationSignAndDistance(t *testing.T) {
	point := types.SimplexPoint{Bread: 0.5, Cheese: 0.3, Ham: 0.2}
	canonical := types.SimplexPoint{Bread: 0.3, Cheese: 0.3, Ham: 0.4}

	dev := simplex.ComputeDeviation(point, canonical)
	require.InDelta(t, 0.2, dev.Bread, 1e-9)
	require.InDelta(t, 0.0, dev.Cheese, 1e-9)
	require.InDelta(t, -0.2, dev.Ham, 1e-9)
	require.Greater(t, dev.EuclideanDistance, 0.0)
}

func TestEquilibriumWithinTolerance(t *testing.T) {
	dev := types.Deviation{Bread: 0.05, Cheese: -0.05, Ham: 0.02}
	result := simplex.Equilibrium(dev, simplex.DefaultEquilibriumTolerance)
	require.True(t, result.InEquilibrium)
}

func TestEquilibriumOutsideTolerance(t *testing.T) {
	dev := types.Deviation{Bread: 0.5, Cheese: 0, Ham: -0.5}
	result := simplex.Equilibrium(dev, simplex.DefaultEquilibriumTolerance)
	require.False(t, result.InEquilibrium)
}

func TestLabelDominantAxis(t *testing.T) {
	result := simplex.Label(types.SimplexPoint{Bread: 0.6, Cheese: 0.2, Ham: 0.2}, simplex.DefaultBalancedTolerance)
	require.Equal(t, types.LabelBread, result.Label)
	require.Greater(t, result.Confidence, 0.0)
}

func TestLabelTieBreaksTowardBread(t *testing.T) {
	result := simplex.Label(types.SimplexPoint{Bread: 0.5, Cheese: 0.5, Ham: 0.0}, 0)
	require.Equal(t, types.LabelBread, result.Label)
}

func TestLabelBalancedWhenSpreadSmall(t *testing.T) {
	result := simplex.Label(types.SimplexPoint{Bread: 0.34, Cheese: 0.33, Ham: 0.33}, simplex.DefaultBalancedTolerance)
	require.Equal(t, types.LabelBalanced, result.Label)
	require.Equal(t, 1.0, result.Confidence)
}

func TestLabelConfidenceBoundedByOne(t *testing.T) {
	result := simplex.Label(types.SimplexPoint{Bread: 1.0, Cheese: 0.0, Ham: 0.0}, simplex.DefaultBalancedTolerance)
	require.LessOrEqual(t, result.Confidence, 1.0)
	require.Greater(t, result.Confidence, 0.0)
}
