// Package simplex normalizes raw analyzer triples onto the 2-simplex and
// computes canonical deviation, equilibrium, and the dominant-axis label,
// per spec.md §4.6.
package simplex

import (
	"math"

	"github.com/sandwich-gate/complexity/pkg/types"
)

// DefaultEquilibriumTolerance is ε_eq.
const DefaultEquilibriumTolerance = 0.1

// DefaultBalancedTolerance is ε_bal.
const DefaultBalancedTolerance = 0.05

// Normalize maps a raw triple onto the 2-simplex, falling back to
// (⅓,⅓,⅓) when bread+cheese+ham = 0.
func Normalize(raw types.RawTriple) types.SimplexPoint {
	total := raw.Bread + raw.Cheese + raw.Ham
	if total == 0 {
		return types.SimplexPoint{Bread: 1.0 / 3.0, Cheese: 1.0 / 3.0, Ham: 1.0 / 3.0}
	}
	return types.SimplexPoint{
		Bread:  raw.Bread / total,
		Cheese: raw.Cheese / total,
		Ham:    raw.Ham / total,
	}
}

// ComputeDeviation computes the elementwise signed difference of point against
// canonical plus the Euclidean distance between them.
func ComputeDeviation(point, canonical types.SimplexPoint) types.Deviation {
	db := point.Bread - canonical.Bread
	dc := point.Cheese - canonical.Cheese
	dh := point.Ham - canonical.Ham
	return types.Deviation{
		Bread:             db,
		Cheese:            dc,
		Ham:               dh,
		EuclideanDistance: math.Sqrt(db*db + dc*dc + dh*dh),
	}
}

// Equilibrium reports whether every component of dev is within tolerance
// of zero.
func Equilibrium(dev types.Deviation, tolerance float64) types.EquilibriumResult {
	if tolerance <= 0 {
		tolerance = DefaultEquilibriumTolerance
	}
	inEq := math.Abs(dev.Bread) <= tolerance &&
		math.Abs(dev.Cheese) <= tolerance &&
		math.Abs(dev.Ham) <= tolerance
	return types.EquilibriumResult{InEquilibrium: inEq, Tolerance: tolerance}
}

// Label returns the dominant-axis label of point, breaking ties in axis
// order bread > cheese > ham, with "balanced" emitted when max − min is
// within balancedTolerance.
func Label(point types.SimplexPoint, balancedTolerance float64) types.LabelResult {
	if balancedTolerance <= 0 {
		balancedTolerance = DefaultBalancedTolerance
	}
	values := []float64{point.Bread, point.Cheese, point.Ham}
	labels := []types.DominantLabel{types.LabelBread, types.LabelCheese, types.LabelHam}

	max, min := values[0], values[0]
	maxIdx := 0
	for i, v := range values {
		if v > max {
			max = v
			maxIdx = i
		}
		if v < min {
			min = v
		}
	}

	if max-min <= balancedTolerance {
		return types.LabelResult{Label: types.LabelBalanced, Confidence: 1.0}
	}

	sorted := append([]float64(nil), values...)
	sortAsc(sorted)
	median := sorted[1]

	confidence := 0.0
	if max != 0 {
		confidence = (max - median) / max
	}

	return types.LabelResult{Label: labels[maxIdx], Confidence: confidence}
}

func sortAsc(v []float64) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j-1] > v[j]; j-- {
			v[j-1], v[j] = v[j], v[j-1]
		}
	}
}
