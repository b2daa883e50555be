// Package recommend implements the gradient refactoring recommender of
// spec.md §4.7.
package recommend

import (
	"math"

	"github.com/sandwich-gate/complexity/pkg/types"
)

// DefaultMaxRecommendations is K.
const DefaultMaxRecommendations = 3

// action is one entry of a fixed (axis, direction) action table.
type action struct {
	name   string
	reason string
}

var breadActions = map[string][]action{
	"increase": {
		{"Add explicit trust boundary", "No TRUST_BOUNDARY marker found near sensitive operations"},
		{"Declare auth flow explicitly", "Authorization is implicit; add an AUTH_FLOW declaration"},
	},
	"decrease": {
		{"Extract security logic into a dedicated module", "Security concerns are entangled with business logic"},
	},
}

var cheeseActions = map[string][]action{
	"increase": {
		{"Add explicit error handling", "Edge cases are handled implicitly or not at all"},
	},
	"decrease": {
		{"Flatten nesting via early return", "Nesting depth exceeds the recommended bound"},
		{"Extract function", "Concept count per function exceeds Miller's Law bound"},
		{"Name complex conditions", "Inline boolean expressions should be bound to named variables"},
	},
}

var hamActions = map[string][]action{
	"increase": {
		{"Add golden tests for critical paths", "Critical paths lack golden-test coverage"},
		{"Add contract tests", "Public API surface lacks contract-level tests"},
	},
	"decrease": {
		{"Remove duplicate tests", "Test surface has grown beyond what the behavior warrants"},
	},
}

// deviationTolerance is the minimum |deviation| an axis needs to surface a
// recommendation, per spec.md §4.7.
const deviationTolerance = 0.1

// sarImpact is the fixed expected impact of resolving an SAR violation.
const sarImpact = -20.0

// SuggestRefactor produces at most maxRecommendations prioritized
// recommendations for point relative to canonical. sar may be nil when no
// cheese report is available.
func SuggestRefactor(point, canonical types.SimplexPoint, equilibrium types.EquilibriumResult, sar *types.StateAsyncRetry, maxRecommendations int) []types.Recommendation {
	if maxRecommendations <= 0 {
		maxRecommendations = DefaultMaxRecommendations
	}

	var out []types.Recommendation

	if sar != nil && sar.Violated {
		out = append(out, types.Recommendation{
			Axis:               types.AxisCheese,
			Priority:           0,
			Action:             "Separate state×async×retry",
			Reason:             "Cognitive invariant violation: state, async, and retry may not co-occur unseparated",
			ExpectedImpact:     map[string]float64{"cheese": sarImpact},
			TargetsEquilibrium: true,
		})
	}

	if equilibrium.InEquilibrium {
		return out
	}

	type dev struct {
		axis      types.Axis
		delta     float64
		direction string
	}
	devs := []dev{
		{types.AxisBread, point.Bread - canonical.Bread, directionFor(point.Bread, canonical.Bread)},
		{types.AxisCheese, point.Cheese - canonical.Cheese, directionFor(point.Cheese, canonical.Cheese)},
		{types.AxisHam, point.Ham - canonical.Ham, directionFor(point.Ham, canonical.Ham)},
	}

	for i := 0; i < len(devs); i++ {
		for j := i + 1; j < len(devs); j++ {
			if math.Abs(devs[j].delta) > math.Abs(devs[i].delta) {
				devs[i], devs[j] = devs[j], devs[i]
			}
		}
	}

	priority := len(out) + 1
	for _, d := range devs {
		if len(out) >= maxRecommendations {
			break
		}
		if math.Abs(d.delta) < deviationTolerance {
			continue
		}
		actions := actionsFor(d.axis, d.direction)
		if len(actions) == 0 {
			continue
		}
		act := actions[0]
		impact := math.Abs(d.delta) * 100
		if d.direction == "decrease" {
			impact = -impact
		}
		out = append(out, types.Recommendation{
			Axis:               d.axis,
			Priority:           priority,
			Action:             act.name,
			Reason:             act.reason,
			ExpectedImpact:     map[string]float64{string(d.axis): impact},
			TargetsEquilibrium: true,
		})
		priority++
	}

	return out
}

func directionFor(value, canonical float64) string {
	if value > canonical {
		return "decrease"
	}
	return "increase"
}

func actionsFor(axis types.Axis, direction string) []action {
	switch axis {
	case types.AxisBread:
		return breadActions[direction]
	case types.AxisCheese:
		return cheeseActions[direction]
	case types.AxisHam:
		return hamActions[direction]
	}
	return nil
}
