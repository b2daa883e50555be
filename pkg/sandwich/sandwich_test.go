package sandwich_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandwich-gate/complexity/pkg/sandwich"
	"github.com/sandwich-gate/complexity/pkg/types"
)

func TestAnalyzeReturnsSimplexSummingToOne(t *testing.T) {
	src := `package p

func Add(a, b int) int {
	return a + b
}
`
	result := sandwich.Analyze(src, sandwich.Options{FilePath: "p.go"})
	total := result.Simplex.Bread + result.Simplex.Cheese + result.Simplex.Ham
	require.InDelta(t, 1.0, total, 1e-9)
}

func TestAnalyzeClassifiesArchetypeFromPath(t *testing.T) {
	src := `package p

func Handler() {}
`
	result := sandwich.Analyze(src, sandwich.Options{FilePath: "deploy/terraform/main.go"})
	require.Equal(t, types.ArchetypeDeploy, result.Archetype)
}

func TestAnalyzeArchetypeOverrideWins(t *testing.T) {
	src := `package p
func F() {}
`
	result := sandwich.Analyze(src, sandwich.Options{FilePath: "deploy/main.go", ArchetypeOverride: types.ArchetypeApp})
	require.Equal(t, types.ArchetypeApp, result.Archetype)
}

func TestAnalyzeDeeplyNestedFunctionIsNotAccessible(t *testing.T) {
	src := `package p

func F(x int) int {
	if x > 0 {
		if x > 1 {
			if x > 2 {
				if x > 3 {
					if x > 4 {
						return 1
					}
				}
			}
		}
	}
	return 0
}
`
	result := sandwich.Analyze(src, sandwich.Options{FilePath: "p.go"})
	require.False(t, result.Cheese.Accessible)
}

func TestAnalyzeSARViolationSurfacesAsRecommendationPriorityZero(t *testing.T) {
	src := `package p

func F() {
	go retryWithBackoff()
}
`
	result := sandwich.Analyze(src, sandwich.Options{FilePath: "p.go"})
	require.True(t, result.Cheese.StateAsyncRetry.Violated)
	require.NotEmpty(t, result.Recommendations)
	require.Equal(t, 0, result.Recommendations[0].Priority)
}

func TestAnalyzeParseFailureStillProducesAResult(t *testing.T) {
	result := sandwich.Analyze("not valid go {{{", sandwich.Options{FilePath: "broken.go"})
	require.False(t, result.Cheese.Accessible)
	require.Contains(t, result.Bread.Violations, "parse-failed")
}

func TestAnalyzeFrameworkOverrideAffectsCheeseConfig(t *testing.T) {
	src := `package p
func F() {}
`
	result := sandwich.Analyze(src, sandwich.Options{FilePath: "p.go", Framework: types.FrameworkReact})
	require.Equal(t, types.FrameworkReact, result.Cheese.Framework)
}
