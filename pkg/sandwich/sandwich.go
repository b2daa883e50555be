// Package sandwich wires the tree-view adapters and the three axis
// analyzers together into the combined analyze_sandwich operation of
// spec.md §6, shared by the CLI and the MCP server so neither
// reimplements the pipeline.
package sandwich

import (
	"github.com/sandwich-gate/complexity/pkg/analyzer/bread"
	"github.com/sandwich-gate/complexity/pkg/analyzer/cheese"
	"github.com/sandwich-gate/complexity/pkg/analyzer/ham"
	"github.com/sandwich-gate/complexity/pkg/classify"
	"github.com/sandwich-gate/complexity/pkg/recommend"
	"github.com/sandwich-gate/complexity/pkg/simplex"
	"github.com/sandwich-gate/complexity/pkg/treeview/detect"
	"github.com/sandwich-gate/complexity/pkg/types"
)

// Options carries every optional input analyze_sandwich accepts.
type Options struct {
	FilePath          string
	ArchetypeOverride types.Archetype
	Framework         types.Framework
	TestSource        string
	CheeseConfig      *cheese.Config
}

// Analyze runs the full bread/cheese/ham/simplex/gate-free pipeline over
// source and returns the combined result.
func Analyze(source string, opts Options) types.SandwichResult {
	tree := detect.ParseByPath(source, opts.FilePath)

	cheeseCfg := cheese.DefaultConfig()
	if opts.CheeseConfig != nil {
		cheeseCfg = *opts.CheeseConfig
	}
	if opts.Framework != "" {
		cheeseCfg.Framework = opts.Framework
	}

	archetype := classify.Classify(opts.FilePath, opts.ArchetypeOverride)

	cheeseReport := cheese.Analyze(tree, cheeseCfg)
	breadReport := bread.Analyze(tree, source, archetype)
	hamReport := ham.Analyze(tree, opts.TestSource)

	raw := types.RawTriple{
		Bread:  breadScore(breadReport),
		Cheese: cheeseScore(cheeseReport),
		Ham:    hamReport.GoldenTestCoverage * 100,
	}
	point := simplex.Normalize(raw)
	canonical := classify.Canonical(archetype)
	deviation := simplex.ComputeDeviation(point, canonical)
	equilibrium := simplex.Equilibrium(deviation, simplex.DefaultEquilibriumTolerance)
	label := simplex.Label(point, simplex.DefaultBalancedTolerance)

	var sar *types.StateAsyncRetry
	if cheeseReport.StateAsyncRetry.Violated {
		sar = &cheeseReport.StateAsyncRetry
	}
	recommendations := recommend.SuggestRefactor(point, canonical, equilibrium, sar, recommend.DefaultMaxRecommendations)

	return types.SandwichResult{
		Bread:           breadReport,
		Cheese:          cheeseReport,
		Ham:             hamReport,
		Simplex:         point,
		Equilibrium:     equilibrium,
		Label:           label.Label,
		Confidence:      label.Confidence,
		Archetype:       archetype,
		Canonical:       canonical,
		Deviation:       deviation,
		Recommendations: recommendations,
	}
}

// breadScore and cheeseScore convert each axis's report into a raw,
// within-axis-comparable magnitude feeding the simplex normalizer: higher
// is "more of this axis's concern present and handled", mirroring how the
// teacher's MCP server derives a bread/cheese count from its own result
// structs before normalizing.
func breadScore(r types.BreadReport) float64 {
	score := float64(r.TrustBoundaryCount)*10 + r.AuthExplicitness*20
	score -= float64(len(r.SecretPatterns)) * 15
	score -= float64(r.HiddenDeps.Total()) * 5
	if score < 1 {
		score = 1
	}
	return score
}

func cheeseScore(r types.CheeseReport) float64 {
	score := 100.0
	score -= float64(r.AdjustedNesting) * 8
	for _, fn := range r.Functions {
		if fn.AdjustedConceptCount > 0 {
			score -= float64(fn.AdjustedConceptCount)
		}
	}
	score -= float64(r.HiddenDependencies) * 5
	if r.StateAsyncRetry.Violated {
		score -= 20
	}
	if score < 1 {
		score = 1
	}
	return score
}
