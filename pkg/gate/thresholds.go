// Package gate implements the release-readiness gate engine, waiver
// store, change-budget check, and degradation check of spec.md §4.8.
package gate

import "github.com/sandwich-gate/complexity/pkg/types"

// Thresholds is the per-stage threshold set of spec.md §3/§4.8.
type Thresholds struct {
	NestingMax    int
	ConceptsPerFn int
	GoldenTestMin float64
	HiddenDepsMax int
	AllowsWaiver  bool
}

// stageThresholds are constants of the system; values are exact from
// spec.md §4.8.
var stageThresholds = map[types.GateStage]Thresholds{
	types.GatePoC:        {NestingMax: 6, ConceptsPerFn: 12, GoldenTestMin: 0.50, HiddenDepsMax: 4, AllowsWaiver: false},
	types.GateMVP:        {NestingMax: 4, ConceptsPerFn: 9, GoldenTestMin: 0.80, HiddenDepsMax: 2, AllowsWaiver: false},
	types.GateProduction: {NestingMax: 3, ConceptsPerFn: 7, GoldenTestMin: 0.95, HiddenDepsMax: 1, AllowsWaiver: true},
}

// ThresholdsFor returns the threshold set for stage, defaulting to MVP's
// when stage is unrecognized.
func ThresholdsFor(stage types.GateStage) Thresholds {
	if t, ok := stageThresholds[stage]; ok {
		return t
	}
	return stageThresholds[types.GateMVP]
}

// ChangeBudget is the per-archetype change-budget table of spec.md §4.8.
type ChangeBudget struct {
	DeltaCognitive   int
	DeltaState       int
	DeltaPublicAPI   int
	BreakingAllowed  bool
}

var archetypeBudgets = map[types.Archetype]ChangeBudget{
	types.ArchetypeAPIExternal: {DeltaCognitive: 3, DeltaState: 1, DeltaPublicAPI: 2, BreakingAllowed: false},
	types.ArchetypeAPIInternal: {DeltaCognitive: 5, DeltaState: 2, DeltaPublicAPI: 3, BreakingAllowed: true},
	types.ArchetypeLibDomain:   {DeltaCognitive: 5, DeltaState: 2, DeltaPublicAPI: 5, BreakingAllowed: true},
	types.ArchetypeLibInfra:    {DeltaCognitive: 8, DeltaState: 3, DeltaPublicAPI: 3, BreakingAllowed: true},
	types.ArchetypeApp:         {DeltaCognitive: 8, DeltaState: 3, DeltaPublicAPI: 999, BreakingAllowed: true},
	types.ArchetypeDeploy:      {DeltaCognitive: 3, DeltaState: 1, DeltaPublicAPI: 1, BreakingAllowed: false},
	types.ArchetypeDefault:     {DeltaCognitive: 5, DeltaState: 2, DeltaPublicAPI: 3, BreakingAllowed: true},
}

func budgetFor(archetype types.Archetype) ChangeBudget {
	if b, ok := archetypeBudgets[archetype]; ok {
		return b
	}
	return archetypeBudgets[types.ArchetypeDefault]
}
