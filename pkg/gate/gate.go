package gate

import (
	"fmt"
	"strings"

	"github.com/sandwich-gate/complexity/pkg/types"
)

// CheckGate implements spec.md §4.8's checkGate operation. filePath and
// projectRoot are optional; when either is empty, external-file waiver
// matching is skipped (there is nothing to glob-match against), though
// the inline __essential_complexity__ fallback still runs against
// source. source may be "" when the caller has no source text at hand
// (e.g. a pre-parsed report from elsewhere); the inline path is then
// simply unavailable.
func (s *Store) CheckGate(stage types.GateStage, cheese types.CheeseReport, bread types.BreadReport, ham types.HamReport, archetype types.Archetype, source, filePath, projectRoot string) types.GateVerdict {
	thresholds := ThresholdsFor(stage)

	var waiver *types.WaiverRecord
	var advisories []string
	if thresholds.AllowsWaiver {
		waiver, advisories = s.MatchWithAdvisories(filePath, projectRoot)
		if waiver == nil && source != "" {
			waiver = s.MatchInline(source, filePath, projectRoot)
		}
		// A waiver without a convergence proof does not cover a function
		// more than one concept over the stage ceiling.
		if waiver != nil && waiver.Convergence == nil {
			for _, fn := range cheese.Functions {
				if fn.AdjustedConceptCount > thresholds.ConceptsPerFn+1 {
					waiver = nil
					break
				}
			}
		}
	}

	var nestingViolation, conceptViolation string
	if cheese.AdjustedNesting > thresholds.NestingMax {
		nestingViolation = fmt.Sprintf("nesting-exceeded: depth %d exceeds %s stage max %d", cheese.AdjustedNesting, stage, thresholds.NestingMax)
	}
	for _, fn := range cheese.Functions {
		if fn.AdjustedConceptCount > thresholds.ConceptsPerFn {
			conceptViolation = fmt.Sprintf("concepts-exceeded: %d in %s exceeds %s stage max %d", fn.AdjustedConceptCount, fn.Name, stage, thresholds.ConceptsPerFn)
			break
		}
	}

	suppressed := waiver != nil
	var violations []string
	if !suppressed && nestingViolation != "" {
		violations = append(violations, nestingViolation)
	}
	if !suppressed && conceptViolation != "" {
		violations = append(violations, conceptViolation)
	}
	if cheese.HiddenDependencies > thresholds.HiddenDepsMax {
		violations = append(violations, fmt.Sprintf("hidden-deps-exceeded: %d exceed %s stage max %d", cheese.HiddenDependencies, stage, thresholds.HiddenDepsMax))
	}
	if cheese.StateAsyncRetry.Violated {
		violations = append(violations, "sar-coexistence: state×async×retry violation")
	}

	hasHighSeverityBread := false
	for _, sp := range bread.SecretPatterns {
		if sp.Severity == "high" {
			hasHighSeverityBread = true
			violations = append(violations, "secret-hardcoded: "+sp.Pattern)
		}
	}
	for _, v := range bread.Violations {
		violations = append(violations, v)
		if archetype == types.ArchetypeAPIExternal {
			hasHighSeverityBread = true
		}
	}

	if ham.GoldenTestCoverage < thresholds.GoldenTestMin {
		violations = append(violations, fmt.Sprintf("coverage-below-threshold: golden test coverage %.2f below %s stage min %.2f", ham.GoldenTestCoverage, stage, thresholds.GoldenTestMin))
	}
	if len(ham.UntestedCriticalPaths) > 0 {
		violations = append(violations, fmt.Sprintf("critical-path-untested: %s", strings.Join(ham.UntestedCriticalPaths, ", ")))
	}

	cheesePass := (suppressed || (nestingViolation == "" && conceptViolation == "")) &&
		cheese.HiddenDependencies <= thresholds.HiddenDepsMax && !cheese.StateAsyncRetry.Violated
	breadPass := !hasHighSeverityBread
	hamPass := ham.GoldenTestCoverage >= thresholds.GoldenTestMin && len(ham.UntestedCriticalPaths) == 0

	verdict := types.GateVerdict{
		Passed:        cheesePass && breadPass && hamPass,
		Stage:         stage,
		PerAxisPass:   types.PerAxisPass{Bread: breadPass, Cheese: cheesePass, Ham: hamPass},
		Violations:    violations,
		Advisories:    advisories,
		WaiverApplied: waiver != nil,
		WaiverRef:     waiver,
	}
	return verdict
}

// CheckBudget implements spec.md §4.8's checkBudget operation.
func CheckBudget(before, after types.CheeseReport, archetype types.Archetype) types.BudgetVerdict {
	budget := budgetFor(archetype)
	delta := deltaFor(before, after)

	var violations []types.BudgetViolation
	if delta.Cognitive > budget.DeltaCognitive {
		violations = append(violations, types.BudgetViolation{
			Dimension: "cognitive", Allowed: float64(budget.DeltaCognitive), Actual: float64(delta.Cognitive),
			Excess: float64(delta.Cognitive - budget.DeltaCognitive), Message: "cognitive delta exceeds budget",
		})
	}
	if delta.StateTransitions > budget.DeltaState {
		violations = append(violations, types.BudgetViolation{
			Dimension: "stateTransitions", Allowed: float64(budget.DeltaState), Actual: float64(delta.StateTransitions),
			Excess: float64(delta.StateTransitions - budget.DeltaState), Message: "state-transition delta exceeds budget",
		})
	}
	if delta.PublicAPI > budget.DeltaPublicAPI {
		violations = append(violations, types.BudgetViolation{
			Dimension: "publicAPI", Allowed: float64(budget.DeltaPublicAPI), Actual: float64(delta.PublicAPI),
			Excess: float64(delta.PublicAPI - budget.DeltaPublicAPI), Message: "public API delta exceeds budget",
		})
	}
	if delta.BreakingChanges && !budget.BreakingAllowed {
		violations = append(violations, types.BudgetViolation{
			Dimension: "breakingChanges", Allowed: 0, Actual: 1, Excess: 1, Message: "breaking changes not allowed for this archetype",
		})
	}

	return types.BudgetVerdict{
		Passed:     len(violations) == 0,
		Archetype:  archetype,
		Violations: violations,
		Delta:      delta,
	}
}

func deltaFor(before, after types.CheeseReport) types.ChangeDelta {
	beforeScore := cognitiveScore(before)
	afterScore := cognitiveScore(after)

	stateBefore := 0
	if before.StateAsyncRetry.HasState {
		stateBefore = 1
	}
	stateAfter := 0
	if after.StateAsyncRetry.HasState {
		stateAfter = 1
	}

	return types.ChangeDelta{
		Cognitive:        afterScore - beforeScore,
		StateTransitions: stateAfter - stateBefore,
		PublicAPI:        len(after.Functions) - len(before.Functions),
		BreakingChanges:  len(after.Functions) < len(before.Functions),
	}
}

func cognitiveScore(r types.CheeseReport) int {
	if r.Accessible {
		return 0
	}
	score := r.AdjustedNesting * 2
	score += r.HiddenDependencies
	if r.StateAsyncRetry.Violated {
		score += 10
	}
	return score
}

// CheckDegradation implements spec.md §4.8's checkDegradation operation.
func CheckDegradation(before, after types.CheeseReport) types.DegradationReport {
	deltaNesting := after.AdjustedNesting - before.AdjustedNesting
	deltaHiddenDeps := after.HiddenDependencies - before.HiddenDependencies
	deltaViolations := len(after.Violations) - len(before.Violations)

	var indicators []string
	if deltaNesting > 0 {
		indicators = append(indicators, "nesting increased")
	}
	if deltaHiddenDeps > 0 {
		indicators = append(indicators, "hidden dependencies increased")
	}
	if deltaViolations > 0 {
		indicators = append(indicators, "violation count increased")
	}
	if before.Accessible && !after.Accessible {
		indicators = append(indicators, "accessibility lost")
	}
	if !before.StateAsyncRetry.Violated && after.StateAsyncRetry.Violated {
		indicators = append(indicators, "state×async×retry violation introduced")
	}

	degraded := len(indicators) > 0
	accessibilityLost := before.Accessible && !after.Accessible

	var severity string
	switch {
	case !degraded:
		severity = "none"
	case accessibilityLost, len(indicators) >= 3:
		severity = "severe"
	case len(indicators) == 2:
		severity = "moderate"
	default:
		severity = "mild"
	}

	return types.DegradationReport{
		Degraded:         degraded,
		Severity:         severity,
		Indicators:       indicators,
		BeforeAccessible: before.Accessible,
		AfterAccessible:  after.Accessible,
		DeltaNesting:     deltaNesting,
		DeltaHiddenDeps:  deltaHiddenDeps,
		DeltaViolations:  deltaViolations,
	}
}
