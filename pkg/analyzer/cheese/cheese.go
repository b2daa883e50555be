// Package cheese implements the cognitive-accessibility analyzer of
// spec.md §4.2 — the hardest of the three axes. It reasons purely over
// the uniform treeview.Tree, so the same logic drives every language
// adapter.
package cheese

import (
	"math"
	"regexp"
	"strings"

	"github.com/sandwich-gate/complexity/pkg/treeview"
	"github.com/sandwich-gate/complexity/pkg/types"
)

// Config enumerates the tunable thresholds of spec.md §4.2.
type Config struct {
	NestingThreshold  int
	ConceptsPerFn     int
	HiddenDepThreshold int
	Framework         types.Framework
}

// DefaultConfig matches the constants named in spec.md §4.2.
func DefaultConfig() Config {
	return Config{
		NestingThreshold:   4,
		ConceptsPerFn:      9,
		HiddenDepThreshold: 2,
		Framework:          types.FrameworkNone,
	}
}

// frameworkWeight is the presentational-nesting weight table (spec.md
// §4.2(a)).
var frameworkWeight = map[types.Framework]float64{
	types.FrameworkReact:   0.3,
	types.FrameworkVue:     0.3,
	types.FrameworkAngular: 0.4,
	types.FrameworkSvelte:  0.3,
	types.FrameworkNone:    1.0,
}

// builtinAllowlist holds called names that never count as a concept: the
// small set of near-universal built-ins whose meaning doesn't add to a
// reader's working set.
var builtinAllowlist = map[string]bool{
	"len": true, "cap": true, "append": true, "make": true, "new": true,
	"panic": true, "recover": true, "copy": true, "delete": true,
	"print": true, "println": true, "string": true, "int": true,
	"float64": true, "error": true, "nil": true,
	"String": true, "Error": true, "Sprintf": true, "Errorf": true,
}

var retryPattern = regexp.MustCompile(`(?i)retry|backoff|attempt|max_retries|p-retry|async-retry|exponentialbackoff`)
var statePattern = regexp.MustCompile(`(?i)usestate|usereducer|observable|createstore`)
var envPattern = regexp.MustCompile(`(?i)^(getenv|environ)$`)
var fileIOPattern = regexp.MustCompile(`(?i)^(open|readfile|writefile|create|mkdir|remove|stat)$`)
var netIOPattern = regexp.MustCompile(`(?i)^(get|post|dial|do|fetch|listen|dialcontext)$`)

// Analyze produces a CheeseReport for tree under cfg.
func Analyze(tree *treeview.Tree, cfg Config) types.CheeseReport {
	if tree == nil || tree.ParseFailed {
		return types.CheeseReport{Accessible: false, Violations: []string{"parse-failed"}}
	}

	weight, ok := frameworkWeight[cfg.Framework]
	if !ok {
		weight = 1.0
	}

	logicNesting := treeview.MaxNesting(tree.Root)
	presentationalNesting := 0 // no adapter currently tags presentational/template nodes separately
	adjustedPresentational := int(math.Ceil(float64(presentationalNesting) * weight))
	adjustedNesting := logicNesting + adjustedPresentational

	adjustments := []types.NestingAdjustment{
		{Kind: "logic", Raw: logicNesting, Weight: 1.0, Adjusted: logicNesting, Description: "control-flow nesting"},
		{Kind: "presentational", Raw: presentationalNesting, Weight: weight, Adjusted: adjustedPresentational, Description: "template/markup nesting weighted by framework"},
	}

	functionNodes := functionLikeNodes(tree.Root)
	typePenalty := typeSystemPenalty(tree.Root)
	perFnTypePenalty := 0
	if len(functionNodes) > 0 {
		perFnTypePenalty = typePenalty / len(functionNodes)
	}

	var functions []types.FunctionCheeseRecord
	for _, fn := range functionNodes {
		rec := analyzeFunction(fn)
		rec.AdjustedConceptCount += perFnTypePenalty
		functions = append(functions, rec)
	}

	hiddenDeps := countHiddenDependencies(tree.Root)
	sar := detectStateAsyncRetry(tree.Root)

	var violations []string
	if adjustedNesting > cfg.NestingThreshold {
		violations = append(violations, "nesting-exceeded: depth exceeds threshold")
	}
	for _, fn := range functions {
		if fn.AdjustedConceptCount > cfg.ConceptsPerFn {
			violations = append(violations, "concepts-exceeded: "+fn.Name)
		}
	}
	if hiddenDeps > cfg.HiddenDepThreshold {
		violations = append(violations, "hidden-deps-exceeded")
	}
	if sar.Violated {
		violations = append(violations, "sar-coexistence: state×async×retry violation")
	}
	if typePenalty > 3*max(1, len(functionNodes)) {
		violations = append(violations, "type-system complexity exceeds bounds")
	}

	return types.CheeseReport{
		Accessible:         len(violations) == 0,
		Violations:         violations,
		Functions:          functions,
		MaxNesting:         logicNesting + presentationalNesting,
		AdjustedNesting:    adjustedNesting,
		NestingAdjustments: adjustments,
		HiddenDependencies: hiddenDeps,
		StateAsyncRetry:    sar,
		TypePenalty:        typePenalty,
		Framework:          cfg.Framework,
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func functionLikeNodes(root *treeview.Node) []*treeview.Node {
	var out []*treeview.Node
	treeview.Walk(root, treeview.Visitor{Enter: func(n *treeview.Node) bool {
		if n.Kind == treeview.KindFunctionLike || n.Kind == treeview.KindMethodLike || n.Kind == treeview.KindLambdaLike {
			out = append(out, n)
		}
		return true
	}})
	return out
}

// analyzeFunction counts concepts in fn's own scope: direct parameters,
// locally bound names, and called names outside the allowlist — but it
// does not descend into a nested function-like node's body, since that
// is its own scope and will be visited as its own record.
func analyzeFunction(fn *treeview.Node) types.FunctionCheeseRecord {
	conceptSet := map[string]bool{}
	var antiPatterns []types.AntiPattern

	params := directParamChildren(fn)
	for i, p := range params {
		if i == 0 && (p.Name == "self" || p.Name == "this" || p.Name == "receiver") {
			continue
		}
		if p.Kind == treeview.KindRestParameter {
			antiPatterns = append(antiPatterns, types.AntiPattern{Name: "rest-parameter", Penalty: 3, Line: p.Start.Line})
		}
		if p.Name != "" {
			conceptSet[p.Name] = true
		}
	}

	walkScope(fn, func(n *treeview.Node) {
		switch n.Kind {
		case treeview.KindVariableDecl:
			if n.Name != "" {
				conceptSet[n.Name] = true
			}
		case treeview.KindCallExpression:
			if n.Name != "" && !builtinAllowlist[n.Name] {
				conceptSet[n.Name] = true
			}
		case treeview.KindSpreadInCall:
			antiPatterns = append(antiPatterns, types.AntiPattern{Name: "spread-config", Penalty: 3, Line: n.Start.Line})
		}
	})

	raw := len(conceptSet)
	adjusted := raw + 3*len(antiPatterns)

	return types.FunctionCheeseRecord{
		Name:                 fn.Name,
		Line:                 fn.Start.Line,
		RawConceptCount:      raw,
		AdjustedConceptCount: adjusted,
		AntiPatterns:         antiPatterns,
	}
}

func directParamChildren(fn *treeview.Node) []*treeview.Node {
	var out []*treeview.Node
	var collect func(n *treeview.Node)
	collect = func(n *treeview.Node) {
		for _, c := range n.Children {
			if c.Kind == treeview.KindParameter || c.Kind == treeview.KindRestParameter {
				out = append(out, c)
				// goview nests the later names of a grouped field
				// (a, b int) as same-kind children of the first.
				for _, g := range c.Children {
					if g.Kind == c.Kind {
						out = append(out, g)
					}
				}
				continue
			}
			if c.Kind == treeview.KindFunctionLike || c.Kind == treeview.KindMethodLike || c.Kind == treeview.KindLambdaLike {
				continue
			}
			collect(c)
		}
	}
	collect(fn)
	return out
}

func walkScope(n *treeview.Node, visit func(*treeview.Node)) {
	for _, c := range n.Children {
		visit(c)
		if c.Kind == treeview.KindFunctionLike || c.Kind == treeview.KindMethodLike || c.Kind == treeview.KindLambdaLike {
			continue
		}
		walkScope(c, visit)
	}
}

// typeSystemPenalty aggregates the rule table of spec.md §4.2(c). It is a
// no-op on trees whose adapter never emits type-system node kinds (Go has
// no union/conditional/mapped types; the penalty stays zero there).
func typeSystemPenalty(root *treeview.Node) int {
	penalty := 0
	consecutiveDecorators := 0

	treeview.Walk(root, treeview.Visitor{Enter: func(n *treeview.Node) bool {
		switch n.Kind {
		case treeview.KindGenericParamList:
			if len(n.Children) > 3 {
				penalty += len(n.Children) - 3
			}
		case treeview.KindUnionType:
			if len(n.Children) > 3 {
				penalty += 2
			}
		case treeview.KindIntersectionType:
			penalty += 2
		case treeview.KindConditionalType:
			penalty += 2
		case treeview.KindMappedType:
			penalty += 2
		case treeview.KindTypePredicate:
			penalty += 1
		case treeview.KindDecoratorApplication:
			consecutiveDecorators++
			if consecutiveDecorators >= 3 {
				penalty += 3
			}
		default:
			consecutiveDecorators = 0
		}
		return true
	}})

	return penalty
}

func countHiddenDependencies(root *treeview.Node) int {
	count := 0
	treeview.Walk(root, treeview.Visitor{Enter: func(n *treeview.Node) bool {
		switch n.Kind {
		case treeview.KindCallExpression:
			name := strings.ToLower(n.Name)
			if envPattern.MatchString(name) || fileIOPattern.MatchString(name) || netIOPattern.MatchString(name) {
				count++
			}
		case treeview.KindPropertyAccess:
			lower := strings.ToLower(n.Name)
			if lower == "environ" || lower == "env" {
				count++
			}
		}
		return true
	}})
	return count
}

// detectStateAsyncRetry runs the three whole-tree detectors of spec.md
// §4.2(d) and reports a violation when at least two hold.
func detectStateAsyncRetry(root *treeview.Node) types.StateAsyncRetry {
	var sar types.StateAsyncRetry

	treeview.Walk(root, treeview.Visitor{Enter: func(n *treeview.Node) bool {
		switch n.Kind {
		case treeview.KindVariableDecl:
			if statePattern.MatchString(n.Text) {
				sar.HasState = true
				sar.Evidence = append(sar.Evidence, "state: "+n.Name)
			}
			if target := assignmentTarget(n); target != nil {
				sar.HasState = true
				sar.Evidence = append(sar.Evidence, "state: assignment to "+target.Name)
			}
		case treeview.KindCallExpression:
			if statePattern.MatchString(n.Name) {
				sar.HasState = true
				sar.Evidence = append(sar.Evidence, "state: "+n.Name)
			}
			if retryPattern.MatchString(n.Name) {
				sar.HasRetry = true
				sar.Evidence = append(sar.Evidence, "retry: "+n.Name)
			}
			lower := strings.ToLower(n.Name)
			if lower == "then" || lower == "catch" || lower == "promise" {
				sar.HasAsync = true
			}
		case treeview.KindAwait, treeview.KindAsyncBlock, treeview.KindGoroutineSpawn, treeview.KindChannelOp:
			sar.HasAsync = true
			sar.Evidence = append(sar.Evidence, "async: "+string(n.Kind))
		case treeview.KindFunctionLike, treeview.KindLambdaLike:
			if strings.HasPrefix(strings.TrimSpace(n.Text), "async") {
				sar.HasAsync = true
			}
			if retryPattern.MatchString(n.Name) {
				sar.HasRetry = true
				sar.Evidence = append(sar.Evidence, "retry: "+n.Name)
			}
		case treeview.KindFor, treeview.KindWhile, treeview.KindDoWhile, treeview.KindForEach:
			if retryPattern.MatchString(n.Text) {
				sar.HasRetry = true
				sar.Evidence = append(sar.Evidence, "retry: loop counter in "+strings.TrimSpace(firstLine(n.Text)))
			}
		}
		return true
	}})

	count := 0
	if sar.HasState {
		count++
	}
	if sar.HasAsync {
		count++
	}
	if sar.HasRetry {
		count++
	}
	sar.Violated = count >= 2
	return sar
}

// assignmentTarget recognizes n as an assignment statement's VariableDecl
// node — as opposed to a GenDecl-style var block, whose per-name children
// always carry a non-empty Name — and returns its write target: a plain
// Identifier (reassignment or global rebinding) or a PropertyAccess
// (instance-field assignment, e.g. s.result = ... / this.result = ...).
// Per spec.md §4.2(d) both count as the State condition of the
// State×Async×Retry invariant.
func assignmentTarget(n *treeview.Node) *treeview.Node {
	if n.Name != "" || len(n.Children) == 0 {
		return nil
	}
	first := n.Children[0]
	if first.Kind == treeview.KindIdentifier || first.Kind == treeview.KindPropertyAccess {
		return first
	}
	return nil
}

// firstLine returns s up to its first newline, for compact evidence
// strings describing a multi-line loop header.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
