package cheese_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandwich-gate/complexity/pkg/analyzer/cheese"
	"github.com/sandwich-gate/complexity/pkg/treeview/goview"
	"github.com/sandwich-gate/complexity/pkg/treeview/pyview"
	"github.com/sandwich-gate/complexity/pkg/treeview/tsview"
	"github.com/sandwich-gate/complexity/pkg/types"
)

func TestAnalyzeParseFailedIsInaccessible(t *testing.T) {
	tr := goview.Parse("not valid go {{{", "broken.go")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	require.False(t, report.Accessible)
	require.Contains(t, report.Violations, "parse-failed")
}

func TestAnalyzeShallowFunctionIsAccessible(t *testing.T) {
	src := `package p

func Add(a, b int) int {
	return a + b
}
`
	tr := goview.Parse(src, "p.go")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	require.True(t, report.Accessible)
	require.Empty(t, report.Violations)
}

func TestAnalyzeDeepNestingViolatesThreshold(t *testing.T) {
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
	tr := goview.Parse(src, "p.go")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	require.False(t, report.Accessible)
	require.Contains(t, report.Violations, "nesting-exceeded: depth exceeds threshold")
	require.Equal(t, 5, report.AdjustedNesting)
}

func TestAnalyzeHiddenDependenciesCounted(t *testing.T) {
	src := `package p

import "os"

func F() string {
	return os.Getenv("SECRET")
}
`
	tr := goview.Parse(src, "p.go")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	require.GreaterOrEqual(t, report.HiddenDependencies, 1)
}

func TestAnalyzeStateAsyncRetryRequiresTwoOfThree(t *testing.T) {
	src := `package p

func F() {
	go retryWithBackoff()
}
`
	tr := goview.Parse(src, "p.go")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	// goroutine spawn => async; retryWithBackoff call => retry. Two of
	// three conditions hold, so the invariant is violated.
	require.True(t, report.StateAsyncRetry.HasAsync)
	require.True(t, report.StateAsyncRetry.HasRetry)
	require.True(t, report.StateAsyncRetry.Violated)
	require.Contains(t, report.Violations, "sar-coexistence: state×async×retry violation")
}

func TestAnalyzeInstanceFieldAssignmentInRetryLoopViolatesSAR(t *testing.T) {
	src := `package p

type Service struct {
	result string
}

func (s *Service) F() {
	for attempt := 0; attempt < 3; attempt++ {
		s.result = fetch()
	}
}
`
	tr := goview.Parse(src, "p.go")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	// s.result = ... is an instance-field assignment (State); the loop is
	// bound to a counter named "attempt" (Retry). Two of three conditions
	// hold without any async marker present.
	require.True(t, report.StateAsyncRetry.HasState)
	require.True(t, report.StateAsyncRetry.HasRetry)
	require.True(t, report.StateAsyncRetry.Violated)
	require.Contains(t, report.Violations, "sar-coexistence: state×async×retry violation")
}

func TestAnalyzeShortVariableDeclarationAloneIsNotState(t *testing.T) {
	src := `package p

func F() int {
	x := compute()
	return x
}
`
	tr := goview.Parse(src, "p.go")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	require.False(t, report.StateAsyncRetry.HasState)
}

func TestAnalyzeAsyncAloneDoesNotViolateSAR(t *testing.T) {
	src := `package p

func F() {
	go doWork()
}
`
	tr := goview.Parse(src, "p.go")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	require.False(t, report.StateAsyncRetry.Violated)
}

func TestAnalyzeTypeScriptRetryCallAndAwaitViolateSAR(t *testing.T) {
	src := `async function f() {
  await retryWithBackoff();
}
`
	tr := tsview.Parse(src, "f.ts", true)
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	// retryWithBackoff() resolves its name through the call_expression's
	// "function" field (Retry); await resolves Async. Two of three
	// conditions hold.
	require.True(t, report.StateAsyncRetry.HasAsync)
	require.True(t, report.StateAsyncRetry.HasRetry)
	require.True(t, report.StateAsyncRetry.Violated)
}

func TestAnalyzePythonInstanceAttributeAssignmentInRetryLoopViolatesSAR(t *testing.T) {
	src := `class Service:
    def f(self):
        for attempt in range(3):
            self.result = fetch()
`
	tr := pyview.Parse(src, "f.py")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	// self.result = ... is an attribute assignment resolved through the
	// "assignment" node's first child (an "attribute" node whose name
	// comes from its own "attribute" field) => State; the for loop is
	// bound to a counter named "attempt" => Retry.
	require.True(t, report.StateAsyncRetry.HasState)
	require.True(t, report.StateAsyncRetry.HasRetry)
	require.True(t, report.StateAsyncRetry.Violated)
}

func TestAnalyzeConceptCountPerFunction(t *testing.T) {
	src := `package p

func F() {
	a := compute()
	b := transform(a)
	c := finalize(b)
	_ = c
}
`
	tr := goview.Parse(src, "p.go")
	report := cheese.Analyze(tr, cheese.DefaultConfig())
	require.Len(t, report.Functions, 1)
	require.Greater(t, report.Functions[0].RawConceptCount, 0)
}

func TestAnalyzeRecordsConfiguredFramework(t *testing.T) {
	src := `package p

func F(x int) int {
	if x > 0 {
		return 1
	}
	return 0
}
`
	tr := goview.Parse(src, "p.go")
	cfg := cheese.DefaultConfig()
	cfg.Framework = types.FrameworkReact
	report := cheese.Analyze(tr, cfg)
	require.Equal(t, types.FrameworkReact, report.Framework)
}
