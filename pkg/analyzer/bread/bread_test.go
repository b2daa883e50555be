package bread_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandwich-gate/complexity/pkg/analyzer/bread"
	"github.com/sandwich-gate/complexity/pkg/treeview/goview"
	"github.com/sandwich-gate/complexity/pkg/treeview/pyview"
	"github.com/sandwich-gate/complexity/pkg/treeview/tsview"
	"github.com/sandwich-gate/complexity/pkg/types"
)

func TestAnalyzeParseFailedReportsViolation(t *testing.T) {
	tr := goview.Parse("not valid go {{{", "broken.go")
	report := bread.Analyze(tr, "not valid go {{{", types.ArchetypeApp)
	require.Contains(t, report.Violations, "parse-failed")
}

func TestAnalyzeTrustBoundaryCommentCounted(t *testing.T) {
	src := `package p

// Trust Boundary: external input crosses here
func F(x int) int {
	return x
}
`
	tr := goview.Parse(src, "p.go")
	report := bread.Analyze(tr, src, types.ArchetypeApp)
	require.Equal(t, 1, report.TrustBoundaryCount)
}

func TestAnalyzeAuthFlowDeclarationMakesAuthExplicit(t *testing.T) {
	src := `package p

// AUTH_FLOW: oauth2-bearer
func Handle() {}
`
	tr := goview.Parse(src, "p.go")
	report := bread.Analyze(tr, src, types.ArchetypeAPIExternal)
	require.Equal(t, 1.0, report.AuthExplicitness)
}

func TestAnalyzeAPIExternalWithoutAuthFlowViolates(t *testing.T) {
	src := `package p

func Handle() {}
`
	tr := goview.Parse(src, "p.go")
	report := bread.Analyze(tr, src, types.ArchetypeAPIExternal)
	require.Equal(t, 0.0, report.AuthExplicitness)
	require.Contains(t, report.Violations, "auth-missing: api-external surface lacks explicit auth flow")
}

func TestAnalyzeNonExternalArchetypeDefaultsAuthExplicitToTrue(t *testing.T) {
	src := `package p

func Handle() {}
`
	tr := goview.Parse(src, "p.go")
	report := bread.Analyze(tr, src, types.ArchetypeApp)
	require.Equal(t, 1.0, report.AuthExplicitness)
	require.NotContains(t, report.Violations, "auth-missing: api-external surface lacks explicit auth flow")
}

func TestAnalyzeHardcodedSecretDetected(t *testing.T) {
	src := `package p

const apiKey = "sk-1234567890"

func F() {
	_ = "api_key: \"sk-1234567890\""
}
`
	tr := goview.Parse(src, "p.go")
	report := bread.Analyze(tr, src, types.ArchetypeApp)
	require.NotEmpty(t, report.SecretPatterns)
	require.Contains(t, report.Violations, "secret-hardcoded: api-key")
}

func TestAnalyzeHiddenDependenciesClassified(t *testing.T) {
	src := `package p

import (
	"net/http"
	"os"
)

func F() {
	_ = os.Getenv("HOME")
	_, _ = http.Get("https://example.com")
}
`
	tr := goview.Parse(src, "p.go")
	report := bread.Analyze(tr, src, types.ArchetypeApp)
	require.Equal(t, 1, report.HiddenDeps.EnvAccess)
	require.GreaterOrEqual(t, report.HiddenDeps.NetworkIO, 1)
}

func TestAnalyzeJavaScriptFileIOMemberCallClassifiedAsHiddenDep(t *testing.T) {
	src := `function f() {
  fs.readFile(path, cb);
}
`
	tr := tsview.Parse(src, "f.js", false)
	report := bread.Analyze(tr, src, types.ArchetypeApp)
	// fs.readFile(...)'s callee is a member_expression; its name resolves
	// through the "property" field to "readFile".
	require.GreaterOrEqual(t, report.HiddenDeps.FileIO, 1)
}

func TestAnalyzePythonEnvAccessAttributeClassifiedAsHiddenDep(t *testing.T) {
	src := `def f():
    return os.environ
`
	tr := pyview.Parse(src, "f.py")
	report := bread.Analyze(tr, src, types.ArchetypeApp)
	// os.environ is an "attribute" node; its name resolves through the
	// "attribute" field to "environ".
	require.GreaterOrEqual(t, report.HiddenDeps.EnvAccess, 1)
}

func TestAnalyzeNoSecretsOrTrustBoundariesReportsEmpty(t *testing.T) {
	src := `package p

func Add(a, b int) int {
	return a + b
}
`
	tr := goview.Parse(src, "p.go")
	report := bread.Analyze(tr, src, types.ArchetypeApp)
	require.Zero(t, report.TrustBoundaryCount)
	require.Empty(t, report.SecretPatterns)
}
