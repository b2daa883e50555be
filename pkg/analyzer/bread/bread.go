// Package bread implements the structural-security analyzer of
// spec.md §4.3.
package bread

import (
	"regexp"
	"strings"

	"github.com/sandwich-gate/complexity/pkg/treeview"
	"github.com/sandwich-gate/complexity/pkg/types"
)

type secretRule struct {
	name     string
	pattern  *regexp.Regexp
	severity string
}

var secretRules = []secretRule{
	{"api-key", regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["'][^"']+["']`), "high"},
	{"password", regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["'][^"']+["']`), "high"},
	{"secret-or-token", regexp.MustCompile(`(?i)(secret|token)\s*[:=]\s*["'][^"']+["']`), "high"},
	{"bearer-token", regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]+`), "medium"},
}

var secretNamePattern = regexp.MustCompile(`(?i)^(api[_-]?key|apikey|password|passwd|pwd|secret|token)$`)
var leakageCallPattern = regexp.MustCompile(`(?i)^(print|println|log|info|debug|warn|error)$`)

var trustBoundaryComment = regexp.MustCompile(`TRUST_BOUNDARY`)
var trustBoundaryDecl = regexp.MustCompile(`TRUST_BOUNDARY\s*=\s*(true|True)`)
var trustBoundaryHeader = regexp.MustCompile(`Trust Boundary:`)
var authFlowDecl = regexp.MustCompile(`AUTH_FLOW:\s*(\S+)`)

var envAccessPattern = regexp.MustCompile(`(?i)^(getenv|environ)$`)
var fileIOPattern = regexp.MustCompile(`(?i)^(open|readfile|writefile|create|mkdir|remove|stat|read|write)$`)
var netIOPattern = regexp.MustCompile(`(?i)^(get|post|dial|do|fetch|listen|dialcontext|request)$`)

// Analyze produces a BreadReport for tree/source. archetype is used only
// to decide whether a missing AUTH_FLOW declaration is a violation.
func Analyze(tree *treeview.Tree, source string, archetype types.Archetype) types.BreadReport {
	if tree == nil || tree.ParseFailed {
		return types.BreadReport{Violations: []string{"parse-failed"}}
	}

	trustBoundaryCount := 0
	treeview.Walk(tree.Root, treeview.Visitor{Enter: func(n *treeview.Node) bool {
		if n.Kind == treeview.KindComment {
			if trustBoundaryComment.MatchString(n.Text) || trustBoundaryHeader.MatchString(n.Text) {
				trustBoundaryCount++
			}
		}
		if n.Kind == treeview.KindVariableDecl && trustBoundaryDecl.MatchString(n.Text) {
			trustBoundaryCount++
		}
		return true
	}})

	authExplicitness := 0.0
	authDeclared := false
	treeview.Walk(tree.Root, treeview.Visitor{Enter: func(n *treeview.Node) bool {
		if authDeclared {
			return false
		}
		if n.Kind == treeview.KindComment || n.Kind == treeview.KindStringLiteral {
			if authFlowDecl.MatchString(n.Text) {
				authDeclared = true
				authExplicitness = 1.0
				return false
			}
		}
		return true
	}})
	if !authDeclared {
		if archetype != types.ArchetypeAPIExternal {
			authExplicitness = 1.0
		} else {
			authExplicitness = 0.0
		}
	}

	var secrets []types.SecretPattern
	var violations []string
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		for _, rule := range secretRules {
			if rule.pattern.MatchString(line) {
				secrets = append(secrets, types.SecretPattern{Pattern: rule.name, Line: i + 1, Severity: rule.severity})
				violations = append(violations, "secret-hardcoded: "+rule.name)
			}
		}
	}

	leaked := false
	treeview.Walk(tree.Root, treeview.Visitor{Enter: func(n *treeview.Node) bool {
		if n.Kind != treeview.KindCallExpression {
			return true
		}
		if !leakageCallPattern.MatchString(n.Name) {
			return true
		}
		for _, c := range n.Children {
			if c.Kind == treeview.KindIdentifier && secretNamePattern.MatchString(c.Name) {
				leaked = true
			}
		}
		return true
	}})
	if leaked {
		violations = append(violations, "secret-leak: output")
	}

	hiddenDeps := types.HiddenDeps{}
	treeview.Walk(tree.Root, treeview.Visitor{Enter: func(n *treeview.Node) bool {
		if n.Kind != treeview.KindCallExpression && n.Kind != treeview.KindPropertyAccess {
			return true
		}
		// A call whose callee is a property access (os.Getenv(...)) shares
		// its name with that callee node, which is counted instead.
		if n.Kind == treeview.KindCallExpression && len(n.Children) > 0 && n.Children[0].Kind == treeview.KindPropertyAccess {
			return true
		}
		lower := strings.ToLower(n.Name)
		switch {
		case envAccessPattern.MatchString(lower):
			hiddenDeps.EnvAccess++
		case fileIOPattern.MatchString(lower):
			hiddenDeps.FileIO++
		case netIOPattern.MatchString(lower):
			hiddenDeps.NetworkIO++
		}
		return true
	}})

	if archetype == types.ArchetypeAPIExternal && authExplicitness == 0.0 {
		violations = append(violations, "auth-missing: api-external surface lacks explicit auth flow")
	}

	return types.BreadReport{
		TrustBoundaryCount: trustBoundaryCount,
		AuthExplicitness:   authExplicitness,
		SecretPatterns:     secrets,
		HiddenDeps:         hiddenDeps,
		Violations:         violations,
	}
}
