// Package ham implements the behavioral-preservation analyzer of
// spec.md §4.4. Filesystem access (finding and reading a candidate test
// file) is the caller's responsibility, so this package stays a pure
// function of its inputs; CandidateTestPaths gives the caller the fixed
// search order to try.
package ham

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sandwich-gate/complexity/pkg/treeview"
	"github.com/sandwich-gate/complexity/pkg/types"
)

type categoryRule struct {
	category string
	pattern  *regexp.Regexp
}

var categoryRules = []categoryRule{
	{"payment", regexp.MustCompile(`(?i)payment|charge|invoice|refund|checkout|billing`)},
	{"auth", regexp.MustCompile(`(?i)auth|login|logout|session|token|credential`)},
	{"data-destructive", regexp.MustCompile(`(?i)delete|truncate|purge|migrate|backup|restore`)},
	{"security", regexp.MustCompile(`(?i)encrypt|decrypt|hash|sanitize|csrf|acl`)},
	{"api", regexp.MustCompile(`(?i)webhook|throttle|ratelimit|externalrequest`)},
	{"database", regexp.MustCompile(`(?i)transaction|commit|rollback`)},
}

var fillerWords = map[string]bool{
	"should": true, "when": true, "then": true, "given": true,
	"returns": true, "throws": true,
}

type frameworkSignature struct {
	name    string
	pattern *regexp.Regexp
}

// frameworkSignatures is checked in the fixed order of spec.md §4.4.
var frameworkSignatures = []frameworkSignature{
	{"vitest", regexp.MustCompile(`(?i)from\s+['"]vitest['"]`)},
	{"node-test", regexp.MustCompile(`(?i)from\s+['"]node:test['"]|require\(['"]node:test['"]\)`)},
	{"mocha", regexp.MustCompile(`(?i)require\(['"]mocha['"]\)|from\s+['"]mocha['"]`)},
	{"jest", regexp.MustCompile(`(?i)from\s+['"]@jest|jest\.fn|jest\.mock`)},
	{"pytest", regexp.MustCompile(`(?i)import\s+pytest|def\s+test_`)},
	{"gotest", regexp.MustCompile(`(?i)func\s+Test\w+\(t\s+\*testing\.T\)`)},
}

var testCaseConstructor = regexp.MustCompile(`(?i)\b(it|test|spec)\s*\(`)
var describeCall = regexp.MustCompile(`(?i)\b(describe|it|test)\s*\(\s*['"\x60]([^'"\x60]+)['"\x60]`)
var namedTargetCall = regexp.MustCompile(`(?i)\b(expect|assert|spy|mock)\s*\(\s*['"\x60]?([A-Za-z_][A-Za-z0-9_]*)`)

// CandidateTestPaths returns the fixed suffix/extension transformation
// table for filePath, in the order the first existing path should win.
func CandidateTestPaths(filePath string) []string {
	if filePath == "" {
		return nil
	}
	dir := filepath.Dir(filePath)
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	switch ext {
	case ".go":
		if strings.HasSuffix(stem, "_test") {
			return nil
		}
		return []string{filepath.Join(dir, stem+"_test.go")}
	case ".py":
		return []string{
			filepath.Join(dir, "test_"+stem+".py"),
			filepath.Join(dir, "tests", "test_"+stem+".py"),
			filepath.Join(dir, stem+"_test.py"),
		}
	case ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs":
		return []string{
			filepath.Join(dir, stem+".test"+ext),
			filepath.Join(dir, stem+".spec"+ext),
			filepath.Join(dir, "test", stem+".test"+ext),
			filepath.Join(dir, "__tests__", stem+".test"+ext),
		}
	}
	return nil
}

// namedDeclaration is a declaration name + line extracted from tree,
// collapsed for duplicates before category matching.
type namedDeclaration struct {
	name string
	line int
}

func namedDeclarations(root *treeview.Node) []namedDeclaration {
	var out []namedDeclaration
	seen := map[string]bool{}
	treeview.Walk(root, treeview.Visitor{Enter: func(n *treeview.Node) bool {
		switch n.Kind {
		case treeview.KindFunctionLike, treeview.KindMethodLike, treeview.KindLambdaLike, treeview.KindClassLike:
			if n.Name != "" && !seen[n.Name] {
				seen[n.Name] = true
				out = append(out, namedDeclaration{name: n.Name, line: n.Start.Line})
			}
		}
		return true
	}})
	return out
}

// Analyze produces a HamReport for tree. testSource is the contents of
// the first test file CandidateTestPaths found to exist, or "" when none
// did.
func Analyze(tree *treeview.Tree, testSource string) types.HamReport {
	if tree == nil || tree.ParseFailed {
		return types.HamReport{GoldenTestCoverage: 0}
	}

	var criticalPaths []types.CriticalPath
	for _, decl := range namedDeclarations(tree.Root) {
		for _, rule := range categoryRules {
			if rule.pattern.MatchString(decl.name) {
				criticalPaths = append(criticalPaths, types.CriticalPath{
					Name:     decl.name,
					Line:     decl.line,
					Category: rule.category,
					Reason:   "name matches " + rule.category + " pattern",
				})
				break
			}
		}
	}

	testInfo := types.TestInfo{}
	if testSource != "" {
		for _, sig := range frameworkSignatures {
			if sig.pattern.MatchString(testSource) {
				testInfo.Framework = sig.name
				break
			}
		}
		testInfo.TestCount = len(testCaseConstructor.FindAllString(testSource, -1))
		testInfo.DescribedNames = describedNames(testSource)
	}

	describedSet := map[string]bool{}
	for _, n := range testInfo.DescribedNames {
		describedSet[strings.ToLower(n)] = true
	}

	var untested []string
	for _, cp := range criticalPaths {
		if !describedSet[strings.ToLower(cp.Name)] {
			untested = append(untested, cp.Name)
		}
	}

	coverage := 1.0
	if len(criticalPaths) > 0 {
		coverage = float64(len(criticalPaths)-len(untested)) / float64(len(criticalPaths))
	}

	return types.HamReport{
		GoldenTestCoverage:    coverage,
		CriticalPaths:         criticalPaths,
		UntestedCriticalPaths: untested,
		TestInfo:              testInfo,
	}
}

func describedNames(testSource string) []string {
	seen := map[string]bool{}
	var out []string

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if fillerWords[strings.ToLower(name)] {
			return
		}
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			out = append(out, name)
		}
	}

	for _, m := range describeCall.FindAllStringSubmatch(testSource, -1) {
		add(m[2])
	}
	for _, m := range namedTargetCall.FindAllStringSubmatch(testSource, -1) {
		add(m[2])
	}

	return out
}
