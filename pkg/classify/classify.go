// Package classify maps a source path to an Archetype by ordered glob
// matching against a fixed pattern table, per spec.md §4.5.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/sandwich-gate/complexity/pkg/types"
)

// patternRule is one entry of the ordered classification table. Glob is
// matched against the path with forward slashes only; Classify normalizes
// backslashes to forward slashes before matching.
type patternRule struct {
	archetype types.Archetype
	globs     []string
}

// table is deploy first, then api-external, api-internal, app, lib-domain,
// lib-infra, then default — first match wins, per spec.md §4.5.
var table = []patternRule{
	{types.ArchetypeDeploy, []string{
		"*/deploy/*", "deploy/*", "*/deployment/*", "*/infra/terraform/*",
		"*/k8s/*", "*/helm/*", "*.tf",
	}},
	{types.ArchetypeAPIExternal, []string{
		"*/api/external/*", "*/api/public/*", "*/api/v*/external/*",
	}},
	{types.ArchetypeAPIInternal, []string{
		"*/api/*",
	}},
	{types.ArchetypeApp, []string{
		"*/app/*", "*/cmd/*", "*/apps/*",
	}},
	{types.ArchetypeLibDomain, []string{
		"*/lib/domain/*", "*/domain/*", "*/pkg/domain/*",
	}},
	{types.ArchetypeLibInfra, []string{
		"*/lib/*", "*/pkg/*", "*/internal/*",
	}},
}

// Classify maps filePath to an Archetype, or returns override as given if
// it is non-empty (it is not checked against the archetype set). Paths are normalized to forward slashes before matching so the
// table works identically on Windows-style inputs.
func Classify(filePath string, override types.Archetype) types.Archetype {
	if override != "" {
		return override
	}
	if filePath == "" {
		return types.ArchetypeDefault
	}
	norm := strings.ReplaceAll(filePath, "\\", "/")
	if !strings.HasPrefix(norm, "/") {
		norm = "/" + norm
	}
	for _, rule := range table {
		for _, g := range rule.globs {
			if ok, _ := filepath.Match(g, norm); ok {
				return rule.archetype
			}
			// filepath.Match's "*" does not cross "/", so also try
			// matching against every run of consecutive segments
			// starting at a path separator to honor the "*/api/*"-style
			// contains-segment intent regardless of how deep the
			// segment sits or how much path follows it.
			if matchesAnySuffix(g, norm) {
				return rule.archetype
			}
		}
	}
	return types.ArchetypeDefault
}

// matchesAnySuffix reports whether glob matches any suffix of path that
// starts at a separator, or any leading run of whole segments of such a
// suffix.
func matchesAnySuffix(glob, path string) bool {
	parts := strings.Split(path, "/")
	for i := range parts {
		for j := len(parts); j > i; j-- {
			window := "/" + strings.Join(parts[i:j], "/")
			if ok, _ := filepath.Match(glob, window); ok {
				return true
			}
		}
	}
	return false
}

// CanonicalProfiles are the fixed expected simplex points per archetype,
// constants of the system (spec.md §3).
var CanonicalProfiles = map[types.Archetype]types.SimplexPoint{
	types.ArchetypeDeploy:      {Bread: 0.70, Cheese: 0.10, Ham: 0.20},
	types.ArchetypeAPIExternal: {Bread: 0.50, Cheese: 0.20, Ham: 0.30},
	types.ArchetypeAPIInternal: {Bread: 0.30, Cheese: 0.30, Ham: 0.40},
	types.ArchetypeApp:         {Bread: 0.20, Cheese: 0.50, Ham: 0.30},
	types.ArchetypeLibDomain:   {Bread: 0.10, Cheese: 0.30, Ham: 0.60},
	types.ArchetypeLibInfra:    {Bread: 0.20, Cheese: 0.30, Ham: 0.50},
	types.ArchetypeDefault:     {Bread: 1.0 / 3.0, Cheese: 1.0 / 3.0, Ham: 1.0 / 3.0},
}

// Canonical returns the canonical profile for archetype, falling back to
// the default (⅓,⅓,⅓) profile for an unrecognized value.
func Canonical(archetype types.Archetype) types.SimplexPoint {
	if p, ok := CanonicalProfiles[archetype]; ok {
		return p
	}
	return CanonicalProfiles[types.ArchetypeDefault]
}
