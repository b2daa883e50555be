package gate

import (
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sandwich-gate/complexity/pkg/types"
)

// waiverFile mirrors the .waiver.json document of spec.md §6.
type waiverFile struct {
	Version string               `json:"version"`
	Waivers []types.WaiverRecord `json:"waivers"`
}

// Store caches parsed .waiver.json files keyed by path, invalidating an
// entry when the file's mtime changes. There is no background watcher —
// per spec.md §3 a WaiverRecord has no long-lived cache beyond a single
// process run, so a stat-on-read check is all the freshness this needs.
type Store struct {
	mu      sync.RWMutex
	entries map[string]cachedWaiverFile
}

type cachedWaiverFile struct {
	modTime time.Time
	parsed  *waiverFile
}

// NewStore returns an empty waiver store.
func NewStore() *Store {
	return &Store{entries: make(map[string]cachedWaiverFile)}
}

func (s *Store) load(path string) (*waiverFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached, ok := s.entries[path]
	s.mu.RUnlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.parsed, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wf waiverFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	s.mu.Lock()
	s.entries[path] = cachedWaiverFile{modTime: info.ModTime(), parsed: &wf}
	s.mu.Unlock()

	return &wf, nil
}

// findWaiverFile walks upward from filepath.Dir(filePath) to projectRoot
// looking for a .waiver.json, per spec.md §4.8.
func findWaiverFile(filePath, projectRoot string) string {
	dir := filepath.Dir(filePath)
	for {
		candidate := filepath.Join(dir, ".waiver.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if dir == projectRoot {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

const essentialComplexityVarName = "__essential_complexity__"

// inlineWaiverConfig is the decoded shape of a Go source's
//
//	var __essential_complexity__ = map[string]any{"adr": "...", "nesting": N, "conceptsTotal": N}
//
// declaration: an escape hatch for the rare file whose essential
// (not accidental) complexity legitimately exceeds a stage's ceiling.
type inlineWaiverConfig struct {
	adr           string
	nesting       *int
	conceptsTotal *int
}

// parseInlineWaiver looks for a top-level __essential_complexity__ var
// declaration in source and decodes its map-literal value. Returns nil
// when the declaration is absent or not shaped as expected.
func parseInlineWaiver(source string) *inlineWaiverConfig {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", source, parser.ParseComments)
	if err != nil {
		return nil
	}

	for _, decl := range f.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}
		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range valueSpec.Names {
				if name.Name == essentialComplexityVarName && i < len(valueSpec.Values) {
					return decodeInlineWaiverLiteral(valueSpec.Values[i])
				}
			}
		}
	}
	return nil
}

// decodeInlineWaiverLiteral reads string/int keyed entries out of a
// composite map literal, e.g. map[string]any{"adr": "docs/ADR-7.md"}.
func decodeInlineWaiverLiteral(expr ast.Expr) *inlineWaiverConfig {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return nil
	}
	cfg := &inlineWaiverConfig{}
	found := false
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.BasicLit)
		if !ok || key.Kind != token.STRING {
			continue
		}
		keyName, err := strconv.Unquote(key.Value)
		if err != nil {
			continue
		}
		switch strings.ToLower(keyName) {
		case "adr":
			if v, ok := kv.Value.(*ast.BasicLit); ok && v.Kind == token.STRING {
				if s, err := strconv.Unquote(v.Value); err == nil {
					cfg.adr = s
					found = true
				}
			}
		case "nesting":
			if v, ok := kv.Value.(*ast.BasicLit); ok && v.Kind == token.INT {
				if n, err := strconv.Atoi(v.Value); err == nil {
					cfg.nesting = &n
					found = true
				}
			}
		case "conceptstotal":
			if v, ok := kv.Value.(*ast.BasicLit); ok && v.Kind == token.INT {
				if n, err := strconv.Atoi(v.Value); err == nil {
					cfg.conceptsTotal = &n
					found = true
				}
			}
		}
	}
	if !found {
		return nil
	}
	return cfg
}

// MatchInline is the fallback waiver source of last resort, used only
// when no external .waiver.json pattern matched: it looks for an inline
// __essential_complexity__ declaration in source and, if present, honors
// it only when its ADR file exists on disk and carries real content (not
// an empty stub). filePath/projectRoot locate the ADR path; when
// projectRoot is empty the ADR is resolved relative to filePath's
// directory instead.
func (s *Store) MatchInline(source, filePath, projectRoot string) *types.WaiverRecord {
	cfg := parseInlineWaiver(source)
	if cfg == nil || cfg.adr == "" {
		return nil
	}

	var adrPath string
	switch {
	case projectRoot != "":
		adrPath = filepath.Join(projectRoot, cfg.adr)
	case filePath != "":
		adrPath = filepath.Join(filepath.Dir(filePath), cfg.adr)
	default:
		adrPath = cfg.adr
	}

	content, err := os.ReadFile(adrPath)
	if err != nil || len(strings.TrimSpace(string(content))) < 50 {
		return nil
	}

	return &types.WaiverRecord{
		Pattern:       "*",
		ADR:           cfg.adr,
		Justification: "inline __essential_complexity__ escape hatch",
		Approver:      "inline",
	}
}

const supportedWaiverSchemaVersion = "1.0"

// Match finds the active waiver (if any) whose pattern matches filePath,
// preferring the most specific (longest) pattern among candidates. Any
// load/schema/date-format errors are swallowed; use MatchWithAdvisories
// to surface them to a caller that needs to report advisories.
func (s *Store) Match(filePath, projectRoot string) *types.WaiverRecord {
	w, _ := s.MatchWithAdvisories(filePath, projectRoot)
	return w
}

// MatchWithAdvisories is Match plus the spec.md §7 advisory notes for
// waiver errors: malformed JSON, an unrecognized schema version, or a
// malformed expiresAt date all cause the offending waiver(s) to be
// ignored (analysis proceeds as if no waiver existed) with an advisory
// attached, rather than failing the caller outright. A pattern that
// simply doesn't match the file, or a waiver that has cleanly expired,
// is skipped silently — that's normal operation, not an error.
func (s *Store) MatchWithAdvisories(filePath, projectRoot string) (*types.WaiverRecord, []string) {
	if filePath == "" || projectRoot == "" {
		return nil, nil
	}
	path := findWaiverFile(filePath, projectRoot)
	if path == "" {
		return nil, nil
	}
	wf, err := s.load(path)
	if err != nil {
		return nil, []string{"waiver-invalid: malformed .waiver.json: " + err.Error()}
	}
	if wf == nil {
		return nil, nil
	}
	if wf.Version != "" && wf.Version != supportedWaiverSchemaVersion {
		return nil, []string{"waiver-invalid: unknown waiver schema version " + wf.Version}
	}

	rel, err := filepath.Rel(projectRoot, filePath)
	if err != nil {
		rel = filePath
	}
	rel = filepath.ToSlash(rel)

	var advisories []string
	var best *types.WaiverRecord
	for i := range wf.Waivers {
		w := &wf.Waivers[i]
		if !globMatch(w.Pattern, rel) {
			continue
		}
		expired, malformed := expiryStatus(w)
		if malformed {
			advisories = append(advisories, "waiver-invalid: malformed expiresAt for pattern "+w.Pattern)
			continue
		}
		if expired {
			continue
		}
		if w.Convergence != nil && !w.Convergence.Satisfied() {
			continue
		}
		if best == nil || len(w.Pattern) > len(best.Pattern) {
			best = w
		}
	}
	return best, advisories
}

// expiryStatus reports whether w has expired, and separately whether its
// expiresAt date (if present) failed to parse as YYYY-MM-DD.
func expiryStatus(w *types.WaiverRecord) (expired, malformed bool) {
	if w.ExpiresAt == nil || *w.ExpiresAt == "" {
		return false, false
	}
	expiry, err := time.Parse("2006-01-02", *w.ExpiresAt)
	if err != nil {
		return false, true
	}
	return time.Now().After(expiry), false
}

// globMatch supports standard * and ** glob semantics: * matches within
// one path segment, ** matches across segments.
func globMatch(pattern, path string) bool {
	pattern = filepath.ToSlash(pattern)
	path = filepath.ToSlash(path)

	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "**") {
		return false
	}

	segments := strings.Split(pattern, "**")
	if !strings.HasPrefix(path, strings.TrimSuffix(segments[0], "/")) && segments[0] != "" {
		if !strings.HasPrefix(path, segments[0]) {
			return false
		}
	}
	rest := path
	for i, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg == "" {
			continue
		}
		idx := strings.Index(rest, seg)
		if idx == -1 {
			return false
		}
		if i == 0 && idx != 0 && segments[0] != "" {
			return false
		}
		rest = rest[idx+len(seg):]
	}
	return true
}
