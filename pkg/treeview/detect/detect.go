// Package detect chooses a language adapter by file extension and returns
// the resulting treeview.Tree. It is a separate package from treeview
// itself so the per-language adapters (which import treeview) don't form
// an import cycle with the dispatcher.
package detect

import (
	"path/filepath"
	"strings"

	"github.com/sandwich-gate/complexity/pkg/treeview"
	"github.com/sandwich-gate/complexity/pkg/treeview/goview"
	"github.com/sandwich-gate/complexity/pkg/treeview/pyview"
	"github.com/sandwich-gate/complexity/pkg/treeview/tsview"
)

// ParseByPath parses source using the adapter selected by path's
// extension. A path with no extension goes to the Go adapter; any other
// unrecognized extension goes to the JavaScript adapter (the most
// permissive grammar in the pack).
func ParseByPath(source, path string) *treeview.Tree {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return goview.Parse(source, path)
	case ".py":
		return pyview.Parse(source, path)
	case ".ts", ".tsx":
		return tsview.Parse(source, path, true)
	case ".js", ".jsx", ".mjs", ".cjs":
		return tsview.Parse(source, path, false)
	case "":
		return goview.Parse(source, path)
	default:
		return tsview.Parse(source, path, false)
	}
}
