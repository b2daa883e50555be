// Package goview adapts Go source (via the standard library go/parser) to
// the uniform treeview.Tree. go/ast is used instead of a tree-sitter Go
// grammar because it is the official, semantically complete parser for
// the language this analyzer is itself written in — see DESIGN.md.
package goview

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/sandwich-gate/complexity/pkg/treeview"
)

// Parse converts Go source into a treeview.Tree.
func Parse(source, path string) *treeview.Tree {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, source, parser.ParseComments)
	if err != nil {
		return treeview.SentinelTree("go")
	}

	b := &builder{fset: fset, src: source}
	root := b.convert(file)
	return &treeview.Tree{Root: root, Language: "go"}
}

type builder struct {
	fset *token.FileSet
	src  string
}

func (b *builder) pos(p token.Pos) treeview.Position {
	if !p.IsValid() {
		return treeview.Position{}
	}
	pp := b.fset.Position(p)
	return treeview.Position{Line: pp.Line, Column: pp.Column}
}

func (b *builder) node(kind treeview.NodeKind, name string, start, end token.Pos, children ...*treeview.Node) *treeview.Node {
	n := &treeview.Node{Kind: kind, Name: name, Start: b.pos(start), End: b.pos(end)}
	if start.IsValid() && end.IsValid() {
		startOff := b.fset.Position(start).Offset
		endOff := b.fset.Position(end).Offset
		if startOff >= 0 && endOff <= len(b.src) && startOff <= endOff {
			n.Text = b.src[startOff:endOff]
		}
	}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// convert walks the whole file and produces a single synthetic root whose
// children are every top-level declaration, converted recursively.
func (b *builder) convert(file *ast.File) *treeview.Node {
	root := &treeview.Node{Kind: treeview.KindClassLike, Name: file.Name.Name}

	for _, cg := range file.Comments {
		for _, c := range cg.List {
			root.Children = append(root.Children, b.node(treeview.KindComment, "", c.Pos(), c.End()))
		}
	}

	for _, decl := range file.Decls {
		if n := b.convertDecl(decl); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return root
}

func (b *builder) convertDecl(decl ast.Decl) *treeview.Node {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		kind := treeview.KindFunctionLike
		if d.Recv != nil {
			kind = treeview.KindMethodLike
		}
		fn := b.node(kind, d.Name.Name, d.Pos(), d.End())
		if d.Recv != nil {
			for _, f := range d.Recv.List {
				fn.Children = append(fn.Children, b.paramNode(f))
			}
		}
		if d.Type.Params != nil {
			for _, f := range d.Type.Params.List {
				fn.Children = append(fn.Children, b.paramNode(f))
			}
		}
		if d.Body != nil {
			fn.Children = append(fn.Children, b.convertStmt(d.Body))
		}
		return fn
	case *ast.GenDecl:
		n := b.node(treeview.KindVariableDecl, "", d.Pos(), d.End())
		for _, spec := range d.Specs {
			if vs, ok := spec.(*ast.ValueSpec); ok {
				for i, name := range vs.Names {
					child := b.node(treeview.KindVariableDecl, name.Name, name.Pos(), name.End())
					if i < len(vs.Values) {
						child.Children = append(child.Children, b.convertExpr(vs.Values[i]))
					}
					n.Children = append(n.Children, child)
				}
			}
			if ts, ok := spec.(*ast.TypeSpec); ok {
				if _, isStruct := ts.Type.(*ast.StructType); isStruct {
					n.Children = append(n.Children, b.node(treeview.KindClassLike, ts.Name.Name, ts.Pos(), ts.End()))
				}
				if _, isIface := ts.Type.(*ast.InterfaceType); isIface {
					n.Children = append(n.Children, b.node(treeview.KindClassLike, ts.Name.Name, ts.Pos(), ts.End()))
				}
			}
		}
		return n
	}
	return nil
}

func (b *builder) paramNode(f *ast.Field) *treeview.Node {
	kind := treeview.KindParameter
	if _, ok := f.Type.(*ast.Ellipsis); ok {
		kind = treeview.KindRestParameter
	}
	if len(f.Names) == 0 {
		return b.node(kind, "", f.Pos(), f.End())
	}
	n := b.node(kind, f.Names[0].Name, f.Pos(), f.End())
	for _, nm := range f.Names[1:] {
		n.Children = append(n.Children, b.node(kind, nm.Name, nm.Pos(), nm.End()))
	}
	return n
}

func (b *builder) convertStmt(stmt ast.Stmt) *treeview.Node {
	if stmt == nil {
		return nil
	}
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		n := &treeview.Node{Kind: treeview.KindClassLike}
		for _, st := range s.List {
			if c := b.convertStmt(st); c != nil {
				n.Children = append(n.Children, c)
			}
		}
		return n
	case *ast.IfStmt:
		// go/ast represents "else if" as a nested IfStmt in Else, so the
		// recursive call below naturally tags it KindIf rather than
		// KindElseIf; Go has no distinct else-if token to key off of.
		n := b.node(treeview.KindIf, "", s.Pos(), s.End())
		if s.Init != nil {
			n.Children = append(n.Children, b.convertStmt(s.Init))
		}
		n.Children = append(n.Children, b.convertExpr(s.Cond))
		n.Children = append(n.Children, b.convertStmt(s.Body))
		if s.Else != nil {
			n.Children = append(n.Children, b.convertStmt(s.Else))
		}
		return n
	case *ast.ForStmt:
		n := b.node(treeview.KindFor, "", s.Pos(), s.End())
		n.Children = append(n.Children, b.convertStmt(s.Body))
		return n
	case *ast.RangeStmt:
		n := b.node(treeview.KindForEach, "", s.Pos(), s.End())
		n.Children = append(n.Children, b.convertStmt(s.Body))
		return n
	case *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt:
		n := b.node(treeview.KindSwitchMatch, "", stmt.Pos(), stmt.End())
		walkSwitchBody(b, s, n)
		return n
	case *ast.GoStmt:
		n := b.node(treeview.KindGoroutineSpawn, "", s.Pos(), s.End())
		n.Children = append(n.Children, b.convertExpr(s.Call))
		return n
	case *ast.SendStmt:
		return b.node(treeview.KindChannelOp, "", s.Pos(), s.End())
	case *ast.AssignStmt:
		// Lhs is converted first so the assignment target — a SelectorExpr
		// (instance-field assignment, e.g. s.result = ...) or, for a plain
		// Ident, only when Tok != DEFINE (a reassignment of an existing
		// name, not its initial `:=` declaration) — is always the leading
		// child; the cheese analyzer's SAR detector relies on this node
		// shape (Name == "" with an Identifier/PropertyAccess child) to
		// recognize a write, as opposed to a GenDecl var block. `:=` is
		// excluded so ordinary short variable declarations don't read as
		// "state" on their own.
		n := b.node(treeview.KindVariableDecl, "", s.Pos(), s.End())
		for _, lhs := range s.Lhs {
			switch l := lhs.(type) {
			case *ast.SelectorExpr:
				n.Children = append(n.Children, b.convertExpr(l))
			case *ast.Ident:
				if s.Tok != token.DEFINE {
					n.Children = append(n.Children, b.convertExpr(l))
				}
			}
		}
		for _, rhs := range s.Rhs {
			n.Children = append(n.Children, b.convertExpr(rhs))
		}
		return n
	case *ast.ExprStmt:
		return b.convertExpr(s.X)
	case *ast.DeferStmt:
		n := b.node(treeview.KindAsyncBlock, "", s.Pos(), s.End())
		n.Children = append(n.Children, b.convertExpr(s.Call))
		return n
	case *ast.DeclStmt:
		if gd, ok := s.Decl.(*ast.GenDecl); ok {
			return b.convertDecl(gd)
		}
	case *ast.CaseClause:
		n := &treeview.Node{Kind: treeview.KindClassLike}
		for _, st := range s.Body {
			if c := b.convertStmt(st); c != nil {
				n.Children = append(n.Children, c)
			}
		}
		return n
	case *ast.CommClause:
		n := &treeview.Node{Kind: treeview.KindClassLike}
		for _, st := range s.Body {
			if c := b.convertStmt(st); c != nil {
				n.Children = append(n.Children, c)
			}
		}
		return n
	case *ast.ReturnStmt:
		n := &treeview.Node{Kind: treeview.KindClassLike}
		for _, r := range s.Results {
			n.Children = append(n.Children, b.convertExpr(r))
		}
		return n
	}
	n := &treeview.Node{Kind: treeview.KindClassLike}
	ast.Inspect(stmt, func(inner ast.Node) bool {
		if inner == stmt {
			return true
		}
		if expr, ok := inner.(ast.Expr); ok {
			n.Children = append(n.Children, b.convertExpr(expr))
			return false
		}
		return true
	})
	return n
}

func walkSwitchBody(b *builder, s ast.Stmt, n *treeview.Node) {
	switch sw := s.(type) {
	case *ast.SwitchStmt:
		n.Children = append(n.Children, b.convertStmt(sw.Body))
	case *ast.TypeSwitchStmt:
		n.Children = append(n.Children, b.convertStmt(sw.Body))
	case *ast.SelectStmt:
		n.Children = append(n.Children, b.convertStmt(sw.Body))
	}
}

func (b *builder) convertExpr(expr ast.Expr) *treeview.Node {
	if expr == nil {
		return &treeview.Node{Kind: treeview.KindIdentifier}
	}
	switch e := expr.(type) {
	case *ast.Ident:
		return b.node(treeview.KindIdentifier, e.Name, e.Pos(), e.End())
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			return b.node(treeview.KindStringLiteral, strings.Trim(e.Value, "`\""), e.Pos(), e.End())
		}
		return b.node(treeview.KindIdentifier, e.Value, e.Pos(), e.End())
	case *ast.CallExpr:
		n := b.node(treeview.KindCallExpression, calleeName(e.Fun), e.Pos(), e.End())
		n.Children = append(n.Children, b.convertExpr(e.Fun))
		for _, a := range e.Args {
			if _, ok := a.(*ast.Ellipsis); ok {
				n.Children = append(n.Children, b.node(treeview.KindSpreadInCall, "", a.Pos(), a.End()))
				continue
			}
			n.Children = append(n.Children, b.convertExpr(a))
		}
		return n
	case *ast.SelectorExpr:
		n := b.node(treeview.KindPropertyAccess, e.Sel.Name, e.Pos(), e.End())
		n.Children = append(n.Children, b.convertExpr(e.X))
		return n
	case *ast.UnaryExpr:
		if e.Op == token.ARROW {
			return b.node(treeview.KindChannelOp, "", e.Pos(), e.End())
		}
		n := b.node(treeview.KindIdentifier, "", e.Pos(), e.End())
		n.Children = append(n.Children, b.convertExpr(e.X))
		return n
	case *ast.BinaryExpr:
		n := b.node(treeview.KindIdentifier, "", e.Pos(), e.End())
		n.Children = append(n.Children, b.convertExpr(e.X), b.convertExpr(e.Y))
		return n
	case *ast.FuncLit:
		n := b.node(treeview.KindLambdaLike, "", e.Pos(), e.End())
		if e.Body != nil {
			n.Children = append(n.Children, b.convertStmt(e.Body))
		}
		return n
	case *ast.CompositeLit:
		n := b.node(treeview.KindIdentifier, "", e.Pos(), e.End())
		for _, el := range e.Elts {
			n.Children = append(n.Children, b.convertExpr(el))
		}
		return n
	case *ast.KeyValueExpr:
		n := b.node(treeview.KindIdentifier, "", e.Pos(), e.End())
		n.Children = append(n.Children, b.convertExpr(e.Value))
		return n
	case *ast.ParenExpr:
		return b.convertExpr(e.X)
	case *ast.IndexExpr:
		n := b.node(treeview.KindIdentifier, "", e.Pos(), e.End())
		n.Children = append(n.Children, b.convertExpr(e.X))
		return n
	case *ast.TypeAssertExpr:
		return b.convertExpr(e.X)
	}
	return b.node(treeview.KindIdentifier, "", expr.Pos(), expr.End())
}

func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	}
	return ""
}
