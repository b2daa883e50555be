// Package pyview adapts Python source to the uniform treeview.Tree using
// the go-tree-sitter python grammar.
package pyview

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/sandwich-gate/complexity/pkg/treeview"
)

var nodeKindByType = map[string]treeview.NodeKind{
	"function_definition":  treeview.KindFunctionLike,
	"lambda":               treeview.KindLambdaLike,
	"class_definition":     treeview.KindClassLike,
	"if_statement":         treeview.KindIf,
	"elif_clause":          treeview.KindElseIf,
	"for_statement":        treeview.KindForEach,
	"while_statement":      treeview.KindWhile,
	"try_statement":        treeview.KindTryCatch,
	"except_clause":        treeview.KindCatchClause,
	"match_statement":      treeview.KindSwitchMatch,
	"await":                treeview.KindAwait,
	"call":                 treeview.KindCallExpression,
	"attribute":            treeview.KindPropertyAccess,
	"identifier":           treeview.KindIdentifier,
	"assignment":           treeview.KindVariableDecl,
	"parameter":            treeview.KindParameter,
	"list_splat_pattern":   treeview.KindRestParameter,
	"dictionary_splat":     treeview.KindSpreadInCall,
	"list_splat":           treeview.KindSpreadInCall,
	"decorator":            treeview.KindDecoratorApplication,
	"type_parameter":       treeview.KindGenericParamList,
	"string":               treeview.KindStringLiteral,
	"comment":              treeview.KindComment,
}

// Parse converts Python source into a treeview.Tree. async def bodies are
// not distinguished from def at the grammar level; await/async markers
// nested inside are what the SAR async detector keys off of.
func Parse(source, path string) *treeview.Tree {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	content := []byte(source)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil || tree == nil {
		return treeview.SentinelTree("python")
	}
	defer tree.Close()

	root := convert(tree.RootNode(), content)
	return &treeview.Tree{Root: root, Language: "python"}
}

// nodeName resolves the identifying name for grammar node shapes the
// cheese/bread analyzers key their detection off of. Declaration-shaped
// nodes (function_definition, class_definition, ...) carry a "name" field
// and fall through to the bottom case; call's callee lives in its
// "function" field, attribute's member name lives in its "attribute"
// field, and a bare identifier leaf has no named child — its content is
// its name.
func nodeName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "identifier":
		return n.Content(src)
	case "attribute":
		if attr := n.ChildByFieldName("attribute"); attr != nil {
			return attr.Content(src)
		}
		return ""
	case "call":
		callee := n.ChildByFieldName("function")
		if callee == nil {
			return ""
		}
		return nodeName(callee, src)
	}
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		return nameNode.Content(src)
	}
	return ""
}

func convert(n *sitter.Node, src []byte) *treeview.Node {
	kind, ok := nodeKindByType[n.Type()]
	if !ok {
		kind = treeview.KindClassLike
	}

	name := nodeName(n, src)

	out := &treeview.Node{
		Kind:  kind,
		Name:  name,
		Text:  n.Content(src),
		Start: treeview.Position{Line: int(n.StartPoint().Row) + 1, Column: int(n.StartPoint().Column) + 1},
		End:   treeview.Position{Line: int(n.EndPoint().Row) + 1, Column: int(n.EndPoint().Column) + 1},
	}

	if kind == treeview.KindStringLiteral {
		out.Name = strings.Trim(out.Text, "'\"")
	}

	childCount := int(n.ChildCount())
	for i := 0; i < childCount; i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		out.Children = append(out.Children, convert(child, src))
	}
	return out
}
