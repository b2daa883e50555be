// Package treeview defines the uniform syntax-tree view that every
// language-specific adapter must produce. The analyzers in pkg/analyzer
// consume only this interface; they never see go/ast, tree-sitter, or any
// other concrete parser type.
package treeview

// NodeKind is the closed set of abstract node kinds the analyzers reason
// about. A language adapter maps its own concrete grammar onto this set;
// kinds with no equivalent in a given language are simply never emitted.
type NodeKind string

const (
	KindFunctionLike        NodeKind = "FunctionLike"
	KindMethodLike          NodeKind = "MethodLike"
	KindLambdaLike          NodeKind = "LambdaLike"
	KindClassLike           NodeKind = "ClassLike"
	KindIf                  NodeKind = "If"
	KindElseIf              NodeKind = "ElseIf"
	KindFor                 NodeKind = "For"
	KindWhile               NodeKind = "While"
	KindDoWhile             NodeKind = "DoWhile"
	KindForEach             NodeKind = "ForEach"
	KindTryCatch            NodeKind = "TryCatch"
	KindCatchClause         NodeKind = "CatchClause"
	KindSwitchMatch         NodeKind = "SwitchMatch"
	KindAwait               NodeKind = "Await"
	KindAsyncBlock          NodeKind = "AsyncBlock"
	KindGoroutineSpawn      NodeKind = "GoroutineSpawn"
	KindChannelOp           NodeKind = "ChannelOp"
	KindCallExpression      NodeKind = "CallExpression"
	KindPropertyAccess      NodeKind = "PropertyAccess"
	KindIdentifier          NodeKind = "Identifier"
	KindVariableDecl        NodeKind = "VariableDecl"
	KindParameter           NodeKind = "Parameter"
	KindRestParameter       NodeKind = "RestParameter"
	KindSpreadInCall        NodeKind = "SpreadInCall"
	KindDecoratorApplication NodeKind = "DecoratorApplication"
	KindGenericParamList    NodeKind = "GenericParamList"
	KindUnionType           NodeKind = "UnionType"
	KindIntersectionType    NodeKind = "IntersectionType"
	KindConditionalType     NodeKind = "ConditionalType"
	KindMappedType          NodeKind = "MappedType"
	KindTypePredicate       NodeKind = "TypePredicate"
	KindStringLiteral       NodeKind = "StringLiteral"
	KindComment             NodeKind = "Comment"
)

// NestingKinds are the control-structure kinds that contribute to nesting
// depth per spec.md §4.2(a)/(d). Kept as a set so every adapter and the
// cheese analyzer agree on exactly which kinds count.
var NestingKinds = map[NodeKind]bool{
	KindIf:          true,
	KindElseIf:      true,
	KindFor:         true,
	KindWhile:       true,
	KindDoWhile:     true,
	KindForEach:     true,
	KindTryCatch:    true,
	KindSwitchMatch: true,
}

// Position is a 1-indexed line/column location, carried by every Node.
type Position struct {
	Line   int
	Column int
}

// Node is a single entry in the uniform tree view. Name is the node's
// identifier text when meaningful (function/parameter/identifier name,
// string literal contents); it is empty otherwise. Children are in source
// order. Text is the raw source span covered by the node, used by
// detectors that need to pattern-match literal content (secrets, retry
// identifiers).
type Node struct {
	Kind     NodeKind
	Name     string
	Text     string
	Start    Position
	End      Position
	Children []*Node
}

// Tree is the adapter contract of spec.md §4.1: a source string and a
// nominal path go in, a uniform tree view comes out.
type Tree struct {
	Root        *Node
	ParseFailed bool
	Language    string
}

// Visitor is the capability set used by Walk. Either function may be nil.
// Returning false from Enter skips the node's children (but Leave is still
// not called for skipped subtrees).
type Visitor struct {
	Enter func(n *Node) bool
	Leave func(n *Node)
}

// Walk performs a generic pre-order traversal of tree, parameterized by a
// Visitor capability set, per spec.md §9's "shared traversal is a generic
// pre-order walk" guidance.
func Walk(root *Node, v Visitor) {
	if root == nil {
		return
	}
	descend := true
	if v.Enter != nil {
		descend = v.Enter(root)
	}
	if descend {
		for _, c := range root.Children {
			Walk(c, v)
		}
	}
	if v.Leave != nil {
		v.Leave(root)
	}
}

// Find returns every node matching kind anywhere under root.
func Find(root *Node, kind NodeKind) []*Node {
	var out []*Node
	Walk(root, Visitor{Enter: func(n *Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	}})
	return out
}

// MaxNesting returns the deepest nesting level reachable from root, where
// entering any NestingKinds node adds one level, matching spec.md §4.2(a).
func MaxNesting(root *Node) int {
	max := 0
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		d := depth
		if NestingKinds[n.Kind] {
			d++
			if d > max {
				max = d
			}
		}
		for _, c := range n.Children {
			walk(c, d)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return max
}

// SentinelTree returns the empty, parse-failed tree adapters return on a
// parser error, per spec.md §4.1.
func SentinelTree(language string) *Tree {
	return &Tree{Root: &Node{Kind: KindClassLike}, ParseFailed: true, Language: language}
}
