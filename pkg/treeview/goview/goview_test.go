package goview_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandwich-gate/complexity/pkg/treeview"
	"github.com/sandwich-gate/complexity/pkg/treeview/goview"
)

func TestParseInvalidSourceReturnsSentinel(t *testing.T) {
	tr := goview.Parse("this is not valid go {{{", "broken.go")
	require.True(t, tr.ParseFailed)
	require.Equal(t, "go", tr.Language)
}

func TestParseFunctionDeclaration(t *testing.T) {
	src := `package p

func Add(a, b int) int {
	return a + b
}
`
	tr := goview.Parse(src, "p.go")
	require.False(t, tr.ParseFailed)

	fns := treeview.Find(tr.Root, treeview.KindFunctionLike)
	require.Len(t, fns, 1)
	require.Equal(t, "Add", fns[0].Name)
}

func TestParseMethodIsMethodLike(t *testing.T) {
	src := `package p

type T struct{}

func (t T) Do() {}
`
	tr := goview.Parse(src, "p.go")
	methods := treeview.Find(tr.Root, treeview.KindMethodLike)
	require.Len(t, methods, 1)
	require.Equal(t, "Do", methods[0].Name)
}

func TestParseNestedIfIncreasesNesting(t *testing.T) {
	src := `package p

func F(x int) int {
	if x > 0 {
		if x > 10 {
			return 1
		}
	}
	return 0
}
`
	tr := goview.Parse(src, "p.go")
	require.Equal(t, 2, treeview.MaxNesting(tr.Root))
}

func TestParseGoStmtIsGoroutineSpawn(t *testing.T) {
	src := `package p

func F() {
	go doWork()
}
`
	tr := goview.Parse(src, "p.go")
	spawns := treeview.Find(tr.Root, treeview.KindGoroutineSpawn)
	require.Len(t, spawns, 1)
}

func TestParseChannelReceiveIsChannelOp(t *testing.T) {
	src := `package p

func F(ch chan int) int {
	return <-ch
}
`
	tr := goview.Parse(src, "p.go")
	ops := treeview.Find(tr.Root, treeview.KindChannelOp)
	require.NotEmpty(t, ops)
}

func TestParseCallExpressionCapturesCalleeName(t *testing.T) {
	src := `package p

func F() {
	doSomething()
}
`
	tr := goview.Parse(src, "p.go")
	calls := treeview.Find(tr.Root, treeview.KindCallExpression)
	require.NotEmpty(t, calls)
	found := false
	for _, c := range calls {
		if c.Name == "doSomething" {
			found = true
		}
	}
	require.True(t, found)
}
