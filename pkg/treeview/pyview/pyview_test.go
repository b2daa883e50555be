package pyview_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandwich-gate/complexity/pkg/treeview"
	"github.com/sandwich-gate/complexity/pkg/treeview/pyview"
)

func TestParseFunctionDefinition(t *testing.T) {
	tr := pyview.Parse("def add(a, b):\n    return a + b\n", "add.py")
	require.False(t, tr.ParseFailed)
	require.Equal(t, "python", tr.Language)

	fns := treeview.Find(tr.Root, treeview.KindFunctionLike)
	require.Len(t, fns, 1)
	require.Equal(t, "add", fns[0].Name)
}

func TestParseNestedIfIncreasesNesting(t *testing.T) {
	src := "def f(x):\n    if x > 0:\n        if x > 10:\n            return 1\n    return 0\n"
	tr := pyview.Parse(src, "f.py")
	require.Equal(t, 2, treeview.MaxNesting(tr.Root))
}

func TestParseExceptClauseIsCatchClause(t *testing.T) {
	src := "try:\n    risky()\nexcept ValueError:\n    pass\n"
	tr := pyview.Parse(src, "f.py")
	catches := treeview.Find(tr.Root, treeview.KindCatchClause)
	require.NotEmpty(t, catches)
}

func TestParseDecorator(t *testing.T) {
	src := "@staticmethod\ndef f():\n    pass\n"
	tr := pyview.Parse(src, "f.py")
	decorators := treeview.Find(tr.Root, treeview.KindDecoratorApplication)
	require.NotEmpty(t, decorators)
}
