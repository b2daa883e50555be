package tsview_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandwich-gate/complexity/pkg/treeview"
	"github.com/sandwich-gate/complexity/pkg/treeview/tsview"
)

func TestParseJavaScriptFunctionDeclaration(t *testing.T) {
	tr := tsview.Parse(`function add(a, b) { return a + b; }`, "add.js", false)
	require.False(t, tr.ParseFailed)
	require.Equal(t, "javascript", tr.Language)

	fns := treeview.Find(tr.Root, treeview.KindFunctionLike)
	require.Len(t, fns, 1)
	require.Equal(t, "add", fns[0].Name)
}

func TestParseTypeScriptArrowFunctionIsLambdaLike(t *testing.T) {
	tr := tsview.Parse(`const add = (a: number, b: number): number => a + b;`, "add.ts", true)
	require.Equal(t, "typescript", tr.Language)

	lambdas := treeview.Find(tr.Root, treeview.KindLambdaLike)
	require.NotEmpty(t, lambdas)
}

func TestParseNestedIfIncreasesNesting(t *testing.T) {
	src := `function f(x) {
  if (x > 0) {
    if (x > 10) {
      return 1;
    }
  }
  return 0;
}`
	tr := tsview.Parse(src, "f.js", false)
	require.Equal(t, 2, treeview.MaxNesting(tr.Root))
}

func TestParseAwaitExpression(t *testing.T) {
	src := `async function f() { await doThing(); }`
	tr := tsview.Parse(src, "f.js", false)
	awaits := treeview.Find(tr.Root, treeview.KindAwait)
	require.NotEmpty(t, awaits)
}

func TestParseDecoratorApplication(t *testing.T) {
	src := `class Foo {
  @Injectable()
  method() {}
}`
	tr := tsview.Parse(src, "foo.ts", true)
	decorators := treeview.Find(tr.Root, treeview.KindDecoratorApplication)
	require.NotEmpty(t, decorators)
}
