package ir

import (
	"errors"
	"strings"
	"testing"

	"github.com/reusee/tnl/symbols"
	"github.com/reusee/tnl/syntax"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

var testSchema = values.Schema{
	{Name: "name", Type: values.TypeStr},
	{Name: "age", Type: values.TypeInt},
	{Name: "score", Type: values.TypeFloat},
}

func lower(t *testing.T, src string) (*Graph, error) {
	t.Helper()
	prog, err := syntax.ParseSource(tokens.NewSource("test", src))
	if err != nil {
		t.Fatal(err)
	}
	res, err := symbols.Resolve(prog, testSchema)
	if err != nil {
		t.Fatal(err)
	}
	return Lower(res)
}

func mustLower(t *testing.T, src string) *Graph {
	t.Helper()
	g, err := lower(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("%s\n%s", err, g)
	}
	return g
}

func count(g *Graph, fn func(*Node) bool) int {
	n := 0
	for i := range g.Nodes {
		if fn(&g.Nodes[i]) {
			n++
		}
	}
	return n
}

func TestLowerFilterSelect(t *testing.T) {
	g := mustLower(t, "filter(age >= 18) select(name, age)")
	root := g.Node(g.Root)
	if root.Op != OpProject || root.Collapse {
		t.Fatalf("got %s", g)
	}
	if s := root.Schema.String(); s != "name:str, age:int" {
		t.Fatalf("got %s", s)
	}
	filter := g.Node(root.Source)
	if filter.Op != OpFilter || g.Node(filter.Source).Op != OpTable {
		t.Fatalf("got %s", g)
	}
	for _, item := range root.Items {
		if g.Node(item).Scope != root.Source {
			t.Fatalf("got %s", g)
		}
	}
	pred := g.Node(filter.Predicate)
	if g.Node(pred.Left).Scope != filter.Source {
		t.Fatalf("got %s", g)
	}
}

func TestLowerSharesLiterals(t *testing.T) {
	g := mustLower(t, "filter(age > 1 && score > 1) select(age + 1, 'a' as x, 'a' as y)")
	if n := count(g, func(n *Node) bool {
		return n.Op == OpConst && n.Value.Equal(values.Int(1))
	}); n != 1 {
		t.Fatalf("got %d\n%s", n, g)
	}
	if n := count(g, func(n *Node) bool {
		return n.Op == OpConst && n.Value.Equal(values.Str("a"))
	}); n != 1 {
		t.Fatalf("got %d\n%s", n, g)
	}
	// no other sharing happens in lowering
	if n := count(g, func(n *Node) bool {
		return n.Op == OpColumnRef
	}); n != 3 {
		t.Fatalf("got %d\n%s", n, g)
	}
}

func TestLowerAggregates(t *testing.T) {
	g := mustLower(t, "select(sum(score))")
	root := g.Node(g.Root)
	if root.Op != OpAggregate || root.Shape != ShapeScalar || root.Type != values.TypeFloat {
		t.Fatalf("got %s", g)
	}

	g = mustLower(t, "filter(age > 1) select(sum(age) as total, count(name) + 1, 2)")
	root = g.Node(g.Root)
	if root.Op != OpProject || !root.Collapse {
		t.Fatalf("got %s", g)
	}
	if s := root.Schema.String(); s != "total:int, count(name) + 1:int, 2:int" {
		t.Fatalf("got %s", s)
	}
	agg := g.Node(root.Items[0])
	if agg.Source != root.Source {
		t.Fatalf("got %s", g)
	}

	g = mustLower(t, "select(avg(age) as a) select(a * 2)")
	if g.Node(g.Root).Schema[0].Type != values.TypeFloat {
		t.Fatalf("got %s", g)
	}
}

func TestLowerBindings(t *testing.T) {
	g := mustLower(t, "let next = age + 1; filter(next > 2) select(next)")
	// lowered once for the table and once for the filtered rows
	if n := count(g, func(n *Node) bool {
		return n.Op == OpColumnRef
	}); n != 2 {
		t.Fatalf("got %d\n%s", n, g)
	}

	g = mustLower(t, "let f: float = age; let n: str = null; select(f, n, f as g)")
	root := g.Node(g.Root)
	if s := root.Schema.String(); s != "f:float, n:str, g:float" {
		t.Fatalf("got %s", s)
	}
	if g.Node(root.Items[0]).Func != "float" || root.Items[0] != root.Items[2] {
		t.Fatalf("got %s", g)
	}
}

func TestLowerAggregateBinding(t *testing.T) {
	g := mustLower(t, "let c = count(age); select(c, max(score) as m)")
	root := g.Node(g.Root)
	if root.Op != OpProject || !root.Collapse || root.Schema.String() != "c:int, m:float" {
		t.Fatalf("got %s", g)
	}

	// the use position is reported
	_, err := lower(t, "let c = count(age); filter(age > 17) select(c)")
	var typeErr *TypeError
	if !errors.As(err, &typeErr) || typeErr.Pos.Column != 45 {
		t.Fatalf("got %v", err)
	}
}

func TestLowerErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"select(name, count(name))", "outside an aggregate"},
		{"select(age - avg(age))", "outside an aggregate"},
		{"filter(sum(age) > 1)", "aggregate in filter"},
		{"select(sum(sum(age)))", "nested aggregate"},
		{"select(sum(age)) select(1)", "follows a scalar result"},
		{"filter(age)", "must be bool"},
		{"select(name + 1)", "not defined"},
		{"select(upper(age))", "must be str"},
		{"select(sum(name))", "not defined"},
		{"filter(age && true)", "bool operands"},
		{"select(len('a', 'b'))", "arguments"},
		{"let c = count(age); filter(age > 17) select(c)", "aggregate binding c used after a filter"},
		{"let c = sum(age) + 1; let d = c * 2; filter(true) select(d)", "aggregate binding c used after a filter"},
	}
	for _, test := range tests {
		_, err := lower(t, test.src)
		var typeErr *TypeError
		if !errors.As(err, &typeErr) {
			t.Fatalf("%s: got %v", test.src, err)
		}
		if !strings.Contains(typeErr.Msg, test.msg) {
			t.Fatalf("%s: got %v", test.src, typeErr)
		}
		if !typeErr.Pos.IsValid() {
			t.Fatalf("%s: no position", test.src)
		}
	}
}

func TestLowerEmptyProgram(t *testing.T) {
	g := mustLower(t, "")
	if len(g.Nodes) != 1 || g.Node(g.Root).Op != OpTable {
		t.Fatalf("got %s", g)
	}
}
