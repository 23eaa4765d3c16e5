package syntax

import (
	"errors"
	"testing"

	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseSource(tokens.NewSource("test", src))
	if err != nil {
		t.Fatalf("%q: %v", src, err)
	}
	return prog
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"filter(age >= 18) select(name, age)", "filter(age >= 18)\nselect(name, age)"},
		{"select(sum(score))", "select(sum(score))"},
		{"filter(a || b && c)", "filter(a || b && c)"},
		{"filter((a || b) && c)", "filter((a || b) && c)"},
		{"select(1 + 2 * 3)", "select(1 + 2 * 3)"},
		{"select((1 + 2) * 3)", "select((1 + 2) * 3)"},
		{"select(1 - (2 - 3))", "select(1 - (2 - 3))"},
		{"select(1 - 2 - 3)", "select(1 - 2 - 3)"},
		{"select(-a * b, !(x == y))", "select(-a * b, !(x == y))"},
		{"filter(a < b == c > d)", "filter(a < b == c > d)"},
		{"select(upper(name) as n, 'x')", `select(upper(name) as n, "x")`},
		{"let adult: bool = age >= 18; filter(adult)", "let adult: bool = age >= 18\nfilter(adult)"},
		{"select(1.5, true, null, x % 2)", "select(1.5, true, null, x % 2)"},
		{"filter(a and not b or c)", "filter(a && !b || c)"},
		{"", ""},
	}
	for _, test := range tests {
		prog := parse(t, test.input)
		if got := Format(prog); got != test.want {
			t.Fatalf("%q: got %q", test.input, got)
		}
	}
}

func TestParseShape(t *testing.T) {
	prog := parse(t, "filter(a + b * c > 1)")
	filter, ok := prog.Statements[0].(*Filter)
	if !ok {
		t.Fatalf("got %T", prog.Statements[0])
	}
	gt, ok := filter.Predicate.(*Binary)
	if !ok || gt.Op != ">" {
		t.Fatalf("got %#v", filter.Predicate)
	}
	add, ok := gt.Left.(*Binary)
	if !ok || add.Op != "+" {
		t.Fatalf("got %#v", gt.Left)
	}
	mul, ok := add.Right.(*Binary)
	if !ok || mul.Op != "*" {
		t.Fatalf("got %#v", add.Right)
	}
	lit, ok := gt.Right.(*Literal)
	if !ok || !lit.Value.Equal(values.Int(1)) {
		t.Fatalf("got %#v", gt.Right)
	}

	prog = parse(t, "select(count(x))")
	agg, ok := prog.Statements[0].(*Select).Items[0].Expr.(*Aggregate)
	if !ok || agg.Op != "count" {
		t.Fatalf("got %#v", prog.Statements[0])
	}
}

func TestParseWhitespaceInvariance(t *testing.T) {
	a := parse(t, "filter(age>=18)select(name,age)")
	b := parse(t, `
	# adults only
	filter( age >=
		18 ) ;   // trailing comment
	select ( name , age ) ;
	`)
	if Format(a) != Format(b) {
		t.Fatalf("got %q and %q", Format(a), Format(b))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		line     int
		column   int
	}{
		{"filter(age >= 18", `")"`, 1, 17},
		{"filter age", `"("`, 1, 8},
		{"select()", "expression", 1, 8},
		{"select(a,)", "expression", 1, 10},
		{"foo(1)", "statement", 1, 1},
		{"filter((a)", `")"`, 1, 11},
		{"select(a as 1)", "column alias", 1, 13},
		{"let = 1", "binding name", 1, 5},
		{"let x: blob = 1", "type name", 1, 8},
		{"select(sum(a, b))", "exactly one argument to sum", 1, 8},
		{"select(99999999999999999999)", "integer literal within 64 bits", 1, 8},
	}
	for _, test := range tests {
		_, err := ParseSource(tokens.NewSource("test", test.input))
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("%q: got %v", test.input, err)
		}
		if syntaxErr.Expected != test.expected {
			t.Fatalf("%q: got %v", test.input, syntaxErr)
		}
		if syntaxErr.Pos.Line != test.line || syntaxErr.Pos.Column != test.column {
			t.Fatalf("%q: got %v", test.input, syntaxErr.Pos)
		}
	}
}

func TestParseLexError(t *testing.T) {
	_, err := ParseSource(tokens.NewSource("test", "filter(a @ b)"))
	var lexErr *tokens.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("got %v", err)
	}
}

func TestParseFromSlice(t *testing.T) {
	toks, err := tokens.Tokenize(tokens.NewSource("test", "select(a)"))
	if err != nil {
		t.Fatal(err)
	}
	prog, err := Parse(tokens.NewSliceTokenStream(toks))
	if err != nil {
		t.Fatal(err)
	}
	if Format(prog) != "select(a)" {
		t.Fatalf("got %s", Format(prog))
	}
}

func TestProgramPosition(t *testing.T) {
	prog, err := ParseSource(tokens.NewSource("test", "\n  filter(a) select(b)"))
	if err != nil {
		t.Fatal(err)
	}
	var node Node = prog
	if pos := node.Position(); pos.Line != 2 || pos.Column != 3 {
		t.Fatalf("got %v", pos)
	}
	if Format(prog) != "filter(a)\nselect(b)" {
		t.Fatalf("got %q", Format(prog))
	}

	empty, err := ParseSource(tokens.NewSource("test", ""))
	if err != nil {
		t.Fatal(err)
	}
	if pos := empty.Position(); pos.Line != 0 {
		t.Fatalf("got %v", pos)
	}
}
