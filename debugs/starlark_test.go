package debugs

import (
	"testing"

	"github.com/reusee/tnl/ir"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

func TestToStarlarkValue(t *testing.T) {
	type row struct {
		Name  string
		Score float64
		seen  bool
	}
	r := &row{Name: "alice", Score: 1.5}

	for _, c := range []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "None"},
		{"bool", true, "True"},
		{"bytes", []byte("abc"), `b"abc"`},
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int8", int8(-3), "-3"},
		{"uint64", uint64(7), "7"},
		{"float", 0.5, "0.5"},
		{"slice", []any{1, "a", false}, `[1, "a", False]`},
		{"map", map[int]bool{1: true}, "{1: True}"},
		{"struct", *r, `{"Name": "alice", "Score": 1.5}`},
		{"pointer", &r, `{"Name": "alice", "Score": 1.5}`},
		{"nil pointer", (*row)(nil), "None"},
		{"unsupported", make(chan int), `"<chan int>"`},

		{"value", values.Int(1), "1"},
		{"null", values.Null, "None"},
		{"type", values.TypeFloat, `"float"`},
		{"column", values.ColumnOf(values.Str("a"), values.Null), `["a", None]`},
		{"nil column", (*values.Column)(nil), "None"},
		{"pos", tokens.Pos{Line: 1, Column: 3}, `"1:3"`},
		{"nested enum", map[string]any{"type": values.TypeInt}, `{"type": "int"}`},
	} {
		t.Run(c.name, func(t *testing.T) {
			if actual := toStarlarkValue(c.input); actual.String() != c.expected {
				t.Fatalf("got %s", actual)
			}
		})
	}

	t.Run("table", func(t *testing.T) {
		table, err := values.NewTable(
			values.Schema{{Name: "n", Type: values.TypeInt}},
			[]*values.Column{values.ColumnOf(values.Int(1), values.Int(2))},
		)
		if err != nil {
			t.Fatal(err)
		}
		actual := toStarlarkValue(table)
		if actual.String() != `{"schema": "n:int", "columns": ["n"], "rows": [[1], [2]]}` {
			t.Fatalf("got %s", actual)
		}
	})

	t.Run("graph", func(t *testing.T) {
		g := &ir.Graph{
			Nodes: []ir.Node{
				{Op: ir.OpConst, Type: values.TypeInt, Shape: ir.ShapeScalar, Value: values.Int(1)},
			},
			Root: 0,
		}
		actual := toStarlarkValue(g)
		if actual.String() != `{"root": 0, "nodes": ["%0 = const 1 :int"]}` {
			t.Fatalf("got %s", actual)
		}
	})
}
