package debugs

import (
	"context"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tnl/logs"
	"github.com/reusee/tnl/modes"
	"github.com/reusee/tnl/values"
)

func TestTap(t *testing.T) {
	dscope.New(
		new(Module),
		new(logs.Module),
		modes.ForTest(t),
	).Call(func(
		tap Tap,
	) {
		tap(t.Context(), "test", map[string]any{
			"foo": 42,
		})
	})
}

func TestEval(t *testing.T) {
	table, err := values.NewTable(
		values.Schema{
			{Name: "name", Type: values.TypeStr},
			{Name: "age", Type: values.TypeInt},
		},
		[]*values.Column{
			values.ColumnOf(values.Str("alice"), values.Str("bob")),
			values.ColumnOf(values.Int(30), values.Null),
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	dscope.New(
		new(Module),
		new(logs.Module),
		modes.ForTest(t),
	).Call(func(
		eval Eval,
	) {
		globals := map[string]any{
			"result": table,
			"n":      values.Int(3),
		}
		for expr, expected := range map[string]string{
			`result["rows"][0][1] + n`:       "33",
			`result["rows"][1][1]`:           "None",
			`result["schema"]`:               `"name:str, age:int"`,
			`len(result["columns"])`:         "2",
			`[r[0] for r in result["rows"]]`: `["alice", "bob"]`,
		} {
			v, err := eval(t.Context(), expr, globals)
			if err != nil {
				t.Fatalf("%s: %v", expr, err)
			}
			if v.String() != expected {
				t.Fatalf("%s: got %s", expr, v)
			}
		}

		if _, err := eval(t.Context(), "undefined", globals); err == nil {
			t.Fatal("should error")
		}

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := eval(ctx, "[x for x in range(100000000)]", globals); err == nil {
			t.Fatal("should error")
		}
	})
}
