package values

import (
	"math"
	"testing"
)

func TestUnify(t *testing.T) {
	tests := []struct {
		a, b Type
		want Type
		ok   bool
	}{
		{TypeInt, TypeInt, TypeInt, true},
		{TypeInt, TypeFloat, TypeFloat, true},
		{TypeNull, TypeStr, TypeStr, true},
		{TypeBool, TypeNull, TypeBool, true},
		{TypeStr, TypeInt, TypeUnknown, false},
	}
	for _, test := range tests {
		got, ok := Unify(test.a, test.b)
		if got != test.want || ok != test.ok {
			t.Fatalf("Unify(%v, %v): got %v %v", test.a, test.b, got, ok)
		}
	}
}

func TestCompare(t *testing.T) {
	if c, ok := Compare(Int(1), Float(1.5)); !ok || c != -1 {
		t.Fatalf("got %v %v", c, ok)
	}
	if c, ok := Compare(Str("b"), Str("a")); !ok || c != 1 {
		t.Fatalf("got %v %v", c, ok)
	}
	if _, ok := Compare(Str("b"), Int(1)); ok {
		t.Fatal("should not compare")
	}
	if c, ok := Compare(Bool(false), Bool(true)); !ok || c != -1 {
		t.Fatalf("got %v %v", c, ok)
	}
}

func TestValueKey(t *testing.T) {
	if Int(1).Key() == Float(1).Key() {
		t.Fatal("int and float keys should differ")
	}
	if !Float(math.NaN()).Equal(Float(math.NaN())) {
		t.Fatal("NaN constants should be equal")
	}
	if Null.Key() != (Value{}).Key() {
		t.Fatal()
	}
}

func TestLiteral(t *testing.T) {
	if s := Float(2).Literal(); s != "2.0" {
		t.Fatalf("got %s", s)
	}
	if s := Str("a'b").Literal(); s != `"a'b"` {
		t.Fatalf("got %s", s)
	}
}

func TestTable(t *testing.T) {
	table, err := NewTable(
		Schema{{"name", TypeStr}, {"age", TypeInt}},
		[]*Column{
			ColumnOf(Str("Ann"), Str("Bo")),
			ColumnOf(Int(17), Null),
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	if table.Rows() != 2 {
		t.Fatalf("got %d", table.Rows())
	}
	col, err := table.Column("age")
	if err != nil {
		t.Fatal(err)
	}
	if col.Type != TypeInt {
		t.Fatalf("got %v", col.Type)
	}
	if _, err := table.Column("foo"); err == nil {
		t.Fatal("should error")
	}
	if s := table.String(); s != "name\tage\nAnn\t17\nBo\tnull\n" {
		t.Fatalf("got %q", s)
	}

	_, err = NewTable(
		Schema{{"a", TypeInt}, {"b", TypeInt}},
		[]*Column{ColumnOf(Int(1)), ColumnOf()},
	)
	if err == nil {
		t.Fatal("should error")
	}
}
