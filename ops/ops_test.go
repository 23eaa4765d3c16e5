package ops

import (
	"errors"
	"math"
	"testing"

	"github.com/reusee/tnl/values"
)

func TestBinaryType(t *testing.T) {
	tests := []struct {
		op   Op
		l, r values.Type
		want values.Type
		ok   bool
	}{
		{OpAdd, values.TypeInt, values.TypeInt, values.TypeInt, true},
		{OpAdd, values.TypeInt, values.TypeFloat, values.TypeFloat, true},
		{OpAdd, values.TypeStr, values.TypeStr, values.TypeStr, true},
		{OpSub, values.TypeStr, values.TypeStr, values.TypeUnknown, false},
		{OpMul, values.TypeNull, values.TypeInt, values.TypeInt, true},
		{OpLt, values.TypeInt, values.TypeFloat, values.TypeBool, true},
		{OpLt, values.TypeBool, values.TypeBool, values.TypeUnknown, false},
		{OpEq, values.TypeBool, values.TypeBool, values.TypeBool, true},
		{OpEq, values.TypeStr, values.TypeInt, values.TypeUnknown, false},
		{OpAnd, values.TypeBool, values.TypeNull, values.TypeBool, true},
		{OpOr, values.TypeInt, values.TypeBool, values.TypeUnknown, false},
	}
	for _, test := range tests {
		got, err := BinaryType(test.op, test.l, test.r)
		if got != test.want || (err == nil) != test.ok {
			t.Fatalf("%v %v %v: got %v %v", test.l, test.op, test.r, got, err)
		}
	}
}

func TestEvalBinary(t *testing.T) {
	tests := []struct {
		op   Op
		a, b values.Value
		t    values.Type
		want values.Value
		err  error
	}{
		{OpAdd, values.Int(1), values.Int(2), values.TypeInt, values.Int(3), nil},
		{OpAdd, values.Int(1), values.Float(.5), values.TypeFloat, values.Float(1.5), nil},
		{OpDiv, values.Int(7), values.Int(2), values.TypeInt, values.Int(3), nil},
		{OpDiv, values.Int(1), values.Int(0), values.TypeInt, values.Null, ErrDivisionByZero},
		{OpDiv, values.Float(1), values.Float(0), values.TypeFloat, values.Null, ErrDivisionByZero},
		{OpMod, values.Int(7), values.Int(0), values.TypeInt, values.Null, ErrDivisionByZero},
		{OpAdd, values.Int(math.MaxInt64), values.Int(1), values.TypeInt, values.Null, ErrOverflow},
		{OpMul, values.Int(math.MinInt64), values.Int(-1), values.TypeInt, values.Null, ErrOverflow},
		{OpSub, values.Int(math.MinInt64), values.Int(1), values.TypeInt, values.Null, ErrOverflow},
		{OpAdd, values.Null, values.Int(1), values.TypeInt, values.Null, ErrNullArithmetic},
		{OpAdd, values.Str("a"), values.Str("b"), values.TypeStr, values.Str("ab"), nil},
		{OpLt, values.Int(1), values.Float(1.5), values.TypeBool, values.Bool(true), nil},
		{OpEq, values.Null, values.Int(1), values.TypeBool, values.Null, nil},
		{OpAnd, values.Null, values.Bool(false), values.TypeBool, values.Bool(false), nil},
		{OpAnd, values.Null, values.Bool(true), values.TypeBool, values.Null, nil},
		{OpOr, values.Null, values.Bool(true), values.TypeBool, values.Bool(true), nil},
		{OpOr, values.Null, values.Bool(false), values.TypeBool, values.Null, nil},
		{OpEq, values.Str("a"), values.Int(1), values.TypeBool, values.Null, ErrTypeMismatch},
	}
	for _, test := range tests {
		got, err := EvalBinary(test.op, test.a, test.b, test.t)
		if !errors.Is(err, test.err) {
			t.Fatalf("%v %v %v: got error %v", test.a, test.op, test.b, err)
		}
		if !got.Equal(test.want) {
			t.Fatalf("%v %v %v: got %v", test.a, test.op, test.b, got)
		}
	}
}

func TestEvalUnary(t *testing.T) {
	if v, err := EvalUnary(OpNeg, values.Int(3)); err != nil || !v.Equal(values.Int(-3)) {
		t.Fatalf("got %v %v", v, err)
	}
	if _, err := EvalUnary(OpNeg, values.Null); !errors.Is(err, ErrNullArithmetic) {
		t.Fatalf("got %v", err)
	}
	if _, err := EvalUnary(OpNeg, values.Int(math.MinInt64)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("got %v", err)
	}
	if v, err := EvalUnary(OpNot, values.Null); err != nil || !v.IsNull() {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestBuiltins(t *testing.T) {
	call := func(name string, t values.Type, args ...values.Value) (values.Value, error) {
		b, ok := LookupBuiltin(name)
		if !ok {
			panic(name)
		}
		return b.Call(args, t)
	}
	tests := []struct {
		name string
		t    values.Type
		args []values.Value
		want values.Value
	}{
		{"upper", values.TypeStr, []values.Value{values.Str("abc")}, values.Str("ABC")},
		{"title", values.TypeStr, []values.Value{values.Str("hello world")}, values.Str("Hello World")},
		{"trim", values.TypeStr, []values.Value{values.Str("  x ")}, values.Str("x")},
		{"len", values.TypeInt, []values.Value{values.Str("héllo")}, values.Int(5)},
		{"replace", values.TypeStr, []values.Value{values.Str("a-b-c"), values.Str("-"), values.Str("+")}, values.Str("a+b+c")},
		{"slice", values.TypeStr, []values.Value{values.Str("hello"), values.Int(1), values.Int(-1)}, values.Str("ell")},
		{"slice", values.TypeStr, []values.Value{values.Str("hello"), values.Int(3), values.Int(99)}, values.Str("lo")},
		{"abs", values.TypeInt, []values.Value{values.Int(-2)}, values.Int(2)},
		{"isnull", values.TypeBool, []values.Value{values.Null}, values.Bool(true)},
		{"coalesce", values.TypeFloat, []values.Value{values.Null, values.Int(2)}, values.Float(2)},
		{"upper", values.TypeStr, []values.Value{values.Null}, values.Null},
	}
	for _, test := range tests {
		got, err := call(test.name, test.t, test.args...)
		if err != nil {
			t.Fatalf("%s: %v", test.name, err)
		}
		if !got.Equal(test.want) {
			t.Fatalf("%s: got %v", test.name, got)
		}
	}

	b, _ := LookupBuiltin("replace")
	if err := b.CheckArity(2); err == nil {
		t.Fatal("should error")
	}
	if _, ok := LookupBuiltin("nope"); ok {
		t.Fatal()
	}
}

func TestReduce(t *testing.T) {
	score := values.ColumnOf(values.Int(1), values.Int(2), values.Int(3), values.Null, values.Int(4))
	tests := []struct {
		agg  Agg
		want values.Value
	}{
		{AggSum, values.Int(10)},
		{AggCount, values.Int(4)},
		{AggMin, values.Int(1)},
		{AggMax, values.Int(4)},
		{AggAvg, values.Float(2.5)},
	}
	for _, test := range tests {
		typ, err := AggregateType(test.agg, values.TypeInt)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Reduce(test.agg, score, typ)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(test.want) {
			t.Fatalf("%v: got %v", test.agg, got)
		}
	}

	empty := values.ColumnOf(values.Null)
	if v, _ := Reduce(AggSum, empty, values.TypeInt); !v.IsNull() {
		t.Fatalf("got %v", v)
	}
	if v, _ := Reduce(AggCount, empty, values.TypeInt); !v.Equal(values.Int(0)) {
		t.Fatalf("got %v", v)
	}

	big := values.ColumnOf(values.Int(math.MaxInt64), values.Int(1))
	if _, err := Reduce(AggSum, big, values.TypeInt); !errors.Is(err, ErrOverflow) {
		t.Fatalf("got %v", err)
	}

	if _, err := AggregateType(AggSum, values.TypeStr); err == nil {
		t.Fatal("should error")
	}
}
