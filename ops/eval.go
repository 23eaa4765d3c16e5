package ops

import (
	"math"

	"github.com/reusee/tnl/values"
)

// EvalBinary evaluates a binary operation whose static result type is t.
func EvalBinary(op Op, a, b values.Value, t values.Type) (values.Value, error) {
	switch {
	case op.IsArithmetic():
		return evalArithmetic(op, a, b, t)
	case op.IsComparison():
		return evalComparison(op, a, b)
	case op == OpAnd:
		return evalAnd(a, b)
	case op == OpOr:
		return evalOr(a, b)
	}
	return values.Null, ErrTypeMismatch
}

func evalArithmetic(op Op, a, b values.Value, t values.Type) (values.Value, error) {
	if a.IsNull() || b.IsNull() {
		return values.Null, ErrNullArithmetic
	}

	switch t {

	case values.TypeStr:
		if op != OpAdd || a.Type != values.TypeStr || b.Type != values.TypeStr {
			return values.Null, ErrTypeMismatch
		}
		return values.Str(a.Str + b.Str), nil

	case values.TypeInt:
		if a.Type != values.TypeInt || b.Type != values.TypeInt {
			return values.Null, ErrTypeMismatch
		}
		i, err := intArithmetic(op, a.Int, b.Int)
		if err != nil {
			return values.Null, err
		}
		return values.Int(i), nil

	case values.TypeFloat:
		x, ok1 := a.AsFloat()
		y, ok2 := b.AsFloat()
		if !ok1 || !ok2 {
			return values.Null, ErrTypeMismatch
		}
		f, err := floatArithmetic(op, x, y)
		if err != nil {
			return values.Null, err
		}
		return values.Float(f), nil

	}
	return values.Null, ErrTypeMismatch
}

func intArithmetic(op Op, x, y int64) (int64, error) {
	switch op {
	case OpAdd:
		r := x + y
		if (x > 0 && y > 0 && r < 0) || (x < 0 && y < 0 && r >= 0) {
			return 0, ErrOverflow
		}
		return r, nil
	case OpSub:
		r := x - y
		if (x >= 0 && y < 0 && r < 0) || (x < 0 && y > 0 && r >= 0) {
			return 0, ErrOverflow
		}
		return r, nil
	case OpMul:
		if x == 0 || y == 0 {
			return 0, nil
		}
		r := x * y
		if r/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return 0, ErrOverflow
		}
		return r, nil
	case OpDiv:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		if x == math.MinInt64 && y == -1 {
			return 0, ErrOverflow
		}
		return x / y, nil
	case OpMod:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		if y == -1 {
			return 0, nil
		}
		return x % y, nil
	}
	return 0, ErrTypeMismatch
}

func floatArithmetic(op Op, x, y float64) (float64, error) {
	switch op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return x / y, nil
	case OpMod:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return math.Mod(x, y), nil
	}
	return 0, ErrTypeMismatch
}

func evalComparison(op Op, a, b values.Value) (values.Value, error) {
	if a.IsNull() || b.IsNull() {
		return values.Null, nil
	}
	c, ok := values.Compare(a, b)
	if !ok {
		return values.Null, ErrTypeMismatch
	}
	var r bool
	switch op {
	case OpEq:
		r = c == 0
	case OpNe:
		r = c != 0
	case OpLt:
		r = c < 0
	case OpLe:
		r = c <= 0
	case OpGt:
		r = c > 0
	case OpGe:
		r = c >= 0
	}
	return values.Bool(r), nil
}

func checkBool(v values.Value) error {
	if v.Type != values.TypeBool && !v.IsNull() {
		return ErrTypeMismatch
	}
	return nil
}

// three-valued logic
func evalAnd(a, b values.Value) (values.Value, error) {
	if err := checkBool(a); err != nil {
		return values.Null, err
	}
	if err := checkBool(b); err != nil {
		return values.Null, err
	}
	switch {
	case a.Type == values.TypeBool && !a.Bool,
		b.Type == values.TypeBool && !b.Bool:
		return values.Bool(false), nil
	case a.IsNull() || b.IsNull():
		return values.Null, nil
	}
	return values.Bool(true), nil
}

func evalOr(a, b values.Value) (values.Value, error) {
	if err := checkBool(a); err != nil {
		return values.Null, err
	}
	if err := checkBool(b); err != nil {
		return values.Null, err
	}
	switch {
	case a.Type == values.TypeBool && a.Bool,
		b.Type == values.TypeBool && b.Bool:
		return values.Bool(true), nil
	case a.IsNull() || b.IsNull():
		return values.Null, nil
	}
	return values.Bool(false), nil
}

func EvalUnary(op Op, a values.Value) (values.Value, error) {
	switch op {

	case OpNeg:
		switch a.Type {
		case values.TypeNull:
			return values.Null, ErrNullArithmetic
		case values.TypeInt:
			if a.Int == math.MinInt64 {
				return values.Null, ErrOverflow
			}
			return values.Int(-a.Int), nil
		case values.TypeFloat:
			return values.Float(-a.Float), nil
		}

	case OpNot:
		switch a.Type {
		case values.TypeNull:
			return values.Null, nil
		case values.TypeBool:
			return values.Bool(!a.Bool), nil
		}

	}
	return values.Null, ErrTypeMismatch
}

// MayFail reports whether evaluating o can return an error for some
// well-typed input.
func (o Op) MayFail() bool {
	return o.IsArithmetic()
}
