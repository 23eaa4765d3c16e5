package ops

import (
	"fmt"

	"github.com/reusee/tnl/values"
)

// BinaryType returns the static result type of a binary operation.
func BinaryType(op Op, l, r values.Type) (values.Type, error) {
	switch {

	case op == OpAdd && (l == values.TypeStr || r == values.TypeStr):
		if t, ok := values.Unify(l, r); ok && t == values.TypeStr {
			return values.TypeStr, nil
		}

	case op.IsArithmetic():
		if (l.IsNumeric() || l == values.TypeNull) && (r.IsNumeric() || r == values.TypeNull) {
			t, _ := values.Unify(l, r)
			return t, nil
		}

	case op.IsComparison():
		if values.Comparable(l, r) {
			if op == OpEq || op == OpNe || orderable(l) && orderable(r) {
				return values.TypeBool, nil
			}
		}

	case op == OpAnd, op == OpOr:
		if isBoolish(l) && isBoolish(r) {
			return values.TypeBool, nil
		}
		return values.TypeUnknown, fmt.Errorf("operator %s requires bool operands, got %s and %s", op, l, r)

	}
	return values.TypeUnknown, fmt.Errorf("operator %s not defined on %s and %s", op, l, r)
}

func UnaryType(op Op, t values.Type) (values.Type, error) {
	switch op {
	case OpNeg:
		if t.IsNumeric() || t == values.TypeNull {
			return t, nil
		}
	case OpNot:
		if isBoolish(t) {
			return values.TypeBool, nil
		}
		return values.TypeUnknown, fmt.Errorf("operator ! requires a bool operand, got %s", t)
	}
	return values.TypeUnknown, fmt.Errorf("operator %s not defined on %s", op, t)
}

func isBoolish(t values.Type) bool {
	return t == values.TypeBool || t == values.TypeNull
}

func orderable(t values.Type) bool {
	return t != values.TypeBool
}
