package values

import (
	"cmp"
	"strings"
)

// Compare orders two non-null values of comparable types. Numeric values are
// compared after widening. ok is false when the types are not comparable.
func Compare(a, b Value) (ret int, ok bool) {
	if a.Type == TypeInt && b.Type == TypeInt {
		return cmp.Compare(a.Int, b.Int), true
	}
	if af, aok := a.AsFloat(); aok {
		if bf, bok := b.AsFloat(); bok {
			return cmp.Compare(af, bf), true
		}
		return 0, false
	}
	if a.Type != b.Type {
		return 0, false
	}
	switch a.Type {
	case TypeStr:
		return strings.Compare(a.Str, b.Str), true
	case TypeBool:
		switch {
		case a.Bool == b.Bool:
			return 0, true
		case !a.Bool:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

// Comparable reports whether values of the two types may be ordered.
func Comparable(a, b Type) bool {
	if a == TypeNull || b == TypeNull {
		return true
	}
	if a.IsNumeric() && b.IsNumeric() {
		return true
	}
	return a == b && (a == TypeStr || a == TypeBool)
}
