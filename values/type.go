package values

import "fmt"

type Type uint8

const (
	TypeNull Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeStr
	// TypeUnknown marks an expression whose type could not be inferred yet.
	TypeUnknown
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeStr:
		return "str"
	case TypeUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

func ParseType(s string) (Type, bool) {
	switch s {
	case "int":
		return TypeInt, true
	case "float":
		return TypeFloat, true
	case "bool":
		return TypeBool, true
	case "str", "string":
		return TypeStr, true
	}
	return TypeUnknown, false
}

func (t Type) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat
}

// Unify returns the common type of a and b. Null unifies with anything and
// Int widens to Float.
func Unify(a, b Type) (Type, bool) {
	switch {
	case a == b:
		return a, true
	case a == TypeNull:
		return b, true
	case b == TypeNull:
		return a, true
	case a.IsNumeric() && b.IsNumeric():
		return TypeFloat, true
	}
	return TypeUnknown, false
}

// AssignableTo reports whether a value of type t may be stored where target is declared.
func (t Type) AssignableTo(target Type) bool {
	return t == target ||
		t == TypeNull ||
		t == TypeInt && target == TypeFloat
}
