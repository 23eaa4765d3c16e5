package values

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a scalar. The zero Value is Null.
type Value struct {
	Type  Type
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

var Null = Value{}

func Int(i int64) Value {
	return Value{Type: TypeInt, Int: i}
}

func Float(f float64) Value {
	return Value{Type: TypeFloat, Float: f}
}

func Bool(b bool) Value {
	return Value{Type: TypeBool, Bool: b}
}

func Str(s string) Value {
	return Value{Type: TypeStr, Str: s}
}

func (v Value) IsNull() bool {
	return v.Type == TypeNull
}

// AsFloat returns the numeric value widened to float64.
func (v Value) AsFloat() (float64, bool) {
	switch v.Type {
	case TypeInt:
		return float64(v.Int), true
	case TypeFloat:
		return v.Float, true
	}
	return 0, false
}

// Convert widens v to t. Only Int to Float and Null to anything are allowed.
func (v Value) Convert(t Type) (Value, bool) {
	switch {
	case v.Type == t, v.Type == TypeNull:
		return v, true
	case v.Type == TypeInt && t == TypeFloat:
		return Float(float64(v.Int)), true
	}
	return v, false
}

// Equal compares values structurally. NaN floats are equal to themselves so
// that constant nodes holding NaN can still be shared.
func (v Value) Equal(w Value) bool {
	if v.Type != w.Type {
		return false
	}
	switch v.Type {
	case TypeNull:
		return true
	case TypeInt:
		return v.Int == w.Int
	case TypeFloat:
		return v.Float == w.Float ||
			math.IsNaN(v.Float) && math.IsNaN(w.Float)
	case TypeBool:
		return v.Bool == w.Bool
	case TypeStr:
		return v.Str == w.Str
	}
	return false
}

// Key returns a string that identifies v for hash-consing.
func (v Value) Key() string {
	switch v.Type {
	case TypeInt:
		return "i" + strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return "f" + strconv.FormatUint(math.Float64bits(v.Float), 16)
	case TypeBool:
		return "b" + strconv.FormatBool(v.Bool)
	case TypeStr:
		return "s" + strconv.Quote(v.Str)
	}
	return "n"
}

func (v Value) String() string {
	switch v.Type {
	case TypeNull:
		return "null"
	case TypeInt:
		return strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.Bool)
	case TypeStr:
		return v.Str
	}
	return fmt.Sprintf("Value(%d)", v.Type)
}

// Literal renders v as source text.
func (v Value) Literal() string {
	switch v.Type {
	case TypeStr:
		return strconv.Quote(v.Str)
	case TypeFloat:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			s += ".0"
		}
		return s
	}
	return v.String()
}

// Go returns the value as a plain Go value.
func (v Value) Go() any {
	switch v.Type {
	case TypeInt:
		return v.Int
	case TypeFloat:
		return v.Float
	case TypeBool:
		return v.Bool
	case TypeStr:
		return v.Str
	}
	return nil
}
