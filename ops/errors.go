package ops

import "errors"

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrNullArithmetic = errors.New("arithmetic on null")
	ErrOverflow       = errors.New("integer overflow")
	ErrTypeMismatch   = errors.New("type mismatch")
)
