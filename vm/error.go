package vm

import (
	"errors"
	"fmt"

	"github.com/reusee/tnl/ir"
	"github.com/reusee/tnl/ops"
	"github.com/reusee/tnl/tokens"
)

type ErrorKind uint8

const (
	DivisionByZero ErrorKind = iota + 1
	TypeMismatch
	NullArithmetic
	IndexOutOfRange
	Overflow
)

func (k ErrorKind) String() string {
	switch k {
	case DivisionByZero:
		return "DivisionByZero"
	case TypeMismatch:
		return "TypeMismatch"
	case NullArithmetic:
		return "NullArithmetic"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case Overflow:
		return "Overflow"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

type RuntimeError struct {
	Kind ErrorKind
	Node ir.NodeID
	Pos  tokens.Pos
	Err  error
}

func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("runtime error at %s: %s", e.Pos, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func (e *RuntimeError) Position() tokens.Pos {
	return e.Pos
}

func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ops.ErrDivisionByZero):
		return DivisionByZero
	case errors.Is(err, ops.ErrNullArithmetic):
		return NullArithmetic
	case errors.Is(err, ops.ErrOverflow):
		return Overflow
	}
	return TypeMismatch
}
