package symbols

import (
	"fmt"

	"github.com/reusee/tnl/tokens"
)

type ErrorKind uint8

const (
	UnknownIdentifier ErrorKind = iota + 1
	DuplicateBinding
	TypeConflict
	UnknownFunction
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case DuplicateBinding:
		return "DuplicateBinding"
	case TypeConflict:
		return "TypeConflict"
	case UnknownFunction:
		return "UnknownFunction"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

type NameError struct {
	Kind   ErrorKind
	Name   string
	Pos    tokens.Pos
	Detail string
}

func (e *NameError) Error() string {
	msg := fmt.Sprintf("name error at %s: %s: %s", e.Pos, e.Kind, e.Name)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *NameError) Position() tokens.Pos {
	return e.Pos
}
