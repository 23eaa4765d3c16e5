package ops

import "fmt"

type Op uint8

const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpNeg
	OpNot
)

var opText = [...]string{
	OpInvalid: "?",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpEq:      "==",
	OpNe:      "!=",
	OpLt:      "<",
	OpLe:      "<=",
	OpGt:      ">",
	OpGe:      ">=",
	OpAnd:     "&&",
	OpOr:      "||",
	OpNeg:     "-",
	OpNot:     "!",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

func ParseBinary(s string) (Op, bool) {
	for op := OpAdd; op <= OpOr; op++ {
		if opText[op] == s {
			return op, true
		}
	}
	return OpInvalid, false
}

func ParseUnary(s string) (Op, bool) {
	switch s {
	case "-":
		return OpNeg, true
	case "!":
		return OpNot, true
	}
	return OpInvalid, false
}

func (o Op) IsArithmetic() bool {
	return o >= OpAdd && o <= OpMod || o == OpNeg
}

func (o Op) IsComparison() bool {
	return o >= OpEq && o <= OpGe
}

func (o Op) IsLogical() bool {
	return o == OpAnd || o == OpOr || o == OpNot
}

// Negate returns the comparison that is true exactly when o is false,
// for non-null operands.
func (o Op) Negate() (Op, bool) {
	switch o {
	case OpEq:
		return OpNe, true
	case OpNe:
		return OpEq, true
	case OpLt:
		return OpGe, true
	case OpLe:
		return OpGt, true
	case OpGt:
		return OpLe, true
	case OpGe:
		return OpLt, true
	}
	return OpInvalid, false
}
