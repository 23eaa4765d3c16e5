package symbols

import (
	"fmt"

	"github.com/reusee/tnl/syntax"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

type Kind uint8

const (
	KindColumn Kind = iota + 1
	KindBinding
)

func (k Kind) String() string {
	switch k {
	case KindColumn:
		return "column"
	case KindBinding:
		return "binding"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type Symbol struct {
	Name  string
	Kind  Kind
	Type  values.Type
	Depth int
	// Index is the column position in the input schema of the block that declared it.
	Index int
	// Let is the declaring statement of a binding.
	Let *syntax.Let
	Pos tokens.Pos
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s:%s@%d", s.Kind, s.Name, s.Type, s.Depth)
}
