package vm

import (
	"fmt"

	"github.com/reusee/tnl/values"
)

type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindColumn
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindColumn:
		return "column"
	case KindTable:
		return "table"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Result is the value of the graph root: a scalar, a column or a table.
type Result struct {
	Kind   Kind
	Type   values.Type
	Scalar values.Value
	Column *values.Column
	Table  *values.Table
}

func (r *Result) String() string {
	switch r.Kind {
	case KindScalar:
		return r.Scalar.String()
	case KindColumn:
		return fmt.Sprint(r.Column.Values)
	case KindTable:
		return r.Table.String()
	}
	return r.Kind.String()
}

// Equal compares kinds, types and contents.
func (r *Result) Equal(s *Result) bool {
	if r.Kind != s.Kind || r.Type != s.Type {
		return false
	}
	switch r.Kind {
	case KindScalar:
		return r.Scalar.Equal(s.Scalar)
	case KindColumn:
		return r.Column.Equal(s.Column)
	case KindTable:
		if r.Table.Fields.String() != s.Table.Fields.String() {
			return false
		}
		for i, col := range r.Table.Columns {
			if !col.Equal(s.Table.Columns[i]) {
				return false
			}
		}
		return r.Table.Rows() == s.Table.Rows()
	}
	return false
}
