package values

import (
	"fmt"
	"strings"
)

type Field struct {
	Name string
	Type Type
}

type Schema []Field

func (s Schema) Index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (s Schema) Names() []string {
	ret := make([]string, len(s))
	for i, f := range s {
		ret[i] = f.Name
	}
	return ret
}

func (s Schema) String() string {
	var b strings.Builder
	for i, f := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(":")
		b.WriteString(f.Type.String())
	}
	return b.String()
}

// Dataset is the read-only table handle the compiler and VM consume.
type Dataset interface {
	Schema() Schema
	Column(name string) (*Column, error)
	Rows() int
}

type Table struct {
	Fields  Schema
	Columns []*Column
}

var _ Dataset = new(Table)

func NewTable(schema Schema, columns []*Column) (*Table, error) {
	if len(schema) != len(columns) {
		return nil, fmt.Errorf("schema has %d fields, got %d columns", len(schema), len(columns))
	}
	for i, col := range columns {
		if col.Len() != columns[0].Len() {
			return nil, fmt.Errorf("column %s has %d rows, want %d", schema[i].Name, col.Len(), columns[0].Len())
		}
	}
	return &Table{
		Fields:  schema,
		Columns: columns,
	}, nil
}

func (t *Table) Schema() Schema {
	return t.Fields
}

func (t *Table) Column(name string) (*Column, error) {
	i := t.Fields.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("no such column: %s", name)
	}
	return t.Columns[i], nil
}

func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Row returns the values of row i in schema order.
func (t *Table) Row(i int) []Value {
	ret := make([]Value, len(t.Columns))
	for j, col := range t.Columns {
		ret[j] = col.Values[i]
	}
	return ret
}

// Materialize copies every column of a dataset into a Table.
func Materialize(ds Dataset) (*Table, error) {
	if t, ok := ds.(*Table); ok {
		return t, nil
	}
	schema := ds.Schema()
	columns := make([]*Column, len(schema))
	for i, f := range schema {
		col, err := ds.Column(f.Name)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	return NewTable(schema, columns)
}

func (t *Table) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Fields.Names(), "\t"))
	b.WriteString("\n")
	for i := range t.Rows() {
		for j, v := range t.Row(i) {
			if j > 0 {
				b.WriteString("\t")
			}
			b.WriteString(v.String())
		}
		b.WriteString("\n")
	}
	return b.String()
}
