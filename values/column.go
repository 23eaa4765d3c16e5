package values

type Column struct {
	Type   Type
	Values []Value
}

func NewColumn(t Type, n int) *Column {
	return &Column{
		Type:   t,
		Values: make([]Value, n),
	}
}

// ColumnOf builds a column from values, taking the type of the first non-null one.
func ColumnOf(vs ...Value) *Column {
	col := &Column{
		Type:   TypeNull,
		Values: vs,
	}
	for _, v := range vs {
		if !v.IsNull() {
			col.Type = v.Type
			break
		}
	}
	return col
}

func (c *Column) Len() int {
	return len(c.Values)
}

// Broadcast returns a column of n copies of v.
func Broadcast(v Value, t Type, n int) *Column {
	col := NewColumn(t, n)
	for i := range col.Values {
		col.Values[i] = v
	}
	return col
}

// Select returns a new column with the rows at the given indexes, in order.
func (c *Column) Select(rows []int) *Column {
	ret := NewColumn(c.Type, len(rows))
	for i, row := range rows {
		ret.Values[i] = c.Values[row]
	}
	return ret
}

func (c *Column) Equal(d *Column) bool {
	if c.Len() != d.Len() {
		return false
	}
	for i, v := range c.Values {
		if !v.Equal(d.Values[i]) {
			return false
		}
	}
	return true
}
