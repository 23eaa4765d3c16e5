package datasets

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/reusee/tnl/values"
)

// WriteCSV writes the table with a header row. Nulls are empty cells.
func WriteCSV(w io.Writer, table *values.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Fields.Names()); err != nil {
		return err
	}
	record := make([]string, len(table.Fields))
	for i := range table.Rows() {
		for j, v := range table.Row(i) {
			if v.IsNull() {
				record[j] = ""
			} else {
				record[j] = v.String()
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes one object per row and line.
func WriteJSON(w io.Writer, table *values.Table) error {
	encoder := json.NewEncoder(w)
	for i := range table.Rows() {
		row := make(orderedRow, len(table.Fields))
		for j, v := range table.Row(i) {
			row[j] = orderedField{
				name:  table.Fields[j].Name,
				value: v.Go(),
			}
		}
		if err := encoder.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

type orderedField struct {
	name  string
	value any
}

// orderedRow encodes as an object keeping the schema order.
type orderedRow []orderedField

func (r orderedRow) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, field := range r {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(field.name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		value, err := json.Marshal(field.value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}
