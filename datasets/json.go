package datasets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/reusee/tnl/values"
)

// ReadJSON decodes an array of objects, or one object per line. Columns
// appear in the order their keys are first seen; missing keys are null.
// Int and float cells in one column make a float column.
func ReadJSON(content []byte) (*values.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var (
		names []string
		index = make(map[string]int)
		cells [][]values.Value
		rows  int
	)
	addRow := func(row map[string]values.Value, order []string) {
		for _, name := range order {
			if _, ok := index[name]; !ok {
				index[name] = len(names)
				names = append(names, name)
				// earlier rows lack the key
				cells = append(cells, make([]values.Value, rows))
			}
		}
		for i, name := range names {
			cells[i] = append(cells[i], row[name])
		}
		rows++
	}

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("no rows")
	}
	if err != nil {
		return nil, err
	}
	switch tok {

	case json.Delim('['):
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if tok != json.Delim('{') {
				return nil, fmt.Errorf("row %d is not an object", rows+1)
			}
			row, order, err := readObject(dec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rows+1, err)
			}
			addRow(row, order)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}

	case json.Delim('{'):
		for {
			row, order, err := readObject(dec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rows+1, err)
			}
			addRow(row, order)
			tok, err := dec.Token()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, err
			}
			if tok != json.Delim('{') {
				return nil, fmt.Errorf("row %d is not an object", rows+1)
			}
		}

	default:
		return nil, fmt.Errorf("expecting an array or objects, got %v", tok)
	}

	schema := make(values.Schema, len(names))
	columns := make([]*values.Column, len(names))
	for i, name := range names {
		col, err := unifyColumn(cells[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		schema[i] = values.Field{
			Name: name,
			Type: col.Type,
		}
		columns[i] = col
	}
	return values.NewTable(schema, columns)
}

// readObject reads the members of an object whose opening brace is consumed.
func readObject(dec *json.Decoder) (map[string]values.Value, []string, error) {
	row := make(map[string]values.Value)
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("bad key %v", tok)
		}
		if _, ok := row[key]; ok {
			return nil, nil, fmt.Errorf("duplicated key %s", key)
		}
		tok, err = dec.Token()
		if err != nil {
			return nil, nil, err
		}
		value, err := jsonValue(tok)
		if err != nil {
			return nil, nil, fmt.Errorf("key %s: %w", key, err)
		}
		row[key] = value
		order = append(order, key)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return row, order, nil
}

func jsonValue(tok json.Token) (values.Value, error) {
	switch tok := tok.(type) {
	case nil:
		return values.Null, nil
	case bool:
		return values.Bool(tok), nil
	case string:
		return values.Str(tok), nil
	case json.Number:
		if i, err := tok.Int64(); err == nil {
			return values.Int(i), nil
		}
		f, err := tok.Float64()
		if err != nil {
			return values.Null, err
		}
		return values.Float(f), nil
	}
	return values.Null, fmt.Errorf("nested value %v", tok)
}

func unifyColumn(cells []values.Value) (*values.Column, error) {
	t := values.TypeNull
	for _, v := range cells {
		if v.IsNull() {
			continue
		}
		if t == values.TypeNull {
			t = v.Type
			continue
		}
		u, ok := values.Unify(t, v.Type)
		if !ok {
			return nil, fmt.Errorf("mixes %s and %s", t, v.Type)
		}
		t = u
	}
	if t == values.TypeNull {
		t = values.TypeStr
	}
	col := values.NewColumn(t, len(cells))
	for i, v := range cells {
		converted, ok := v.Convert(t)
		if !ok {
			return nil, fmt.Errorf("cannot convert %s to %s", v, t)
		}
		col.Values[i] = converted
	}
	return col, nil
}
