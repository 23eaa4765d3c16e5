package datasets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/reusee/tnl/values"
)

type CSVOptions struct {
	Delimiter rune
	// cells equal to one of these are null
	NullLiterals []string
}

// ReadCSV decodes a CSV file with a header row. Each column takes the
// narrowest type all its non-null cells parse as, in the order int, float,
// bool, str. A column of only nulls is str.
func ReadCSV(content []byte, options CSVOptions) (*values.Table, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	if options.Delimiter != 0 {
		reader.Comma = options.Delimiter
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("no header row")
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i, name := range header {
		if slices.Index(header, name) != i {
			return nil, fmt.Errorf("duplicated column %s", name)
		}
	}

	cells := make([][]string, len(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, cell := range record {
			cells[i] = append(cells[i], cell)
		}
	}

	isNull := func(cell string) bool {
		return slices.Contains(options.NullLiterals, cell)
	}
	schema := make(values.Schema, len(header))
	columns := make([]*values.Column, len(header))
	for i, name := range header {
		t := inferType(cells[i], isNull)
		col := values.NewColumn(t, len(cells[i]))
		for row, cell := range cells[i] {
			if isNull(cell) {
				continue
			}
			col.Values[row], err = parseCell(cell, t)
			if err != nil {
				return nil, fmt.Errorf("column %s row %d: %w", name, row+1, err)
			}
		}
		schema[i] = values.Field{
			Name: name,
			Type: t,
		}
		columns[i] = col
	}

	return values.NewTable(schema, columns)
}

func inferType(cells []string, isNull func(string) bool) values.Type {
	candidates := []values.Type{
		values.TypeInt,
		values.TypeFloat,
		values.TypeBool,
	}
	seen := false
	for _, cell := range cells {
		if isNull(cell) {
			continue
		}
		seen = true
		candidates = slices.DeleteFunc(candidates, func(t values.Type) bool {
			_, err := parseCell(cell, t)
			return err != nil
		})
		if len(candidates) == 0 {
			break
		}
	}
	if !seen || len(candidates) == 0 {
		return values.TypeStr
	}
	return candidates[0]
}

func parseCell(cell string, t values.Type) (values.Value, error) {
	switch t {
	case values.TypeInt:
		i, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		if err != nil {
			return values.Null, err
		}
		return values.Int(i), nil
	case values.TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return values.Null, err
		}
		return values.Float(f), nil
	case values.TypeBool:
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "true":
			return values.Bool(true), nil
		case "false":
			return values.Bool(false), nil
		}
		return values.Null, fmt.Errorf("not a bool: %q", cell)
	}
	return values.Str(cell), nil
}
