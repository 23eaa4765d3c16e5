package datasets

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/reusee/tnl/values"
)

// QueryPostgres runs query and returns its rows as a table. Columns are typed
// by the result column types; unknown types are read as text.
func QueryPostgres(ctx context.Context, connString string, query string) (*values.Table, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, err
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer conn.Close(context.WithoutCancel(ctx))

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	schema := make(values.Schema, len(fields))
	columns := make([]*values.Column, len(fields))
	for i, field := range fields {
		if schema.Index(field.Name) >= 0 {
			return nil, fmt.Errorf("duplicated column %s", field.Name)
		}
		schema[i] = values.Field{
			Name: field.Name,
			Type: oidType(field.DataTypeOID),
		}
		columns[i] = values.NewColumn(schema[i].Type, 0)
	}

	for rows.Next() {
		row, err := rows.Values()
		if err != nil {
			return nil, err
		}
		for i, v := range row {
			value, err := pgValue(v, schema[i].Type)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", schema[i].Name, err)
			}
			columns[i].Values = append(columns[i].Values, value)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values.NewTable(schema, columns)
}

func oidType(oid uint32) values.Type {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return values.TypeInt
	case pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
		return values.TypeFloat
	case pgtype.BoolOID:
		return values.TypeBool
	}
	return values.TypeStr
}

func pgValue(v any, t values.Type) (values.Value, error) {
	if v == nil {
		return values.Null, nil
	}
	switch t {

	case values.TypeInt:
		switch v := v.(type) {
		case int16:
			return values.Int(int64(v)), nil
		case int32:
			return values.Int(int64(v)), nil
		case int64:
			return values.Int(v), nil
		}

	case values.TypeFloat:
		switch v := v.(type) {
		case float32:
			return values.Float(float64(v)), nil
		case float64:
			return values.Float(v), nil
		case pgtype.Numeric:
			if !v.Valid {
				return values.Null, nil
			}
			f, err := v.Float64Value()
			if err != nil {
				return values.Null, err
			}
			return values.Float(f.Float64), nil
		}

	case values.TypeBool:
		if b, ok := v.(bool); ok {
			return values.Bool(b), nil
		}

	case values.TypeStr:
		switch v := v.(type) {
		case string:
			return values.Str(v), nil
		case []byte:
			return values.Str(string(v)), nil
		case time.Time:
			return values.Str(v.Format(time.RFC3339Nano)), nil
		case fmt.Stringer:
			return values.Str(v.String()), nil
		}
		return values.Str(fmt.Sprint(v)), nil

	}
	return values.Null, fmt.Errorf("unexpected %T for %s", v, t)
}
