package debugs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/reusee/starlarkutil"
	"github.com/reusee/tnl/ir"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
	"go.starlark.net/starlark"
)

// toStarlarkValue converts stage artifacts and plain Go values for the
// inspection shell. Values it cannot represent become a "<type>" string.
func toStarlarkValue(v any) starlark.Value {
	switch v := v.(type) {

	case nil:
		return starlark.None

	case starlark.Value:
		return v

	case values.Value:
		return toStarlarkValue(v.Go())

	case *values.Column:
		if v == nil {
			return starlark.None
		}
		return toStarlarkValue(v.Values)

	case *values.Table:
		if v == nil {
			return starlark.None
		}
		rows := make([]starlark.Value, v.Rows())
		for i := range rows {
			rows[i] = toStarlarkValue(v.Row(i))
		}
		return dict(
			"schema", starlark.String(v.Fields.String()),
			"columns", toStarlarkValue(v.Fields.Names()),
			"rows", starlark.NewList(rows),
		)

	case *ir.Graph:
		if v == nil {
			return starlark.None
		}
		// one line per node, then the root line
		lines := strings.Split(strings.TrimSuffix(v.String(), "\n"), "\n")
		return dict(
			"root", starlark.MakeInt(int(v.Root)),
			"nodes", toStarlarkValue(lines[:len(lines)-1]),
		)

	case tokens.Pos:
		return starlark.String(v.String())

	case []byte:
		return starlark.Bytes(v)

	}

	value := reflect.ValueOf(v)
	switch value.Kind() {

	case reflect.Bool:
		return starlark.Bool(value.Bool())

	case reflect.String:
		return starlark.String(value.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// named integers are enums
		if stringer, ok := v.(fmt.Stringer); ok {
			return starlark.String(stringer.String())
		}
		return starlark.MakeInt64(value.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if stringer, ok := v.(fmt.Stringer); ok {
			return starlark.String(stringer.String())
		}
		return starlark.MakeUint64(value.Uint())

	case reflect.Float32, reflect.Float64:
		return starlark.Float(value.Float())

	case reflect.Slice, reflect.Array:
		elems := make([]starlark.Value, value.Len())
		for i := range elems {
			elems[i] = toStarlarkValue(value.Index(i).Interface())
		}
		return starlark.NewList(elems)

	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			d.SetKey(
				toStarlarkValue(iter.Key().Interface()),
				toStarlarkValue(iter.Value().Interface()),
			)
		}
		return d

	case reflect.Struct:
		typ := value.Type()
		d := starlark.NewDict(typ.NumField())
		for i := range typ.NumField() {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			d.SetKey(
				starlark.String(field.Name),
				toStarlarkValue(value.Field(i).Interface()),
			)
		}
		return d

	case reflect.Pointer, reflect.Interface:
		elem := value.Elem()
		if !elem.IsValid() {
			return starlark.None
		}
		return toStarlarkValue(elem.Interface())

	case reflect.Func:
		return starlarkutil.MakeFunc("", value.Interface())

	}

	return starlark.String(fmt.Sprintf("<%T>", v))
}

func dict(kvs ...any) *starlark.Dict {
	d := starlark.NewDict(len(kvs) / 2)
	for i := 0; i+1 < len(kvs); i += 2 {
		d.SetKey(starlark.String(kvs[i].(string)), kvs[i+1].(starlark.Value))
	}
	return d
}
