package ops

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/reusee/tnl/values"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Builtin is a scalar function applied element-wise.
type Builtin struct {
	Name    string
	MinArgs int
	MaxArgs int
	// MayFail is true when Eval can return an error for well-typed input.
	MayFail bool
	Type    func(args []values.Type) (values.Type, error)
	Eval    func(args []values.Value) (values.Value, error)
}

var builtins = map[string]*Builtin{}

func register(b *Builtin) {
	builtins[b.Name] = b
}

func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

func (b *Builtin) CheckArity(n int) error {
	if n < b.MinArgs || n > b.MaxArgs {
		if b.MinArgs == b.MaxArgs {
			return fmt.Errorf("%s takes %d arguments, got %d", b.Name, b.MinArgs, n)
		}
		return fmt.Errorf("%s takes %d to %d arguments, got %d", b.Name, b.MinArgs, b.MaxArgs, n)
	}
	return nil
}

// Call evaluates b and widens the result to the static type t.
func (b *Builtin) Call(args []values.Value, t values.Type) (values.Value, error) {
	v, err := b.Eval(args)
	if err != nil {
		return values.Null, err
	}
	v, ok := v.Convert(t)
	if !ok {
		return values.Null, ErrTypeMismatch
	}
	return v, nil
}

func expectTypes(name string, args []values.Type, want ...values.Type) error {
	for i, t := range args {
		if t != want[i] && t != values.TypeNull {
			return fmt.Errorf("argument %d of %s must be %s, got %s", i+1, name, want[i], t)
		}
	}
	return nil
}

// stringFunc builds a builtin mapping a string to a string; null maps to null.
func stringFunc(name string, fn func(string) string) *Builtin {
	return &Builtin{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Type: func(args []values.Type) (values.Type, error) {
			return values.TypeStr, expectTypes(name, args, values.TypeStr)
		},
		Eval: func(args []values.Value) (values.Value, error) {
			switch args[0].Type {
			case values.TypeNull:
				return values.Null, nil
			case values.TypeStr:
				return values.Str(fn(args[0].Str)), nil
			}
			return values.Null, ErrTypeMismatch
		},
	}
}

func init() {
	register(stringFunc("upper", strings.ToUpper))
	register(stringFunc("lower", strings.ToLower))
	register(stringFunc("trim", strings.TrimSpace))
	register(stringFunc("title", func(s string) string {
		// Caser is stateful
		return cases.Title(language.Und).String(s)
	}))

	register(&Builtin{
		Name:    "len",
		MinArgs: 1,
		MaxArgs: 1,
		Type: func(args []values.Type) (values.Type, error) {
			return values.TypeInt, expectTypes("len", args, values.TypeStr)
		},
		Eval: func(args []values.Value) (values.Value, error) {
			switch args[0].Type {
			case values.TypeNull:
				return values.Null, nil
			case values.TypeStr:
				return values.Int(int64(utf8.RuneCountInString(args[0].Str))), nil
			}
			return values.Null, ErrTypeMismatch
		},
	})

	register(&Builtin{
		Name:    "replace",
		MinArgs: 3,
		MaxArgs: 3,
		Type: func(args []values.Type) (values.Type, error) {
			return values.TypeStr, expectTypes("replace", args, values.TypeStr, values.TypeStr, values.TypeStr)
		},
		Eval: func(args []values.Value) (values.Value, error) {
			for _, arg := range args {
				if arg.IsNull() {
					return values.Null, nil
				}
				if arg.Type != values.TypeStr {
					return values.Null, ErrTypeMismatch
				}
			}
			return values.Str(strings.ReplaceAll(args[0].Str, args[1].Str, args[2].Str)), nil
		},
	})

	register(&Builtin{
		Name:    "slice",
		MinArgs: 3,
		MaxArgs: 3,
		Type: func(args []values.Type) (values.Type, error) {
			return values.TypeStr, expectTypes("slice", args, values.TypeStr, values.TypeInt, values.TypeInt)
		},
		Eval: func(args []values.Value) (values.Value, error) {
			for _, arg := range args {
				if arg.IsNull() {
					return values.Null, nil
				}
			}
			if args[0].Type != values.TypeStr || args[1].Type != values.TypeInt || args[2].Type != values.TypeInt {
				return values.Null, ErrTypeMismatch
			}
			runes := []rune(args[0].Str)
			start := clamp(args[1].Int, len(runes))
			end := clamp(args[2].Int, len(runes))
			if end < start {
				return values.Str(""), nil
			}
			return values.Str(string(runes[start:end])), nil
		},
	})

	register(&Builtin{
		Name:    "abs",
		MinArgs: 1,
		MaxArgs: 1,
		MayFail: true,
		Type: func(args []values.Type) (values.Type, error) {
			if !args[0].IsNumeric() && args[0] != values.TypeNull {
				return values.TypeUnknown, fmt.Errorf("argument 1 of abs must be numeric, got %s", args[0])
			}
			return args[0], nil
		},
		Eval: func(args []values.Value) (values.Value, error) {
			switch v := args[0]; v.Type {
			case values.TypeNull:
				return values.Null, ErrNullArithmetic
			case values.TypeInt:
				if v.Int == math.MinInt64 {
					return values.Null, ErrOverflow
				}
				if v.Int < 0 {
					return values.Int(-v.Int), nil
				}
				return v, nil
			case values.TypeFloat:
				return values.Float(math.Abs(v.Float)), nil
			}
			return values.Null, ErrTypeMismatch
		},
	})

	register(&Builtin{
		Name:    "isnull",
		MinArgs: 1,
		MaxArgs: 1,
		Type: func(args []values.Type) (values.Type, error) {
			return values.TypeBool, nil
		},
		Eval: func(args []values.Value) (values.Value, error) {
			return values.Bool(args[0].IsNull()), nil
		},
	})

	register(&Builtin{
		Name:    "coalesce",
		MinArgs: 2,
		MaxArgs: 2,
		Type: func(args []values.Type) (values.Type, error) {
			t, ok := values.Unify(args[0], args[1])
			if !ok {
				return values.TypeUnknown, fmt.Errorf("coalesce arguments must share a type, got %s and %s", args[0], args[1])
			}
			return t, nil
		},
		Eval: func(args []values.Value) (values.Value, error) {
			if args[0].IsNull() {
				return args[1], nil
			}
			return args[0], nil
		},
	})

	register(&Builtin{
		Name:    "float",
		MinArgs: 1,
		MaxArgs: 1,
		Type: func(args []values.Type) (values.Type, error) {
			if !args[0].IsNumeric() && args[0] != values.TypeNull {
				return values.TypeUnknown, fmt.Errorf("argument 1 of float must be numeric, got %s", args[0])
			}
			return values.TypeFloat, nil
		},
		Eval: func(args []values.Value) (values.Value, error) {
			if args[0].IsNull() {
				return values.Null, nil
			}
			f, ok := args[0].AsFloat()
			if !ok {
				return values.Null, ErrTypeMismatch
			}
			return values.Float(f), nil
		},
	})
}

// clamp maps a possibly negative index into [0, n], counting negative values from the end.
func clamp(i int64, n int) int {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 {
		return 0
	}
	if i > int64(n) {
		return n
	}
	return int(i)
}
