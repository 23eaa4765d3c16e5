package cmds

import (
	"encoding"
	"fmt"
	"maps"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/reusee/tnl/vars"
)

type Executor struct {
	commands map[string]*Command
}

func NewExecutor() *Executor {
	ret := &Executor{
		commands: make(map[string]*Command),
	}

	usage := Func(func() {
		ret.PrintUsage()
		os.Exit(0)
	}).
		Desc("print this usage").
		Alias("help", "-help", "--help")
	ret.Define("-h", usage)

	return ret
}

func (p *Executor) Define(name string, command *Command) {
	if _, ok := p.commands[name]; ok {
		panic(fmt.Errorf("duplicated command %s", name))
	}
	p.commands[name] = command
	for _, name := range command.Aliases {
		if _, ok := p.commands[name]; ok {
			panic(fmt.Errorf("duplicated command %s", name))
		}
		p.commands[name] = command
	}
}

var errorType = reflect.TypeFor[error]()

// UnknownCommandError reports an argument that names no command in scope.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command: " + e.Name
}

// Execute runs the commands named in args in order. Each command consumes
// its arguments from the following elements. Sub commands of a command
// become available to the rest of args.
func (p *Executor) Execute(args []string) error {
	commands := p.commands
	for len(args) > 0 {
		name := strings.TrimSpace(args[0])
		args = args[1:]

		command, ok := commands[name]
		if !ok {
			return &UnknownCommandError{
				Name: name,
			}
		}

		if command.Func.IsValid() {
			var err error
			args, err = call(command, commands, args)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}

		if len(command.Subs) > 0 {
			commands = maps.Clone(commands)
			for subname, sub := range command.Subs {
				if _, ok := commands[subname]; ok {
					return fmt.Errorf("duplicated sub command: %s %s", name, subname)
				}
				commands[subname] = sub
			}
		}
	}
	return nil
}

func call(command *Command, commands map[string]*Command, args []string) (rest []string, err error) {
	fnType := command.Func.Type()
	callArgs := make([]reflect.Value, 0, fnType.NumIn())
	for i := range fnType.NumIn() {
		argType := fnType.In(i)

		var str *string
		if len(args) > 0 {
			str = &args[0]
			if argType.Kind() == reflect.Pointer {
				// an optional argument never swallows the next command
				if _, ok := commands[strings.TrimSpace(args[0])]; ok {
					str = nil
				}
			}
		}

		value, err := parseArg(argType, str)
		if err != nil {
			return nil, err
		}
		if str != nil {
			args = args[1:]
		}
		callArgs = append(callArgs, value)
	}

	rets := command.Func.Call(callArgs)
	if len(rets) > 0 {
		if err, _ := rets[0].Interface().(error); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (p *Executor) MustExecute(args []string) {
	if err := p.Execute(args); err != nil {
		panic(err)
	}
}

// parseArg converts str to a value of type t. A nil str is only accepted by
// pointer types, which are optional.
func parseArg(t reflect.Type, str *string) (reflect.Value, error) {
	if t.Kind() == reflect.Pointer {
		if str == nil {
			return reflect.New(t.Elem()), nil
		}
		elem, err := parseArg(t.Elem(), str)
		if err != nil {
			return reflect.Value{}, err
		}
		return elem.Addr(), nil
	}
	if str == nil {
		return reflect.Value{}, fmt.Errorf("expecting %v argument, got nothing", t)
	}

	ret := reflect.New(t).Elem()
	if unmarshaler, ok := ret.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return ret, unmarshaler.UnmarshalText([]byte(*str))
	}
	parse, ok := kindParsers[t.Kind()]
	if !ok {
		return ret, fmt.Errorf("unsupported type: %v", t)
	}
	return ret, parse(*str, ret)
}

var kindParsers = map[reflect.Kind]func(string, reflect.Value) error{
	reflect.String: func(str string, v reflect.Value) error {
		v.SetString(str)
		return nil
	},
	reflect.Bool: func(str string, v reflect.Value) error {
		b, ok := vars.StrToBool(str)
		if !ok {
			return fmt.Errorf("convert %s to bool", str)
		}
		v.SetBool(b)
		return nil
	},
	reflect.Int:     parseInt,
	reflect.Int8:    parseInt,
	reflect.Int16:   parseInt,
	reflect.Int32:   parseInt,
	reflect.Int64:   parseInt,
	reflect.Uint:    parseUint,
	reflect.Uint8:   parseUint,
	reflect.Uint16:  parseUint,
	reflect.Uint32:  parseUint,
	reflect.Uint64:  parseUint,
	reflect.Float32: parseFloat,
	reflect.Float64: parseFloat,
}

func parseInt(str string, v reflect.Value) error {
	i, err := strconv.ParseInt(str, 10, v.Type().Bits())
	if err != nil {
		return fmt.Errorf("convert %s to int: %w", str, err)
	}
	v.SetInt(i)
	return nil
}

func parseUint(str string, v reflect.Value) error {
	i, err := strconv.ParseUint(str, 10, v.Type().Bits())
	if err != nil {
		return fmt.Errorf("convert %s to unsigned int: %w", str, err)
	}
	v.SetUint(i)
	return nil
}

func parseFloat(str string, v reflect.Value) error {
	f, err := strconv.ParseFloat(str, v.Type().Bits())
	if err != nil {
		return fmt.Errorf("convert %s to float: %w", str, err)
	}
	v.SetFloat(f)
	return nil
}
