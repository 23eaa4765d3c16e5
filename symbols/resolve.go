package symbols

import (
	"fmt"

	"github.com/reusee/tnl/ops"
	"github.com/reusee/tnl/syntax"
	"github.com/reusee/tnl/values"
)

type Resolved struct {
	Program *syntax.Program
	// Symbols binds every identifier of the program.
	Symbols map[*syntax.Ident]*Symbol
	// Types holds the inferred type of each expression, TypeUnknown where it
	// cannot be inferred. Lowering reports the actual type errors.
	Types map[syntax.Expr]values.Type
	// Schemas[i] is the input schema of statement i; the last entry is the
	// output schema of the program.
	Schemas []values.Schema
	// Names holds the output column names of each select.
	Names map[*syntax.Select][]string
	// Table is the symbol table as it stands after the last statement.
	Table *Table
}

func (r *Resolved) Input() values.Schema {
	return r.Schemas[0]
}

func (r *Resolved) Output() values.Schema {
	return r.Schemas[len(r.Schemas)-1]
}

type resolver struct {
	*Resolved
	schema values.Schema
}

// Resolve binds the identifiers of prog against the table schema and any
// let bindings. It returns the first name error.
func Resolve(prog *syntax.Program, schema values.Schema) (*Resolved, error) {
	r := &resolver{
		Resolved: &Resolved{
			Program: prog,
			Symbols: make(map[*syntax.Ident]*Symbol),
			Types:   make(map[syntax.Expr]values.Type),
			Names:   make(map[*syntax.Select][]string),
			Table:   NewTable(),
		},
	}
	if err := r.enterBlock(schema); err != nil {
		return nil, err
	}

	for _, stmt := range prog.Statements {
		r.Schemas = append(r.Schemas, r.schema)
		switch stmt := stmt.(type) {

		case *syntax.Let:
			if err := r.resolveExpr(stmt.Expr); err != nil {
				return nil, err
			}
			t := r.Types[stmt.Expr]
			if stmt.Declared != values.TypeUnknown {
				if t != values.TypeUnknown && !t.AssignableTo(stmt.Declared) {
					return nil, &NameError{
						Kind:   TypeConflict,
						Name:   stmt.Name,
						Pos:    stmt.Pos,
						Detail: fmt.Sprintf("declared %s, inferred %s", stmt.Declared, t),
					}
				}
				t = stmt.Declared
			}
			if _, ok := r.Table.Declare(&Symbol{
				Name: stmt.Name,
				Kind: KindBinding,
				Type: t,
				Let:  stmt,
				Pos:  stmt.Pos,
			}); !ok {
				return nil, &NameError{
					Kind: DuplicateBinding,
					Name: stmt.Name,
					Pos:  stmt.Pos,
				}
			}

		case *syntax.Filter:
			if err := r.resolveExpr(stmt.Predicate); err != nil {
				return nil, err
			}

		case *syntax.Select:
			var output values.Schema
			seen := make(map[string]bool)
			for _, item := range stmt.Items {
				if err := r.resolveExpr(item.Expr); err != nil {
					return nil, err
				}
				name := OutputName(item)
				if seen[name] {
					pos := item.AliasPos
					if item.Alias == "" {
						pos = item.Expr.Position()
					}
					return nil, &NameError{
						Kind:   DuplicateBinding,
						Name:   name,
						Pos:    pos,
						Detail: "duplicate output column",
					}
				}
				seen[name] = true
				output = append(output, values.Field{
					Name: name,
					Type: r.Types[item.Expr],
				})
				r.Names[stmt] = append(r.Names[stmt], name)
			}
			// a select closes the block: its outputs become the new columns
			// and bindings go out of scope
			r.Table.Pop()
			r.Table.Pop()
			if err := r.enterBlock(output); err != nil {
				return nil, err
			}

		}
	}
	r.Schemas = append(r.Schemas, r.schema)

	return r.Resolved, nil
}

func (r *resolver) enterBlock(schema values.Schema) error {
	r.schema = schema
	r.Table.Push()
	for i, field := range schema {
		if _, ok := r.Table.Declare(&Symbol{
			Name:  field.Name,
			Kind:  KindColumn,
			Type:  field.Type,
			Index: i,
		}); !ok {
			return &NameError{
				Kind:   DuplicateBinding,
				Name:   field.Name,
				Detail: "duplicate column in schema",
			}
		}
	}
	r.Table.Push()
	return nil
}

// OutputName is the column name a select item produces.
func OutputName(item *syntax.SelectItem) string {
	if item.Alias != "" {
		return item.Alias
	}
	if ident, ok := item.Expr.(*syntax.Ident); ok {
		return ident.Name
	}
	return syntax.Format(item.Expr)
}

func (r *resolver) resolveExpr(expr syntax.Expr) error {
	switch expr := expr.(type) {

	case *syntax.Literal:
		r.Types[expr] = expr.Value.Type

	case *syntax.Ident:
		sym, ok := r.Table.Lookup(expr.Name)
		if !ok {
			return &NameError{
				Kind: UnknownIdentifier,
				Name: expr.Name,
				Pos:  expr.Pos,
			}
		}
		r.Symbols[expr] = sym
		r.Types[expr] = sym.Type

	case *syntax.Binary:
		if err := r.resolveExpr(expr.Left); err != nil {
			return err
		}
		if err := r.resolveExpr(expr.Right); err != nil {
			return err
		}
		r.Types[expr] = values.TypeUnknown
		op, ok := ops.ParseBinary(expr.Op)
		l, rt := r.Types[expr.Left], r.Types[expr.Right]
		if ok && l != values.TypeUnknown && rt != values.TypeUnknown {
			if t, err := ops.BinaryType(op, l, rt); err == nil {
				r.Types[expr] = t
			}
		}

	case *syntax.Unary:
		if err := r.resolveExpr(expr.Operand); err != nil {
			return err
		}
		r.Types[expr] = values.TypeUnknown
		op, ok := ops.ParseUnary(expr.Op)
		if t := r.Types[expr.Operand]; ok && t != values.TypeUnknown {
			if t, err := ops.UnaryType(op, t); err == nil {
				r.Types[expr] = t
			}
		}

	case *syntax.Call:
		builtin, ok := ops.LookupBuiltin(expr.Name)
		if !ok {
			return &NameError{
				Kind: UnknownFunction,
				Name: expr.Name,
				Pos:  expr.Pos,
			}
		}
		argTypes := make([]values.Type, len(expr.Args))
		known := true
		for i, arg := range expr.Args {
			if err := r.resolveExpr(arg); err != nil {
				return err
			}
			argTypes[i] = r.Types[arg]
			known = known && argTypes[i] != values.TypeUnknown
		}
		r.Types[expr] = values.TypeUnknown
		if known && builtin.CheckArity(len(argTypes)) == nil {
			if t, err := builtin.Type(argTypes); err == nil {
				r.Types[expr] = t
			}
		}

	case *syntax.Aggregate:
		if err := r.resolveExpr(expr.Operand); err != nil {
			return err
		}
		r.Types[expr] = values.TypeUnknown
		agg, ok := ops.ParseAgg(expr.Op)
		if t := r.Types[expr.Operand]; ok && t != values.TypeUnknown {
			if t, err := ops.AggregateType(agg, t); err == nil {
				r.Types[expr] = t
			}
		}

	default:
		panic(fmt.Errorf("unknown expression %T", expr))
	}
	return nil
}
