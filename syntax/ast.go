package syntax

import (
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

type Node interface {
	Position() tokens.Pos
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Program struct {
	Statements []Stmt
}

type Literal struct {
	Pos   tokens.Pos
	Value values.Value
}

type Ident struct {
	Pos  tokens.Pos
	Name string
}

type Binary struct {
	Pos   tokens.Pos
	Op    string
	Left  Expr
	Right Expr
}

type Unary struct {
	Pos     tokens.Pos
	Op      string
	Operand Expr
}

// Call is a scalar builtin invocation.
type Call struct {
	Pos  tokens.Pos
	Name string
	Args []Expr
}

// Aggregate is a call to one of the aggregate builtins.
type Aggregate struct {
	Pos     tokens.Pos
	Op      string
	Operand Expr
}

type Filter struct {
	Pos       tokens.Pos
	Predicate Expr
}

type Select struct {
	Pos   tokens.Pos
	Items []*SelectItem
}

type SelectItem struct {
	Expr     Expr
	Alias    string
	AliasPos tokens.Pos
}

// Let declares a program binding. Declared is TypeUnknown when no type is written.
// Uses evaluate Expr over the rows they see; a binding holding an aggregate
// cannot be used after a later filter.
type Let struct {
	Pos      tokens.Pos
	Name     string
	Declared values.Type
	Expr     Expr
}

func (l *Literal) Position() tokens.Pos   { return l.Pos }
func (i *Ident) Position() tokens.Pos     { return i.Pos }
func (b *Binary) Position() tokens.Pos    { return b.Pos }
func (u *Unary) Position() tokens.Pos     { return u.Pos }
func (c *Call) Position() tokens.Pos      { return c.Pos }
func (a *Aggregate) Position() tokens.Pos { return a.Pos }
func (f *Filter) Position() tokens.Pos    { return f.Pos }
func (s *Select) Position() tokens.Pos    { return s.Pos }
func (l *Let) Position() tokens.Pos       { return l.Pos }

// Position of a program is the position of its first statement.
func (p *Program) Position() tokens.Pos {
	if len(p.Statements) == 0 {
		return tokens.Pos{}
	}
	return p.Statements[0].Position()
}

func (*Literal) exprNode()   {}
func (*Ident) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Unary) exprNode()     {}
func (*Call) exprNode()      {}
func (*Aggregate) exprNode() {}

func (*Filter) stmtNode() {}
func (*Select) stmtNode() {}
func (*Let) stmtNode()    {}

var aggregates = map[string]bool{
	"sum":   true,
	"count": true,
	"min":   true,
	"max":   true,
	"avg":   true,
}

func IsAggregate(name string) bool {
	return aggregates[name]
}

// Walk calls fn for expr and every sub-expression, parents first. Returning
// false from fn skips the children.
func Walk(expr Expr, fn func(Expr) bool) {
	if !fn(expr) {
		return
	}
	switch expr := expr.(type) {
	case *Binary:
		Walk(expr.Left, fn)
		Walk(expr.Right, fn)
	case *Unary:
		Walk(expr.Operand, fn)
	case *Call:
		for _, arg := range expr.Args {
			Walk(arg, fn)
		}
	case *Aggregate:
		Walk(expr.Operand, fn)
	}
}
