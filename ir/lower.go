package ir

import (
	"fmt"
	"slices"

	"github.com/reusee/tnl/ops"
	"github.com/reusee/tnl/symbols"
	"github.com/reusee/tnl/syntax"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

type TypeError struct {
	Pos tokens.Pos
	Msg string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at %s: %s", e.Pos, e.Msg)
}

func (e *TypeError) Position() tokens.Pos {
	return e.Pos
}

type bindingKey struct {
	let    *syntax.Let
	source NodeID
}

type lowerer struct {
	res      *symbols.Resolved
	g        *Graph
	consts   map[string]NodeID
	bindings map[bindingKey]NodeID
	// declared is the frame each binding was declared over
	declared map[*syntax.Let]NodeID
	source   NodeID
	// scalar is set when the last statement produced a scalar root
	scalar bool
}

// Lower translates a resolved program into a graph rooted at its result.
// It does not rewrite anything; only identical literals share a node.
func Lower(res *symbols.Resolved) (*Graph, error) {
	l := &lowerer{
		res:      res,
		g:        new(Graph),
		consts:   make(map[string]NodeID),
		bindings: make(map[bindingKey]NodeID),
		declared: make(map[*syntax.Let]NodeID),
	}
	l.source = l.g.Add(Node{
		Op:     OpTable,
		Type:   values.TypeUnknown,
		Shape:  ShapeTable,
		Schema: res.Input(),
	})
	l.g.Root = l.source

	for _, stmt := range res.Program.Statements {
		if l.scalar {
			return nil, &TypeError{
				Pos: stmt.Position(),
				Msg: "statement follows a scalar result",
			}
		}
		if err := l.lowerStmt(stmt); err != nil {
			return nil, err
		}
	}

	return l.g, nil
}

func (l *lowerer) lowerStmt(stmt syntax.Stmt) error {
	switch stmt := stmt.(type) {

	case *syntax.Let:
		// type-check in the current scope; uses lower it again if the source changes
		l.declared[stmt] = l.source
		_, err := l.lowerBinding(stmt, stmt.Pos)
		return err

	case *syntax.Filter:
		pred, err := l.lowerExpr(stmt.Predicate)
		if err != nil {
			return err
		}
		if l.containsAggregate(pred) {
			return &TypeError{
				Pos: stmt.Predicate.Position(),
				Msg: "aggregate in filter predicate",
			}
		}
		if t := l.g.Nodes[pred].Type; t != values.TypeBool && t != values.TypeNull {
			return &TypeError{
				Pos: stmt.Predicate.Position(),
				Msg: fmt.Sprintf("filter predicate must be bool, got %s", t),
			}
		}
		l.source = l.g.Add(Node{
			Op:        OpFilter,
			Type:      values.TypeUnknown,
			Shape:     ShapeTable,
			Pos:       stmt.Pos,
			Source:    l.source,
			Predicate: pred,
			Schema:    l.g.Nodes[l.source].Schema,
		})
		l.g.Root = l.source

	case *syntax.Select:
		items := make([]NodeID, len(stmt.Items))
		aggregated := false
		for i, item := range stmt.Items {
			id, err := l.lowerExpr(item.Expr)
			if err != nil {
				return err
			}
			items[i] = id
			if l.containsAggregate(id) {
				aggregated = true
			}
		}

		if aggregated {
			for i, item := range stmt.Items {
				if l.readsRows(items[i]) {
					return &TypeError{
						Pos: item.Expr.Position(),
						Msg: "column used outside an aggregate in an aggregating select",
					}
				}
			}
			if len(items) == 1 && stmt.Items[0].Alias == "" {
				l.g.Root = items[0]
				l.scalar = true
				return nil
			}
		}

		names := slices.Clone(l.res.Names[stmt])
		schema := make(values.Schema, len(items))
		for i, item := range items {
			schema[i] = values.Field{
				Name: names[i],
				Type: l.g.Nodes[item].Type,
			}
		}
		l.source = l.g.Add(Node{
			Op:       OpProject,
			Type:     values.TypeUnknown,
			Shape:    ShapeTable,
			Pos:      stmt.Pos,
			Source:   l.source,
			Items:    items,
			Names:    names,
			Collapse: aggregated,
			Schema:   schema,
		})
		l.g.Root = l.source

	default:
		panic(fmt.Errorf("unknown statement %T", stmt))
	}
	return nil
}

// lowerBinding lowers the expression of let over the current source. A
// binding holding an aggregate is only usable over the frame it was declared
// on, since lowering it again would reduce different rows.
func (l *lowerer) lowerBinding(let *syntax.Let, usePos tokens.Pos) (NodeID, error) {
	key := bindingKey{
		let:    let,
		source: l.source,
	}
	if id, ok := l.bindings[key]; ok {
		return id, nil
	}
	id, err := l.lowerExpr(let.Expr)
	if err != nil {
		return NoNode, err
	}
	t := l.g.Nodes[id].Type
	if let.Declared != values.TypeUnknown && t != let.Declared {
		switch {
		case t == values.TypeInt && let.Declared == values.TypeFloat:
			id, err = l.call(let.Pos, "float", []NodeID{id})
			if err != nil {
				return NoNode, err
			}
		case t == values.TypeNull && l.g.Nodes[id].Op == OpConst:
			id = l.constant(values.Null, let.Declared)
		case t == values.TypeNull:
		default:
			return NoNode, &TypeError{
				Pos: let.Pos,
				Msg: fmt.Sprintf("binding %s declared %s, got %s", let.Name, let.Declared, t),
			}
		}
	}
	if l.source != l.declared[let] && l.containsAggregate(id) {
		return NoNode, &TypeError{
			Pos: usePos,
			Msg: fmt.Sprintf("aggregate binding %s used after a filter", let.Name),
		}
	}
	l.bindings[key] = id
	return id, nil
}

func (l *lowerer) constant(v values.Value, t values.Type) NodeID {
	key := t.String() + ":" + v.Key()
	if id, ok := l.consts[key]; ok {
		return id
	}
	id := l.g.Add(Node{
		Op:    OpConst,
		Type:  t,
		Shape: ShapeScalar,
		Value: v,
	})
	l.consts[key] = id
	return id
}

func (l *lowerer) valueShape(inputs ...NodeID) Shape {
	for _, input := range inputs {
		if l.g.Nodes[input].Shape == ShapeColumn {
			return ShapeColumn
		}
	}
	return ShapeScalar
}

func (l *lowerer) call(pos tokens.Pos, name string, args []NodeID) (NodeID, error) {
	builtin, ok := ops.LookupBuiltin(name)
	if !ok {
		return NoNode, &TypeError{
			Pos: pos,
			Msg: fmt.Sprintf("unknown function %s", name),
		}
	}
	if err := builtin.CheckArity(len(args)); err != nil {
		return NoNode, &TypeError{
			Pos: pos,
			Msg: err.Error(),
		}
	}
	argTypes := make([]values.Type, len(args))
	for i, arg := range args {
		argTypes[i] = l.g.Nodes[arg].Type
	}
	t, err := builtin.Type(argTypes)
	if err != nil {
		return NoNode, &TypeError{
			Pos: pos,
			Msg: err.Error(),
		}
	}
	return l.g.Add(Node{
		Op:    OpCall,
		Type:  t,
		Shape: l.valueShape(args...),
		Pos:   pos,
		Func:  name,
		Args:  args,
	}), nil
}

func (l *lowerer) lowerExpr(expr syntax.Expr) (NodeID, error) {
	switch expr := expr.(type) {

	case *syntax.Literal:
		return l.constant(expr.Value, expr.Value.Type), nil

	case *syntax.Ident:
		sym, ok := l.res.Symbols[expr]
		if !ok {
			return NoNode, &TypeError{
				Pos: expr.Pos,
				Msg: fmt.Sprintf("unresolved identifier %s", expr.Name),
			}
		}
		if sym.Kind == symbols.KindBinding {
			return l.lowerBinding(sym.Let, expr.Pos)
		}
		return l.g.Add(Node{
			Op:     OpColumnRef,
			Type:   l.g.Nodes[l.source].Schema[sym.Index].Type,
			Shape:  ShapeColumn,
			Pos:    expr.Pos,
			Scope:  l.source,
			Column: sym.Index,
		}), nil

	case *syntax.Binary:
		left, err := l.lowerExpr(expr.Left)
		if err != nil {
			return NoNode, err
		}
		right, err := l.lowerExpr(expr.Right)
		if err != nil {
			return NoNode, err
		}
		op, ok := ops.ParseBinary(expr.Op)
		if !ok {
			return NoNode, &TypeError{
				Pos: expr.Pos,
				Msg: fmt.Sprintf("unknown operator %s", expr.Op),
			}
		}
		t, err := ops.BinaryType(op, l.g.Nodes[left].Type, l.g.Nodes[right].Type)
		if err != nil {
			return NoNode, &TypeError{
				Pos: expr.Pos,
				Msg: err.Error(),
			}
		}
		return l.g.Add(Node{
			Op:       OpBinary,
			Type:     t,
			Shape:    l.valueShape(left, right),
			Pos:      expr.Pos,
			Operator: op,
			Left:     left,
			Right:    right,
		}), nil

	case *syntax.Unary:
		operand, err := l.lowerExpr(expr.Operand)
		if err != nil {
			return NoNode, err
		}
		op, ok := ops.ParseUnary(expr.Op)
		if !ok {
			return NoNode, &TypeError{
				Pos: expr.Pos,
				Msg: fmt.Sprintf("unknown operator %s", expr.Op),
			}
		}
		t, err := ops.UnaryType(op, l.g.Nodes[operand].Type)
		if err != nil {
			return NoNode, &TypeError{
				Pos: expr.Pos,
				Msg: err.Error(),
			}
		}
		return l.g.Add(Node{
			Op:       OpUnary,
			Type:     t,
			Shape:    l.valueShape(operand),
			Pos:      expr.Pos,
			Operator: op,
			Operand:  operand,
		}), nil

	case *syntax.Call:
		args := make([]NodeID, len(expr.Args))
		for i, arg := range expr.Args {
			id, err := l.lowerExpr(arg)
			if err != nil {
				return NoNode, err
			}
			args[i] = id
		}
		return l.call(expr.Pos, expr.Name, args)

	case *syntax.Aggregate:
		operand, err := l.lowerExpr(expr.Operand)
		if err != nil {
			return NoNode, err
		}
		if l.containsAggregate(operand) {
			return NoNode, &TypeError{
				Pos: expr.Pos,
				Msg: "nested aggregate",
			}
		}
		agg, ok := ops.ParseAgg(expr.Op)
		if !ok {
			return NoNode, &TypeError{
				Pos: expr.Pos,
				Msg: fmt.Sprintf("unknown aggregate %s", expr.Op),
			}
		}
		t, err := ops.AggregateType(agg, l.g.Nodes[operand].Type)
		if err != nil {
			return NoNode, &TypeError{
				Pos: expr.Pos,
				Msg: err.Error(),
			}
		}
		return l.g.Add(Node{
			Op:      OpAggregate,
			Type:    t,
			Shape:   ShapeScalar,
			Pos:     expr.Pos,
			Agg:     agg,
			Source:  l.source,
			Operand: operand,
		}), nil

	}
	panic(fmt.Errorf("unknown expression %T", expr))
}

func (l *lowerer) containsAggregate(id NodeID) bool {
	n := &l.g.Nodes[id]
	switch n.Op {
	case OpAggregate:
		return true
	case OpColumnRef, OpConst, OpTable, OpFilter, OpProject:
		return false
	}
	for _, input := range n.Inputs() {
		if l.containsAggregate(input) {
			return true
		}
	}
	return false
}

// readsRows reports whether id reads a column outside of any aggregate.
func (l *lowerer) readsRows(id NodeID) bool {
	n := &l.g.Nodes[id]
	switch n.Op {
	case OpColumnRef:
		return true
	case OpAggregate, OpConst, OpTable, OpFilter, OpProject:
		return false
	}
	for _, input := range n.Inputs() {
		if l.readsRows(input) {
			return true
		}
	}
	return false
}
