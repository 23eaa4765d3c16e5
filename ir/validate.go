package ir

import (
	"fmt"

	"github.com/reusee/tnl/ops"
	"github.com/reusee/tnl/values"
)

// Validate checks the structural invariants of g: references in range, no
// cycles, column indexes within the schema of their scope, and operand types
// agreeing with the type of each node.
func (g *Graph) Validate() error {
	if g.Root < 0 || int(g.Root) >= len(g.Nodes) {
		return fmt.Errorf("root %%%d out of range", g.Root)
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]uint8, len(g.Nodes))
	var visit func(NodeID) error
	visit = func(id NodeID) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("cycle through %%%d", id)
		case done:
			return nil
		}
		state[id] = visiting
		for _, input := range g.Nodes[id].Inputs() {
			if input < 0 || int(input) >= len(g.Nodes) {
				return fmt.Errorf("node %%%d: reference %%%d out of range", id, input)
			}
			if err := visit(input); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for i := range g.Nodes {
		if err := visit(NodeID(i)); err != nil {
			return err
		}
	}

	for i := range g.Nodes {
		if err := g.validateNode(NodeID(i)); err != nil {
			return fmt.Errorf("node %%%d (%s): %w", i, g.Nodes[i].Op, err)
		}
	}
	return nil
}

func (g *Graph) validateNode(id NodeID) error {
	n := &g.Nodes[id]
	expectShape := func(want Shape) error {
		if n.Shape != want {
			return fmt.Errorf("shape %s, expected %s", n.Shape, want)
		}
		return nil
	}
	valueShape := func(inputs ...NodeID) error {
		want := ShapeScalar
		for _, input := range inputs {
			switch g.Nodes[input].Shape {
			case ShapeColumn:
				want = ShapeColumn
			case ShapeTable:
				return fmt.Errorf("table %%%d used as a value", input)
			}
		}
		return expectShape(want)
	}
	expectType := func(t values.Type, err error) error {
		if err != nil {
			return err
		}
		if t != n.Type {
			return fmt.Errorf("type %s, expected %s", n.Type, t)
		}
		return nil
	}

	switch n.Op {

	case OpTable:
		return expectShape(ShapeTable)

	case OpConst:
		if err := expectShape(ShapeScalar); err != nil {
			return err
		}
		if !n.Value.IsNull() && n.Value.Type != n.Type {
			return fmt.Errorf("value %s does not have type %s", n.Value, n.Type)
		}

	case OpColumnRef:
		if err := expectShape(ShapeColumn); err != nil {
			return err
		}
		scope := &g.Nodes[n.Scope]
		if scope.Shape != ShapeTable {
			return fmt.Errorf("scope %%%d is not a table", n.Scope)
		}
		if n.Column < 0 || n.Column >= len(scope.Schema) {
			return fmt.Errorf("column %d out of range of %%%d", n.Column, n.Scope)
		}
		return expectType(scope.Schema[n.Column].Type, nil)

	case OpBinary:
		if err := valueShape(n.Left, n.Right); err != nil {
			return err
		}
		return expectType(ops.BinaryType(n.Operator, g.Nodes[n.Left].Type, g.Nodes[n.Right].Type))

	case OpUnary:
		if err := valueShape(n.Operand); err != nil {
			return err
		}
		return expectType(ops.UnaryType(n.Operator, g.Nodes[n.Operand].Type))

	case OpCall:
		if err := valueShape(n.Args...); err != nil {
			return err
		}
		builtin, ok := ops.LookupBuiltin(n.Func)
		if !ok {
			return fmt.Errorf("unknown function %s", n.Func)
		}
		if err := builtin.CheckArity(len(n.Args)); err != nil {
			return err
		}
		argTypes := make([]values.Type, len(n.Args))
		for i, arg := range n.Args {
			argTypes[i] = g.Nodes[arg].Type
		}
		return expectType(builtin.Type(argTypes))

	case OpAggregate:
		if err := expectShape(ShapeScalar); err != nil {
			return err
		}
		if err := g.expectTable(n.Source); err != nil {
			return err
		}
		if err := g.checkScope(n.Operand, n.Source); err != nil {
			return err
		}
		return expectType(ops.AggregateType(n.Agg, g.Nodes[n.Operand].Type))

	case OpFilter:
		if err := expectShape(ShapeTable); err != nil {
			return err
		}
		if err := g.expectTable(n.Source); err != nil {
			return err
		}
		if t := g.Nodes[n.Predicate].Type; t != values.TypeBool && t != values.TypeNull {
			return fmt.Errorf("predicate has type %s", t)
		}
		if err := g.checkScope(n.Predicate, n.Source); err != nil {
			return err
		}
		if !schemaEqual(n.Schema, g.Nodes[n.Source].Schema) {
			return fmt.Errorf("schema %s differs from source schema", n.Schema)
		}

	case OpProject:
		if err := expectShape(ShapeTable); err != nil {
			return err
		}
		if err := g.expectTable(n.Source); err != nil {
			return err
		}
		if len(n.Items) == 0 || len(n.Items) != len(n.Names) || len(n.Items) != len(n.Schema) {
			return fmt.Errorf("%d items, %d names, %d fields", len(n.Items), len(n.Names), len(n.Schema))
		}
		for i, item := range n.Items {
			if err := g.checkScope(item, n.Source); err != nil {
				return err
			}
			node := &g.Nodes[item]
			if n.Collapse && node.Shape != ShapeScalar {
				return fmt.Errorf("collapsing item %s is not a scalar", n.Names[i])
			}
			if node.Type != n.Schema[i].Type || n.Names[i] != n.Schema[i].Name {
				return fmt.Errorf("item %s:%s does not match field %s", n.Names[i], node.Type, n.Schema[i].Name)
			}
		}

	default:
		return fmt.Errorf("invalid op")
	}
	return nil
}

func (g *Graph) expectTable(id NodeID) error {
	if g.Nodes[id].Shape != ShapeTable {
		return fmt.Errorf("source %%%d is not a table", id)
	}
	return nil
}

// checkScope verifies that every row value reachable from id reads from scope.
// Aggregates reduce their own source, which must be scope as well.
func (g *Graph) checkScope(id NodeID, scope NodeID) error {
	n := &g.Nodes[id]
	switch n.Op {
	case OpTable, OpFilter, OpProject:
		return fmt.Errorf("table %%%d used as a value", id)
	case OpColumnRef:
		if n.Scope != scope {
			return fmt.Errorf("%%%d reads %%%d outside its scope %%%d", id, n.Scope, scope)
		}
		return nil
	case OpAggregate:
		if n.Source != scope {
			return fmt.Errorf("%%%d aggregates %%%d outside its scope %%%d", id, n.Source, scope)
		}
		return nil
	}
	for _, input := range n.Inputs() {
		if err := g.checkScope(input, scope); err != nil {
			return err
		}
	}
	return nil
}

func schemaEqual(a, b values.Schema) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
