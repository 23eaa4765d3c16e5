package vm

import (
	"context"
	"fmt"

	"github.com/reusee/tnl/ir"
	"github.com/reusee/tnl/ops"
	"github.com/reusee/tnl/syncs"
	"github.com/reusee/tnl/values"
)

type Option func(*config)

type config struct {
	parallel int
}

// Parallel evaluates the items of a Project in up to n goroutines.
func Parallel(n int) Option {
	return func(c *config) {
		c.parallel = n
	}
}

// datum is the value of one node: a scalar, a column or a frame.
type datum struct {
	shape  ir.Shape
	scalar values.Value
	column *values.Column
	frame  *frame
}

type frame struct {
	schema  values.Schema
	columns []*values.Column
	rows    int
}

type machine struct {
	ctx  context.Context
	g    *ir.Graph
	ds   values.Dataset
	memo map[ir.NodeID]*datum
	// parent is the machine a parallel worker reads shared results from
	parent *machine
	sem    syncs.Semaphore
}

// Execute evaluates the graph against the dataset. Each node is evaluated
// at most once per run. The dataset is never mutated.
func Execute(ctx context.Context, g *ir.Graph, ds values.Dataset, options ...Option) (*Result, error) {
	var cfg config
	for _, option := range options {
		option(&cfg)
	}

	m := &machine{
		ctx:  ctx,
		g:    g,
		ds:   ds,
		memo: make(map[ir.NodeID]*datum),
	}
	if cfg.parallel > 1 {
		m.sem = syncs.NewSemaphore(cfg.parallel)
	}

	d, err := m.eval(g.Root)
	if err != nil {
		return nil, err
	}

	root := g.Node(g.Root)
	switch d.shape {
	case ir.ShapeScalar:
		return &Result{
			Kind:   KindScalar,
			Type:   root.Type,
			Scalar: d.scalar,
		}, nil
	case ir.ShapeColumn:
		return &Result{
			Kind:   KindColumn,
			Type:   root.Type,
			Column: d.column,
		}, nil
	}
	table, err := values.NewTable(d.frame.schema, d.frame.columns)
	if err != nil {
		return nil, m.fail(IndexOutOfRange, g.Root, err)
	}
	return &Result{
		Kind:  KindTable,
		Type:  root.Type,
		Table: table,
	}, nil
}

func (m *machine) fail(kind ErrorKind, id ir.NodeID, err error) error {
	return &RuntimeError{
		Kind: kind,
		Node: id,
		Pos:  m.g.Node(id).Pos,
		Err:  err,
	}
}

func (m *machine) lookup(id ir.NodeID) (*datum, bool) {
	for machine := m; machine != nil; machine = machine.parent {
		if d, ok := machine.memo[id]; ok {
			return d, true
		}
	}
	return nil, false
}

func (m *machine) eval(id ir.NodeID) (*datum, error) {
	if d, ok := m.lookup(id); ok {
		return d, nil
	}
	if err := m.ctx.Err(); err != nil {
		return nil, err
	}

	n := m.g.Node(id)
	var (
		d   *datum
		err error
	)
	switch n.Op {
	case ir.OpTable:
		d, err = m.evalTable(id, n)
	case ir.OpConst:
		d = &datum{
			shape:  ir.ShapeScalar,
			scalar: n.Value,
		}
	case ir.OpColumnRef:
		d, err = m.evalColumnRef(id, n)
	case ir.OpBinary:
		d, err = m.evalElementwise(id, n, func(args []values.Value) (values.Value, error) {
			return ops.EvalBinary(n.Operator, args[0], args[1], n.Type)
		})
	case ir.OpUnary:
		d, err = m.evalElementwise(id, n, func(args []values.Value) (values.Value, error) {
			return ops.EvalUnary(n.Operator, args[0])
		})
	case ir.OpCall:
		builtin, ok := ops.LookupBuiltin(n.Func)
		if !ok {
			return nil, m.fail(TypeMismatch, id, fmt.Errorf("unknown function %s", n.Func))
		}
		d, err = m.evalElementwise(id, n, func(args []values.Value) (values.Value, error) {
			return builtin.Call(args, n.Type)
		})
	case ir.OpFilter:
		d, err = m.evalFilter(id, n)
	case ir.OpProject:
		d, err = m.evalProject(id, n)
	case ir.OpAggregate:
		d, err = m.evalAggregate(id, n)
	default:
		err = m.fail(TypeMismatch, id, fmt.Errorf("invalid op %s", n.Op))
	}
	if err != nil {
		return nil, err
	}

	m.memo[id] = d
	return d, nil
}

func (m *machine) evalFrame(id ir.NodeID) (*frame, error) {
	d, err := m.eval(id)
	if err != nil {
		return nil, err
	}
	if d.frame == nil {
		return nil, m.fail(TypeMismatch, id, fmt.Errorf("not a table"))
	}
	return d.frame, nil
}

func (m *machine) evalTable(id ir.NodeID, n *ir.Node) (*datum, error) {
	dsSchema := m.ds.Schema()
	rows := m.ds.Rows()
	f := &frame{
		schema:  n.Schema,
		columns: make([]*values.Column, len(n.Schema)),
		rows:    rows,
	}
	for i, field := range n.Schema {
		idx := dsSchema.Index(field.Name)
		if idx < 0 {
			return nil, m.fail(IndexOutOfRange, id, fmt.Errorf("no column %s in dataset", field.Name))
		}
		if dsSchema[idx].Type != field.Type {
			return nil, m.fail(TypeMismatch, id, fmt.Errorf("column %s is %s in dataset, compiled as %s", field.Name, dsSchema[idx].Type, field.Type))
		}
		col, err := m.ds.Column(field.Name)
		if err != nil {
			return nil, m.fail(IndexOutOfRange, id, err)
		}
		if col.Len() != rows {
			return nil, m.fail(IndexOutOfRange, id, fmt.Errorf("column %s has %d rows, expected %d", field.Name, col.Len(), rows))
		}
		f.columns[i] = col
	}
	return &datum{
		shape: ir.ShapeTable,
		frame: f,
	}, nil
}

func (m *machine) evalColumnRef(id ir.NodeID, n *ir.Node) (*datum, error) {
	f, err := m.evalFrame(n.Scope)
	if err != nil {
		return nil, err
	}
	if n.Column < 0 || n.Column >= len(f.columns) {
		return nil, m.fail(IndexOutOfRange, id, fmt.Errorf("column %d of %d", n.Column, len(f.columns)))
	}
	return &datum{
		shape:  ir.ShapeColumn,
		column: f.columns[n.Column],
	}, nil
}

// evalElementwise applies fn to the inputs of n row by row, broadcasting
// scalar inputs. With only scalar inputs fn is applied once.
func (m *machine) evalElementwise(id ir.NodeID, n *ir.Node, fn func([]values.Value) (values.Value, error)) (*datum, error) {
	inputs := n.Inputs()
	data := make([]*datum, len(inputs))
	length := -1
	for i, input := range inputs {
		d, err := m.eval(input)
		if err != nil {
			return nil, err
		}
		if d.column != nil {
			if length >= 0 && d.column.Len() != length {
				return nil, m.fail(IndexOutOfRange, id, fmt.Errorf("column lengths %d and %d", length, d.column.Len()))
			}
			length = d.column.Len()
		} else if d.shape != ir.ShapeScalar {
			return nil, m.fail(TypeMismatch, input, fmt.Errorf("not a value"))
		}
		data[i] = d
	}

	args := make([]values.Value, len(data))
	if length < 0 {
		for i, d := range data {
			args[i] = d.scalar
		}
		v, err := fn(args)
		if err != nil {
			return nil, m.fail(kindOf(err), id, err)
		}
		return &datum{
			shape:  ir.ShapeScalar,
			scalar: v,
		}, nil
	}

	col := values.NewColumn(n.Type, length)
	for row := range length {
		for i, d := range data {
			if d.column != nil {
				args[i] = d.column.Values[row]
			} else {
				args[i] = d.scalar
			}
		}
		v, err := fn(args)
		if err != nil {
			return nil, m.fail(kindOf(err), id, fmt.Errorf("row %d: %w", row, err))
		}
		col.Values[row] = v
	}
	return &datum{
		shape:  ir.ShapeColumn,
		column: col,
	}, nil
}

func (m *machine) evalFilter(id ir.NodeID, n *ir.Node) (*datum, error) {
	src, err := m.evalFrame(n.Source)
	if err != nil {
		return nil, err
	}
	pred, err := m.eval(n.Predicate)
	if err != nil {
		return nil, err
	}

	keep := func(v values.Value) (bool, error) {
		switch v.Type {
		case values.TypeNull:
			return false, nil
		case values.TypeBool:
			return v.Bool, nil
		}
		return false, m.fail(TypeMismatch, n.Predicate, fmt.Errorf("predicate value %s", v))
	}

	var rows []int
	if pred.column != nil {
		if pred.column.Len() != src.rows {
			return nil, m.fail(IndexOutOfRange, id, fmt.Errorf("mask of %d rows over %d rows", pred.column.Len(), src.rows))
		}
		for i, v := range pred.column.Values {
			ok, err := keep(v)
			if err != nil {
				return nil, err
			}
			if ok {
				rows = append(rows, i)
			}
		}
	} else {
		ok, err := keep(pred.scalar)
		if err != nil {
			return nil, err
		}
		if ok {
			rows = make([]int, src.rows)
			for i := range rows {
				rows[i] = i
			}
		}
	}

	f := &frame{
		schema:  n.Schema,
		columns: src.columns,
		rows:    len(rows),
	}
	if len(rows) != src.rows {
		f.columns = make([]*values.Column, len(src.columns))
		for i, col := range src.columns {
			f.columns[i] = col.Select(rows)
		}
	}
	return &datum{
		shape: ir.ShapeTable,
		frame: f,
	}, nil
}

func (m *machine) evalProject(id ir.NodeID, n *ir.Node) (*datum, error) {
	src, err := m.evalFrame(n.Source)
	if err != nil {
		return nil, err
	}
	items, err := m.evalItems(n.Items)
	if err != nil {
		return nil, err
	}

	rows := src.rows
	if n.Collapse {
		rows = 1
	}
	f := &frame{
		schema:  n.Schema,
		columns: make([]*values.Column, len(items)),
		rows:    rows,
	}
	for i, d := range items {
		if d.column != nil {
			if d.column.Len() != rows {
				return nil, m.fail(IndexOutOfRange, n.Items[i], fmt.Errorf("column of %d rows in a table of %d", d.column.Len(), rows))
			}
			f.columns[i] = d.column
			continue
		}
		f.columns[i] = values.Broadcast(d.scalar, n.Schema[i].Type, rows)
	}
	return &datum{
		shape: ir.ShapeTable,
		frame: f,
	}, nil
}

func (m *machine) evalAggregate(id ir.NodeID, n *ir.Node) (*datum, error) {
	src, err := m.evalFrame(n.Source)
	if err != nil {
		return nil, err
	}
	operand, err := m.eval(n.Operand)
	if err != nil {
		return nil, err
	}
	col := operand.column
	if col == nil {
		col = values.Broadcast(operand.scalar, m.g.Node(n.Operand).Type, src.rows)
	} else if col.Len() != src.rows {
		return nil, m.fail(IndexOutOfRange, id, fmt.Errorf("column of %d rows over %d rows", col.Len(), src.rows))
	}
	v, err := ops.Reduce(n.Agg, col, n.Type)
	if err != nil {
		return nil, m.fail(kindOf(err), id, err)
	}
	return &datum{
		shape:  ir.ShapeScalar,
		scalar: v,
	}, nil
}
