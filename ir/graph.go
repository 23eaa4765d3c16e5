package ir

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/tnl/ops"
	"github.com/reusee/tnl/tokens"
	"github.com/reusee/tnl/values"
)

type NodeID int

const NoNode NodeID = -1

type Op uint8

const (
	OpInvalid Op = iota
	OpTable
	OpConst
	OpColumnRef
	OpBinary
	OpUnary
	OpCall
	OpFilter
	OpProject
	OpAggregate
)

var opNames = [...]string{
	OpInvalid:   "invalid",
	OpTable:     "table",
	OpConst:     "const",
	OpColumnRef: "col",
	OpBinary:    "binary",
	OpUnary:     "unary",
	OpCall:      "call",
	OpFilter:    "filter",
	OpProject:   "project",
	OpAggregate: "aggregate",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

type Shape uint8

const (
	ShapeScalar Shape = iota + 1
	ShapeColumn
	ShapeTable
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeColumn:
		return "column"
	case ShapeTable:
		return "table"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// Node is one operation of the graph. Which fields are meaningful depends on Op.
type Node struct {
	Op    Op
	Type  values.Type
	Shape Shape
	Pos   tokens.Pos

	// Const
	Value values.Value

	// ColumnRef: Column indexes the schema of the table node Scope
	Scope  NodeID
	Column int

	// Binary, Unary
	Operator ops.Op
	Left     NodeID
	Right    NodeID
	Operand  NodeID

	// Call
	Func string
	Args []NodeID

	// Aggregate; also uses Source and Operand
	Agg ops.Agg

	// Filter, Project
	Source    NodeID
	Predicate NodeID
	Items     []NodeID
	Names     []string
	// Collapse marks a Project of scalar items producing exactly one row
	Collapse bool

	// Schema is the output schema of table-shaped nodes
	Schema values.Schema
}

// Inputs returns every node n refers to, in evaluation order.
func (n *Node) Inputs() []NodeID {
	switch n.Op {
	case OpColumnRef:
		return []NodeID{n.Scope}
	case OpBinary:
		return []NodeID{n.Left, n.Right}
	case OpUnary:
		return []NodeID{n.Operand}
	case OpCall:
		return n.Args
	case OpAggregate:
		return []NodeID{n.Source, n.Operand}
	case OpFilter:
		return []NodeID{n.Source, n.Predicate}
	case OpProject:
		return append([]NodeID{n.Source}, n.Items...)
	}
	return nil
}

// Rewire replaces every reference of n with fn(reference).
func (n *Node) Rewire(fn func(NodeID) NodeID) {
	switch n.Op {
	case OpColumnRef:
		n.Scope = fn(n.Scope)
	case OpBinary:
		n.Left = fn(n.Left)
		n.Right = fn(n.Right)
	case OpUnary:
		n.Operand = fn(n.Operand)
	case OpCall:
		for i, arg := range n.Args {
			n.Args[i] = fn(arg)
		}
	case OpAggregate:
		n.Source = fn(n.Source)
		n.Operand = fn(n.Operand)
	case OpFilter:
		n.Source = fn(n.Source)
		n.Predicate = fn(n.Predicate)
	case OpProject:
		n.Source = fn(n.Source)
		for i, item := range n.Items {
			n.Items[i] = fn(item)
		}
	}
}

// Clone copies n without sharing slices.
func (n Node) Clone() Node {
	n.Args = slices.Clone(n.Args)
	n.Items = slices.Clone(n.Items)
	n.Names = slices.Clone(n.Names)
	n.Schema = slices.Clone(n.Schema)
	return n
}

// Graph is an arena of nodes addressed by NodeID.
type Graph struct {
	Nodes []Node
	Root  NodeID
}

func (g *Graph) Node(id NodeID) *Node {
	return &g.Nodes[id]
}

func (g *Graph) Add(node Node) NodeID {
	g.Nodes = append(g.Nodes, node)
	return NodeID(len(g.Nodes) - 1)
}

func (g *Graph) Clone() *Graph {
	ret := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Root:  g.Root,
	}
	for i, node := range g.Nodes {
		ret.Nodes[i] = node.Clone()
	}
	return ret
}

// Substitute redirects every reference to a key of remap to its value.
func (g *Graph) Substitute(remap map[NodeID]NodeID) {
	if len(remap) == 0 {
		return
	}
	resolve := func(id NodeID) NodeID {
		for {
			to, ok := remap[id]
			if !ok || to == id {
				return id
			}
			id = to
		}
	}
	for i := range g.Nodes {
		g.Nodes[i].Rewire(resolve)
	}
	g.Root = resolve(g.Root)
}

// PostOrder returns the nodes reachable from the root, inputs before users.
func (g *Graph) PostOrder() []NodeID {
	var ret []NodeID
	visited := make([]bool, len(g.Nodes))
	var visit func(NodeID)
	visit = func(id NodeID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, input := range g.Nodes[id].Inputs() {
			visit(input)
		}
		ret = append(ret, id)
	}
	if g.Root != NoNode {
		visit(g.Root)
	}
	return ret
}

// Compact drops unreachable nodes and renumbers the rest in post-order.
// Compacting a compacted graph leaves it unchanged.
func (g *Graph) Compact() {
	order := g.PostOrder()
	remap := make(map[NodeID]NodeID, len(order))
	for i, id := range order {
		remap[id] = NodeID(i)
	}
	nodes := make([]Node, len(order))
	for i, id := range order {
		nodes[i] = g.Nodes[id]
		nodes[i].Rewire(func(id NodeID) NodeID {
			return remap[id]
		})
	}
	g.Nodes = nodes
	g.Root = remap[g.Root]
}

// Uses counts the references to each node reachable from the root.
func (g *Graph) Uses() map[NodeID]int {
	ret := make(map[NodeID]int)
	for _, id := range g.PostOrder() {
		for _, input := range g.Nodes[id].Inputs() {
			ret[input]++
		}
	}
	return ret
}

func (g *Graph) String() string {
	var b strings.Builder
	for i := range g.Nodes {
		fmt.Fprintf(&b, "%%%d = %s\n", i, g.Nodes[i].describe())
	}
	fmt.Fprintf(&b, "root %%%d\n", g.Root)
	return b.String()
}

func (n *Node) describe() string {
	switch n.Op {
	case OpTable:
		return fmt.Sprintf("table(%s)", n.Schema)
	case OpConst:
		return fmt.Sprintf("const %s :%s", n.Value.Literal(), n.Type)
	case OpColumnRef:
		return fmt.Sprintf("col %%%d[%d] :%s", n.Scope, n.Column, n.Type)
	case OpBinary:
		return fmt.Sprintf("%s %%%d %%%d :%s %s", n.Operator, n.Left, n.Right, n.Type, n.Shape)
	case OpUnary:
		return fmt.Sprintf("%s %%%d :%s %s", n.Operator, n.Operand, n.Type, n.Shape)
	case OpCall:
		return fmt.Sprintf("%s(%s) :%s %s", n.Func, refs(n.Args), n.Type, n.Shape)
	case OpAggregate:
		return fmt.Sprintf("%s %%%d over %%%d :%s", n.Agg, n.Operand, n.Source, n.Type)
	case OpFilter:
		return fmt.Sprintf("filter %%%d where %%%d", n.Source, n.Predicate)
	case OpProject:
		items := make([]string, len(n.Items))
		for i, item := range n.Items {
			items[i] = fmt.Sprintf("%s=%%%d", n.Names[i], item)
		}
		op := "project"
		if n.Collapse {
			op = "collapse"
		}
		return fmt.Sprintf("%s %%%d [%s]", op, n.Source, strings.Join(items, ", "))
	}
	return n.Op.String()
}

func refs(ids []NodeID) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = fmt.Sprintf("%%%d", id)
	}
	return strings.Join(strs, ", ")
}
