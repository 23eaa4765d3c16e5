package optimize

import (
	"github.com/reusee/tnl/ir"
	"github.com/reusee/tnl/ops"
	"github.com/reusee/tnl/values"
)

func isBool(n *ir.Node, b bool) bool {
	return n.Op == ir.OpConst && n.Value.Type == values.TypeBool && n.Value.Bool == b
}

// simplify applies boolean identities under three-valued logic:
//
//	x && true  => x
//	x || false => x
//	x && false => false, when x cannot fail
//	x || true  => true, when x cannot fail
//	!!x        => x
//	!(a < b)   => a >= b, and the other comparisons
//	filter(true) is removed
func simplify(g *ir.Graph, stats *Stats) bool {
	remap := make(map[ir.NodeID]ir.NodeID)
	failMemo := make(map[ir.NodeID]bool)
	changed := false

	// replace keeps the node type stable so parents stay well-typed
	replace := func(id, with ir.NodeID) bool {
		if g.Node(id).Type != g.Node(with).Type {
			return false
		}
		remap[id] = with
		return true
	}
	toConst := func(id ir.NodeID, v values.Value) {
		n := g.Node(id)
		*n = ir.Node{
			Op:    ir.OpConst,
			Type:  n.Type,
			Shape: ir.ShapeScalar,
			Pos:   n.Pos,
			Value: v,
		}
	}

	for _, id := range g.PostOrder() {
		n := g.Node(id)
		done := false
		switch n.Op {

		case ir.OpBinary:
			if n.Operator != ops.OpAnd && n.Operator != ops.OpOr {
				break
			}
			identity := n.Operator == ops.OpAnd
			left, right := g.Node(n.Left), g.Node(n.Right)
			switch {
			case isBool(right, identity):
				done = replace(id, n.Left)
			case isBool(left, identity):
				done = replace(id, n.Right)
			case isBool(right, !identity) && !mayFail(g, n.Left, failMemo),
				isBool(left, !identity) && !mayFail(g, n.Right, failMemo):
				toConst(id, values.Bool(!identity))
				done = true
			}

		case ir.OpUnary:
			if n.Operator != ops.OpNot {
				break
			}
			operand := g.Node(n.Operand)
			switch {
			case operand.Op == ir.OpUnary && operand.Operator == ops.OpNot:
				done = replace(id, operand.Operand)
			case operand.Op == ir.OpBinary:
				negated, ok := operand.Operator.Negate()
				if !ok {
					break
				}
				*n = ir.Node{
					Op:       ir.OpBinary,
					Type:     n.Type,
					Shape:    n.Shape,
					Pos:      n.Pos,
					Operator: negated,
					Left:     operand.Left,
					Right:    operand.Right,
				}
				done = true
			}

		case ir.OpFilter:
			if isBool(g.Node(n.Predicate), true) {
				done = replace(id, n.Source)
			}

		}
		if done {
			stats.Simplified++
			changed = true
		}
	}

	g.Substitute(remap)
	return changed
}
