package optimize

import (
	"github.com/reusee/tnl/ir"
	"github.com/reusee/tnl/ops"
	"github.com/reusee/tnl/values"
)

// fold replaces operations over constants with their value. Operations that
// would fail are left for the VM to report.
func fold(g *ir.Graph, stats *Stats) bool {
	changed := false
	for _, id := range g.PostOrder() {
		n := g.Node(id)
		switch n.Op {
		case ir.OpBinary, ir.OpUnary, ir.OpCall:
		default:
			continue
		}

		args := make([]values.Value, 0, 2)
		constant := true
		for _, input := range n.Inputs() {
			in := g.Node(input)
			if in.Op != ir.OpConst {
				constant = false
				break
			}
			args = append(args, in.Value)
		}
		if !constant {
			continue
		}

		var (
			v   values.Value
			err error
		)
		switch n.Op {
		case ir.OpBinary:
			v, err = ops.EvalBinary(n.Operator, args[0], args[1], n.Type)
		case ir.OpUnary:
			v, err = ops.EvalUnary(n.Operator, args[0])
		case ir.OpCall:
			builtin, ok := ops.LookupBuiltin(n.Func)
			if !ok {
				continue
			}
			v, err = builtin.Call(args, n.Type)
		}
		if err != nil {
			continue
		}

		*n = ir.Node{
			Op:    ir.OpConst,
			Type:  n.Type,
			Shape: ir.ShapeScalar,
			Pos:   n.Pos,
			Value: v,
		}
		stats.Folded++
		changed = true
	}
	return changed
}

// mayFail reports whether evaluating the value node id can return an error.
// Table inputs are not inspected.
func mayFail(g *ir.Graph, id ir.NodeID, memo map[ir.NodeID]bool) bool {
	if ret, ok := memo[id]; ok {
		return ret
	}
	n := g.Node(id)
	var ret bool
	switch n.Op {
	case ir.OpConst, ir.OpColumnRef, ir.OpTable, ir.OpFilter, ir.OpProject:
		ret = false
	case ir.OpBinary, ir.OpUnary:
		ret = n.Operator.MayFail()
	case ir.OpCall:
		builtin, ok := ops.LookupBuiltin(n.Func)
		ret = !ok || builtin.MayFail
	case ir.OpAggregate:
		ret = n.Agg.MayFail() || mayFail(g, n.Operand, memo)
	default:
		ret = true
	}
	if !ret {
		switch n.Op {
		case ir.OpBinary, ir.OpUnary, ir.OpCall:
			for _, input := range n.Inputs() {
				if mayFail(g, input, memo) {
					ret = true
					break
				}
			}
		}
	}
	memo[id] = ret
	return ret
}
