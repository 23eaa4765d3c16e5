package optimize

import (
	"fmt"
	"strings"

	"github.com/reusee/tnl/ir"
)

// merge unifies structurally identical nodes. ColumnRefs carry their scope in
// the key, so references to different row sets stay apart.
func merge(g *ir.Graph, stats *Stats) bool {
	seen := make(map[string]ir.NodeID)
	remap := make(map[ir.NodeID]ir.NodeID)
	canonical := func(id ir.NodeID) ir.NodeID {
		if to, ok := remap[id]; ok {
			return to
		}
		return id
	}

	for _, id := range g.PostOrder() {
		key := nodeKey(g.Node(id), canonical)
		if existing, ok := seen[key]; ok {
			remap[id] = existing
			continue
		}
		seen[key] = id
	}

	g.Substitute(remap)
	stats.Merged += len(remap)
	return len(remap) > 0
}

func nodeKey(n *ir.Node, canonical func(ir.NodeID) ir.NodeID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d:%d", n.Op, n.Type, n.Shape)
	switch n.Op {
	case ir.OpTable:
		fmt.Fprintf(&b, ":%s", n.Schema)
	case ir.OpConst:
		fmt.Fprintf(&b, ":%s", n.Value.Key())
	case ir.OpColumnRef:
		fmt.Fprintf(&b, ":%d", n.Column)
	case ir.OpBinary, ir.OpUnary:
		fmt.Fprintf(&b, ":%d", n.Operator)
	case ir.OpCall:
		fmt.Fprintf(&b, ":%s", n.Func)
	case ir.OpAggregate:
		fmt.Fprintf(&b, ":%d", n.Agg)
	case ir.OpProject:
		fmt.Fprintf(&b, ":%t:%q", n.Collapse, n.Names)
	}
	for _, input := range n.Inputs() {
		fmt.Fprintf(&b, ":%d", canonical(input))
	}
	return b.String()
}
