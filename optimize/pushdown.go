package optimize

import (
	"slices"

	"github.com/reusee/tnl/ir"
	"github.com/reusee/tnl/values"
)

// pushDown moves a Filter below a Project whose items only pick source
// columns. The Filter slot is rewritten into the Project, so references to
// its rows stay valid. A pushed Filter is retried at once, so it sinks
// through a whole run of such Projects in one pass.
func pushDown(g *ir.Graph, stats *Stats) bool {
	changed := false
	queue := g.PostOrder()
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		filter := g.Node(id).Clone()
		if filter.Op != ir.OpFilter {
			continue
		}
		project := g.Node(filter.Source).Clone()
		if project.Op != ir.OpProject || project.Collapse {
			continue
		}
		picksColumns := true
		for _, item := range project.Items {
			n := g.Node(item)
			if n.Op != ir.OpColumnRef || n.Scope != project.Source {
				picksColumns = false
				break
			}
		}
		if !picksColumns {
			continue
		}

		// translate the predicate to the columns of the project source
		copies := make(map[ir.NodeID]ir.NodeID)
		var translate func(ir.NodeID) ir.NodeID
		translate = func(nodeID ir.NodeID) ir.NodeID {
			if ret, ok := copies[nodeID]; ok {
				return ret
			}
			n := g.Node(nodeID).Clone()
			switch n.Op {
			case ir.OpConst:
				return nodeID
			case ir.OpColumnRef:
				if n.Scope != filter.Source {
					return nodeID
				}
				n.Column = g.Node(project.Items[n.Column]).Column
				n.Scope = project.Source
			default:
				n.Rewire(translate)
			}
			ret := g.Add(n)
			copies[nodeID] = ret
			return ret
		}
		predicate := translate(filter.Predicate)

		pushed := g.Add(ir.Node{
			Op:        ir.OpFilter,
			Type:      values.TypeUnknown,
			Shape:     ir.ShapeTable,
			Pos:       filter.Pos,
			Source:    project.Source,
			Predicate: predicate,
			Schema:    slices.Clone(g.Node(project.Source).Schema),
		})
		items := make([]ir.NodeID, len(project.Items))
		for i, item := range project.Items {
			ref := g.Node(item).Clone()
			ref.Scope = pushed
			items[i] = g.Add(ref)
		}
		project.Source = pushed
		project.Items = items
		*g.Node(id) = project

		queue = append(queue, pushed)

		stats.Pushed++
		changed = true
	}
	return changed
}
