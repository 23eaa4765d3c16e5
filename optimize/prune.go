package optimize

import (
	"slices"

	"github.com/reusee/tnl/ir"
)

// prune removes the items of inner Projects that nothing reads and that
// cannot fail. Filters stacked on a Project share its schema, so their
// column references are renumbered along with the Project's own.
// Unreachable nodes are left to compaction.
func prune(g *ir.Graph, stats *Stats) bool {
	changed := false
	order := g.PostOrder()
	failMemo := make(map[ir.NodeID]bool)

	for _, id := range order {
		project := g.Node(id)
		if project.Op != ir.OpProject {
			continue
		}

		// the project and the filters reading its schema
		family := map[ir.NodeID]bool{
			id: true,
		}
		for _, other := range order {
			n := g.Node(other)
			if n.Op == ir.OpFilter && family[n.Source] {
				family[other] = true
			}
		}
		if family[g.Root] {
			continue
		}

		used := make([]bool, len(project.Items))
		for _, other := range order {
			n := g.Node(other)
			if n.Op == ir.OpColumnRef && family[n.Scope] {
				used[n.Column] = true
			}
		}

		index := make([]int, len(project.Items))
		var keep []int
		for i, item := range project.Items {
			index[i] = -1
			if used[i] || mayFail(g, item, failMemo) {
				index[i] = len(keep)
				keep = append(keep, i)
			}
		}
		if len(keep) == 0 {
			// a table needs a column to carry its row count
			index[0] = 0
			keep = []int{0}
		}
		if len(keep) == len(project.Items) {
			continue
		}

		items := make([]ir.NodeID, 0, len(keep))
		names := make([]string, 0, len(keep))
		schema := project.Schema[:0:0]
		for _, i := range keep {
			items = append(items, project.Items[i])
			names = append(names, project.Names[i])
			schema = append(schema, project.Schema[i])
		}
		stats.Pruned += len(project.Items) - len(keep)
		project.Items = items
		project.Names = names
		project.Schema = schema

		for _, other := range order {
			n := g.Node(other)
			switch {
			case n.Op == ir.OpFilter && family[other]:
				n.Schema = slices.Clone(schema)
			case n.Op == ir.OpColumnRef && family[n.Scope]:
				n.Column = index[n.Column]
			}
		}
		changed = true
	}
	return changed
}
