package optimize

import (
	"fmt"

	"github.com/reusee/tnl/ir"
)

const DefaultMaxIterations = 16

type Option func(*config)

type config struct {
	maxIterations int
}

func MaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

type Stats struct {
	Iterations int
	Folded     int
	Simplified int
	Merged     int
	Pushed     int
	Pruned     int
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"iterations %d, folded %d, simplified %d, merged %d, pushed %d, pruned %d",
		s.Iterations, s.Folded, s.Simplified, s.Merged, s.Pushed, s.Pruned,
	)
}

type pass func(g *ir.Graph, stats *Stats) bool

var passes = []pass{
	fold,
	simplify,
	merge,
	pushDown,
	prune,
}

// Optimize rewrites g in place until no pass applies or the iteration limit
// is reached, then returns it compacted. Results, errors and row order of the
// graph are unchanged.
func Optimize(g *ir.Graph, options ...Option) (*ir.Graph, Stats) {
	cfg := config{
		maxIterations: DefaultMaxIterations,
	}
	for _, option := range options {
		option(&cfg)
	}

	var stats Stats
	g.Compact()
	for stats.Iterations < cfg.maxIterations {
		stats.Iterations++
		changed := false
		for _, p := range passes {
			if p(g, &stats) {
				changed = true
			}
		}
		g.Compact()
		if !changed {
			break
		}
	}

	return g, stats
}
