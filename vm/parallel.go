package vm

import (
	"sync"

	"github.com/reusee/tnl/ir"
	"github.com/samber/lo"
)

func (m *machine) evalItems(items []ir.NodeID) ([]*datum, error) {
	if m.sem == nil || len(items) < 2 {
		return m.evalSequential(items)
	}

	// nodes reached from more than one item are evaluated first, so the
	// workers only read shared results
	reach := make(map[ir.NodeID]int)
	for _, item := range items {
		seen := make(map[ir.NodeID]bool)
		var walk func(ir.NodeID)
		walk = func(id ir.NodeID) {
			if seen[id] {
				return
			}
			seen[id] = true
			if _, ok := m.lookup(id); ok {
				return
			}
			reach[id]++
			for _, input := range m.g.Node(id).Inputs() {
				walk(input)
			}
		}
		walk(item)
	}
	shared := lo.Filter(m.g.PostOrder(), func(id ir.NodeID, _ int) bool {
		return reach[id] > 1
	})
	for _, id := range shared {
		if _, err := m.eval(id); err != nil {
			// sequential evaluation reports the error the way a single worker would
			return m.evalSequential(items)
		}
	}

	ret := make([]*datum, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		if err := m.sem.Acquire(m.ctx); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer m.sem.Release()
			worker := &machine{
				ctx:    m.ctx,
				g:      m.g,
				ds:     m.ds,
				memo:   make(map[ir.NodeID]*datum),
				parent: m,
			}
			ret[i], errs[i] = worker.eval(item)
		}()
	}
	wg.Wait()

	if err, ok := lo.Find(errs, func(err error) bool {
		return err != nil
	}); ok {
		return nil, err
	}
	return ret, nil
}

func (m *machine) evalSequential(items []ir.NodeID) ([]*datum, error) {
	ret := make([]*datum, len(items))
	for i, item := range items {
		d, err := m.eval(item)
		if err != nil {
			return nil, err
		}
		ret[i] = d
	}
	return ret, nil
}
