// Package scheduler implements the Convergence Scheduler: a frame-striped
// intrusive-list index per Property Type that ticks every scheduled
// property's convergence step once per frame, each property assigned to
// exactly one of convergence_interval stripes so a tick only ever touches
// a fraction of the scheduled population.
package scheduler

import (
	"container/list"

	"github.com/hollis-tate/repliprop/internal/fault"
	"github.com/hollis-tate/repliprop/internal/property"
)

// index is one active-or-resting side of a Property Type's scheduler:
// convergence_interval stripes, each an intrusive doubly linked list.
// container/list gives O(1) insert and, given the element handle this
// package keeps, O(1) removal — the same complexity the original's
// hand-rolled intrusive list offers, without reimplementing one.
type index struct {
	stripes []*list.List
	handles map[*property.Property]handle
}

type handle struct {
	stripe int
	elem   *list.Element
}

func newIndex(n int) *index {
	stripes := make([]*list.List, n)
	for i := range stripes {
		stripes[i] = list.New()
	}
	return &index{stripes: stripes, handles: make(map[*property.Property]handle)}
}

// insert places p into whichever stripe currently holds the fewest
// properties; ties resolve to the first stripe found, i.e. stripe order.
// Fails with DuplicateSchedule if p is already present in this index.
func (ix *index) insert(p *property.Property) error {
	if _, ok := ix.handles[p]; ok {
		return fault.New(fault.DuplicateSchedule, "property already scheduled in this index", nil)
	}
	best := 0
	for i, s := range ix.stripes {
		if s.Len() < ix.stripes[best].Len() {
			best = i
		}
	}
	elem := ix.stripes[best].PushBack(p)
	ix.handles[p] = handle{stripe: best, elem: elem}
	return nil
}

// remove detaches p from whichever stripe currently holds it. A no-op if
// p is not present.
func (ix *index) remove(p *property.Property) {
	h, ok := ix.handles[p]
	if !ok {
		return
	}
	ix.stripes[h.stripe].Remove(h.elem)
	delete(ix.handles, p)
}

func (ix *index) len() int {
	total := 0
	for _, s := range ix.stripes {
		total += s.Len()
	}
	return total
}
