package bipartite

import (
	"container/heap"
	"sort"
)

// slot is a node with spare capacity.
type slot struct {
	id    string
	spare int
	order int
}

func slotLess(a, b slot) bool {
	if a.spare != b.spare {
		return a.spare < b.spare
	}
	return a.order < b.order
}

// slotHeap is a min-heap of slots by (spare, order).
type slotHeap []slot

func (h slotHeap) Len() int           { return len(h) }
func (h slotHeap) Less(i, j int) bool { return slotLess(h[i], h[j]) }
func (h slotHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *slotHeap) Push(x any)        { *h = append(*h, x.(slot)) }
func (h *slotHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	*h = old[:n-1]
	return s
}

// Fill spends leftover qubit capacity. Qubits are served tightest first
// (fewest spare slots, then rank). Each is attached to the first open
// coupler, scanned by spare slots then allocation order, that passes the
// induced-projection check; when none does, a new coupler is allocated.
// Qubits and couplers with capacity left are re-queued.
//
// Fill returns the number of attachments made. It is a no-op unless
// Satisfy succeeded, and a second call adds nothing.
func (b *Builder) Fill() int {
	if b.phase != phaseSatisfied {
		return 0
	}
	maxA, maxB := b.cfg.MaxQubitDegree, b.cfg.MaxCouplerDegree

	queue := &slotHeap{}
	for i, q := range b.qubits {
		if spare := maxA - b.g.Degree(q); spare > 0 {
			*queue = append(*queue, slot{id: q, spare: spare, order: i})
		}
	}
	heap.Init(queue)

	var pool []slot
	for _, c := range b.couplers {
		if spare := maxB - b.g.Degree(c); spare > 0 {
			pool = append(pool, slot{id: c, spare: spare, order: b.corder[c]})
		}
	}
	sort.SliceStable(pool, func(i, j int) bool { return slotLess(pool[i], pool[j]) })

	added := 0
	for queue.Len() > 0 {
		q := heap.Pop(queue).(slot)

		idx := -1
		for i, c := range pool {
			if !b.g.HasEdge(q.id, c.id) && b.inducedValid(q.id, c.id) {
				idx = i
				break
			}
		}
		var c slot
		if idx >= 0 {
			c = pool[idx]
			pool = append(pool[:idx], pool[idx+1:]...)
		} else {
			id := b.allocate()
			c = slot{id: id, spare: maxB, order: b.corder[id]}
		}

		b.attach(q.id, c.id)
		added++
		b.stats.FillEdges++

		if c.spare--; c.spare > 0 {
			pool = insertSlot(pool, c)
		}
		if q.spare--; q.spare > 0 {
			heap.Push(queue, q)
		}
	}
	if added > 0 {
		b.logger.Debug("capacity filled", "attachments", added, "couplers", len(b.couplers))
	}
	return added
}

// insertSlot inserts s into pool, keeping it ordered by (spare, order).
func insertSlot(pool []slot, s slot) []slot {
	i := sort.Search(len(pool), func(i int) bool { return slotLess(s, pool[i]) })
	pool = append(pool, slot{})
	copy(pool[i+1:], pool[i:])
	pool[i] = s
	return pool
}
