package bipartite

import (
	"slices"
	"sort"
)

// option is one way to join a pair through a coupler: attach the listed
// qubits to it.
type option struct {
	coupler string
	attach  []string
}

// Satisfy joins every required pair through a shared coupler. Pairs are
// visited by the rank of their first qubit, then their second. It returns
// nil on success or the first pair that could not be joined; in the latter
// case the builder is blocked and Fill has no effect.
//
// Calling Satisfy again returns the outcome of the first call.
func (b *Builder) Satisfy() *Relationship {
	if b.phase != phaseNew {
		return b.blocked
	}
	for _, r := range b.worklist() {
		if !b.join(r) {
			b.phase = phaseBlocked
			b.blocked = &r
			b.logger.Debug("pair blocked", "a", r.A, "b", r.B)
			return b.blocked
		}
	}
	b.phase = phaseSatisfied
	b.logger.Debug("pairs satisfied",
		"relationships", b.stats.Relationships,
		"couplers", len(b.couplers))
	return nil
}

// worklist returns the required pairs sorted by (rank(A), rank(B)).
func (b *Builder) worklist() []Relationship {
	out := make([]Relationship, 0, len(b.required))
	for p := range b.required {
		out = append(out, Relationship{A: p.lo, B: p.hi})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := b.rank[out[i].A], b.rank[out[j].A]
		if ri != rj {
			return ri < rj
		}
		return b.rank[out[i].B] < b.rank[out[j].B]
	})
	return out
}

func (b *Builder) connected(u, v string) bool {
	for _, c := range b.g.Neighbors(u) {
		if b.g.HasEdge(c, v) {
			return true
		}
	}
	return false
}

func (b *Builder) hasEmptyCoupler() bool {
	for _, c := range b.couplers {
		if b.g.Degree(c) == 0 {
			return true
		}
	}
	return false
}

// join connects one pair. It reports false when no coupler can take it.
func (b *Builder) join(r Relationship) bool {
	if b.connected(r.A, r.B) {
		b.stats.AlreadySatisfied++
		return true
	}
	if !b.hasEmptyCoupler() {
		b.allocate()
	}

	for _, opt := range b.options(r) {
		if !b.accepts(opt) {
			continue
		}
		for _, q := range opt.attach {
			b.attach(q, opt.coupler)
			b.stats.SatisfyEdges++
		}
		b.logger.Debug("pair joined", "a", r.A, "b", r.B, "coupler", opt.coupler, "attached", opt.attach)
		return true
	}
	return false
}

// options lists the couplers that can complete r, best first: by current
// coupler degree descending, then allocation order.
//
// A single completion attaches one qubit to a coupler that already holds the
// other. A double completion attaches both qubits to a coupler with at least
// two free slots; it is generated once per coupler, keyed on the lower
// ranked qubit.
func (b *Builder) options(r Relationship) []option {
	cands := Candidates(b.g, []string{r.A, r.B}, b.couplers, b.cfg.MaxQubitDegree, b.cfg.MaxCouplerDegree)
	open := make(map[Candidate]struct{}, len(cands))
	for _, c := range cands {
		open[c] = struct{}{}
	}

	var opts []option
	for _, c := range cands {
		other := r.A
		if c.Qubit == r.A {
			other = r.B
		}
		if b.g.HasEdge(other, c.Coupler) {
			opts = append(opts, option{coupler: c.Coupler, attach: []string{c.Qubit}})
			continue
		}
		if _, ok := open[Candidate{Qubit: other, Coupler: c.Coupler}]; !ok {
			continue
		}
		if b.rank[c.Qubit] < b.rank[other] && b.g.Degree(c.Coupler) < b.cfg.MaxCouplerDegree-1 {
			opts = append(opts, option{coupler: c.Coupler, attach: []string{c.Qubit, other}})
		}
	}

	slices.SortStableFunc(opts, func(x, y option) int {
		dx, dy := b.g.Degree(x.coupler), b.g.Degree(y.coupler)
		if dx != dy {
			return dy - dx
		}
		return b.corder[x.coupler] - b.corder[y.coupler]
	})
	return opts
}

// accepts reports whether every attachment of opt passes the
// induced-projection check against the current graph.
func (b *Builder) accepts(opt option) bool {
	for _, q := range opt.attach {
		if !b.inducedValid(q, opt.coupler) {
			return false
		}
	}
	return true
}
