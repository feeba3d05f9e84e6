package bipartite

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/corral/pkg/graph"
)

func pattern(t *testing.T, n int, edges ...[2]int) *graph.Graph {
	t.Helper()
	g := graph.New(nil)
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddNode(graph.Node{ID: fmt.Sprintf("q%d", i)}))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(fmt.Sprintf("q%d", e[0]), fmt.Sprintf("q%d", e[1])))
	}
	return g
}

func attached(g *graph.Graph, c string) []string {
	return append([]string(nil), g.Neighbors(c)...)
}

func bridging(res *Result) int {
	n := 0
	for _, c := range res.Couplers() {
		if res.Bipartite.Degree(c) >= 2 {
			n++
		}
	}
	return n
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{MaxQubitDegree: 1, MaxCouplerDegree: 2}, false},
		{"coupler cap too small", Config{MaxQubitDegree: 4, MaxCouplerDegree: 1}, true},
		{"zero qubit cap", Config{MaxQubitDegree: 0, MaxCouplerDegree: 2}, true},
		{"negative", Config{MaxQubitDegree: -1, MaxCouplerDegree: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRealizeRejectsInvalidInput(t *testing.T) {
	_, err := Realize(pattern(t, 2, [2]int{0, 1}), Config{MaxQubitDegree: 2, MaxCouplerDegree: 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Realize(nil, Config{MaxQubitDegree: 2, MaxCouplerDegree: 2})
	assert.ErrorIs(t, err, ErrInvalidPattern)

	g := pattern(t, 1)
	require.NoError(t, g.AddNode(graph.Node{ID: "c0", Kind: graph.NodeKindCoupler}))
	_, err = Realize(g, Config{MaxQubitDegree: 2, MaxCouplerDegree: 2})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

// A three-qubit path under caps (2, 2) needs exactly two couplers. Filling
// keeps those two bridging couplers and hangs one extra coupler on each end
// qubit, so the total is only checked with SkipFill.
func TestRealizePath(t *testing.T) {
	p := pattern(t, 3, [2]int{0, 1}, [2]int{1, 2})

	t.Run("skip fill", func(t *testing.T) {
		res, err := Realize(p, Config{MaxQubitDegree: 2, MaxCouplerDegree: 2, SkipFill: true})
		require.NoError(t, err)
		require.True(t, res.Feasible())

		assert.Equal(t, []string{"c0", "c1"}, res.Couplers())
		assert.ElementsMatch(t, []string{"q0", "q1"}, attached(res.Bipartite, "c0"))
		assert.ElementsMatch(t, []string{"q1", "q2"}, attached(res.Bipartite, "c1"))
		assert.Equal(t, 1, res.CouplerProjection.EdgeCount())
		assert.True(t, res.CouplerProjection.HasEdge("c0", "c1"))
	})

	t.Run("filled", func(t *testing.T) {
		res, err := Realize(p, Config{MaxQubitDegree: 2, MaxCouplerDegree: 2})
		require.NoError(t, err)
		require.True(t, res.Feasible())

		assert.Equal(t, 2, bridging(res))
		assert.Equal(t, []string{"c0", "c1", "c2", "c3"}, res.Couplers())
		assert.Equal(t, []string{"q0"}, attached(res.Bipartite, "c2"))
		assert.Equal(t, []string{"q2"}, attached(res.Bipartite, "c3"))
		assert.Equal(t, 2, res.Stats.HangingCouplers)
		for _, q := range []string{"q0", "q1", "q2"} {
			assert.Equal(t, 2, res.Bipartite.Degree(q), q)
		}
		assert.True(t, graph.Equal(res.QubitProjection, p))
	})
}

// A four-ring under caps (2, 2) saturates every qubit during satisfaction,
// so the filler adds nothing and both projections are the ring.
func TestRealizeRing(t *testing.T) {
	p := pattern(t, 4, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 0})

	res, err := Realize(p, Config{MaxQubitDegree: 2, MaxCouplerDegree: 2})
	require.NoError(t, err)
	require.True(t, res.Feasible())

	assert.Equal(t, []string{"c0", "c1", "c2", "c3"}, res.Couplers())
	assert.ElementsMatch(t, []string{"q0", "q1"}, attached(res.Bipartite, "c0"))
	assert.ElementsMatch(t, []string{"q0", "q3"}, attached(res.Bipartite, "c1"))
	assert.ElementsMatch(t, []string{"q1", "q2"}, attached(res.Bipartite, "c2"))
	assert.ElementsMatch(t, []string{"q2", "q3"}, attached(res.Bipartite, "c3"))
	assert.Zero(t, res.Stats.FillEdges)
	assert.True(t, graph.Isomorphic(res.QubitProjection, p))
	assert.True(t, graph.Isomorphic(res.CouplerProjection, p))
}

// A hub with three leaves under caps (2, 2) runs out of hub capacity on the
// third pair and reports it as the blocker.
func TestRealizeStarInfeasible(t *testing.T) {
	p := pattern(t, 4, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})

	res, err := Realize(p, Config{MaxQubitDegree: 2, MaxCouplerDegree: 2})
	require.NoError(t, err)
	assert.False(t, res.Feasible())
	assert.Nil(t, res.Bipartite)
	assert.Nil(t, res.QubitProjection)
	assert.Nil(t, res.CouplerProjection)
	require.NotNil(t, res.Blocked)
	assert.Equal(t, Relationship{A: "q0", B: "q3"}, *res.Blocked)
	assert.ErrorIs(t, res.Err(), ErrInfeasible)
}

// A hub with four leaves under caps (4, 2) needs four two-qubit couplers,
// whose projection is K4. With filling on those four stay the bridging
// couplers and each leaf gets three hanging ones.
func TestRealizeStarFeasible(t *testing.T) {
	p := pattern(t, 5, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{0, 4})

	t.Run("skip fill", func(t *testing.T) {
		res, err := Realize(p, Config{MaxQubitDegree: 4, MaxCouplerDegree: 2, SkipFill: true})
		require.NoError(t, err)
		require.True(t, res.Feasible())
		assert.Len(t, res.Couplers(), 4)
		assert.Equal(t, 4, res.Bipartite.Degree("q0"))
		assert.Equal(t, 6, res.CouplerProjection.EdgeCount())
	})

	t.Run("filled", func(t *testing.T) {
		res, err := Realize(p, Config{MaxQubitDegree: 4, MaxCouplerDegree: 2})
		require.NoError(t, err)
		require.True(t, res.Feasible())
		assert.Equal(t, 4, bridging(res))
		assert.Len(t, res.Couplers(), 16)
		assert.Equal(t, 12, res.Stats.HangingCouplers)
		assert.True(t, graph.Equal(res.QubitProjection, p))
	})
}

func TestRealizeTriangleSharesCoupler(t *testing.T) {
	p := pattern(t, 3, [2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2})

	res, err := Realize(p, Config{MaxQubitDegree: 1, MaxCouplerDegree: 3})
	require.NoError(t, err)
	require.True(t, res.Feasible())

	assert.Equal(t, []string{"c0"}, res.Couplers())
	assert.ElementsMatch(t, []string{"q0", "q1", "q2"}, attached(res.Bipartite, "c0"))
	assert.Equal(t, 1, res.Stats.AlreadySatisfied)
	assert.Equal(t, 1, res.Stats.CouplersPruned)
}

func TestRealizeEmptyPattern(t *testing.T) {
	res, err := Realize(graph.New(nil), Config{MaxQubitDegree: 2, MaxCouplerDegree: 2})
	require.NoError(t, err)
	require.True(t, res.Feasible())
	assert.Zero(t, res.Bipartite.NodeCount())
}

func TestRealizeIsolatedQubit(t *testing.T) {
	p := pattern(t, 3, [2]int{0, 1})

	res, err := Realize(p, Config{MaxQubitDegree: 1, MaxCouplerDegree: 2})
	require.NoError(t, err)
	require.True(t, res.Feasible())
	assert.Equal(t, 1, res.Bipartite.Degree("q2"))
	assert.Zero(t, res.QubitProjection.Degree("q2"))

	res, err = Realize(p, Config{MaxQubitDegree: 1, MaxCouplerDegree: 2, SkipFill: true})
	require.NoError(t, err)
	assert.Zero(t, res.Bipartite.Degree("q2"))
}

func TestCouplerIDsSkipQubitNames(t *testing.T) {
	g := graph.New(nil)
	require.NoError(t, g.AddNode(graph.Node{ID: "c0"}))
	require.NoError(t, g.AddNode(graph.Node{ID: "c1"}))
	require.NoError(t, g.AddEdge("c0", "c1"))

	res, err := Realize(g, Config{MaxQubitDegree: 1, MaxCouplerDegree: 2})
	require.NoError(t, err)
	require.True(t, res.Feasible())
	assert.Equal(t, []string{"c2"}, res.Couplers())
}

func TestCouplerPrefix(t *testing.T) {
	res, err := Realize(pattern(t, 2, [2]int{0, 1}), Config{MaxQubitDegree: 1, MaxCouplerDegree: 2, CouplerPrefix: "tc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tc0"}, res.Couplers())
}

func TestRealizeDeterministic(t *testing.T) {
	p := pattern(t, 6,
		[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}, [2]int{5, 0},
		[2]int{0, 3},
	)
	cfg := Config{MaxQubitDegree: 3, MaxCouplerDegree: 3}

	first, err := Realize(p, cfg)
	require.NoError(t, err)
	require.True(t, first.Feasible())
	for i := 0; i < 5; i++ {
		again, err := Realize(p, cfg)
		require.NoError(t, err)
		assert.Equal(t, first.Bipartite.Edges(), again.Bipartite.Edges())
	}
}
