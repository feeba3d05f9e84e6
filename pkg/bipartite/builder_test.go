package bipartite

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/corral/pkg/graph"
)

func TestBuilderPhases(t *testing.T) {
	p := pattern(t, 3, [2]int{0, 1}, [2]int{1, 2})
	b, err := NewBuilder(p, Config{MaxQubitDegree: 2, MaxCouplerDegree: 2})
	require.NoError(t, err)

	assert.Zero(t, b.Fill(), "fill before satisfy")
	require.Nil(t, b.Satisfy())
	assert.Nil(t, b.Satisfy(), "second satisfy")
	assert.Equal(t, 4, b.Stats().SatisfyEdges)

	before := b.Graph().EdgeCount()
	added := b.Fill()
	assert.Equal(t, 2, added)
	assert.Equal(t, before+added, b.Graph().EdgeCount())

	edges := b.Graph().Edges()
	assert.Zero(t, b.Fill(), "fill is idempotent")
	assert.Equal(t, edges, b.Graph().Edges())

	res, err := b.Finish()
	require.NoError(t, err)
	assert.True(t, res.Feasible())

	_, err = b.Finish()
	assert.ErrorIs(t, err, ErrBuilderFinished)
	assert.NotErrorIs(t, err, ErrInvariant, "misuse is not a construction defect")
}

func TestBuilderBlocked(t *testing.T) {
	p := pattern(t, 4, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})
	b, err := NewBuilder(p, Config{MaxQubitDegree: 2, MaxCouplerDegree: 2})
	require.NoError(t, err)

	blocked := b.Satisfy()
	require.NotNil(t, blocked)
	assert.Equal(t, "q0-q3", blocked.String())
	assert.Zero(t, b.Fill())

	res, err := b.Finish()
	require.NoError(t, err)
	assert.False(t, res.Feasible())
	assert.Equal(t, blocked, res.Blocked)
}

func TestFinishRunsSatisfy(t *testing.T) {
	b, err := NewBuilder(pattern(t, 2, [2]int{0, 1}), Config{MaxQubitDegree: 1, MaxCouplerDegree: 2})
	require.NoError(t, err)
	res, err := b.Finish()
	require.NoError(t, err)
	assert.Equal(t, []string{"c0"}, res.Couplers())
}

func TestNewBuilderCopiesQubitMetadata(t *testing.T) {
	g := graph.New(nil)
	require.NoError(t, g.AddNode(graph.Node{ID: "a", Meta: graph.Metadata{"row": 1}}))
	require.NoError(t, g.AddNode(graph.Node{ID: "b"}))
	require.NoError(t, g.AddEdge("a", "b"))

	b, err := NewBuilder(g, Config{MaxQubitDegree: 1, MaxCouplerDegree: 2})
	require.NoError(t, err)
	n, ok := b.Graph().Node("a")
	require.True(t, ok)
	assert.Equal(t, 1, n.Meta["row"])
	assert.True(t, n.IsQubit())
}

func TestCandidates(t *testing.T) {
	g := graph.New(nil)
	for _, q := range []string{"q0", "q1", "q2"} {
		require.NoError(t, g.AddNode(graph.Node{ID: q}))
	}
	for _, c := range []string{"c0", "c1"} {
		require.NoError(t, g.AddNode(graph.Node{ID: c, Kind: graph.NodeKindCoupler}))
	}
	require.NoError(t, g.AddEdge("q0", "c0"))
	require.NoError(t, g.AddEdge("q1", "c0"))
	require.NoError(t, g.AddEdge("q2", "c1"))

	got := Candidates(g, []string{"q0", "q1", "q2"}, []string{"c0", "c1"}, 2, 2)
	assert.Equal(t, []Candidate{
		{Qubit: "q0", Coupler: "c1"},
		{Qubit: "q1", Coupler: "c1"},
	}, got)

	got = Candidates(g, []string{"q0", "q1", "q2"}, []string{"c0", "c1"}, 2, 3)
	assert.Equal(t, []Candidate{
		{Qubit: "q0", Coupler: "c1"},
		{Qubit: "q1", Coupler: "c1"},
		{Qubit: "q2", Coupler: "c0"},
	}, got)

	// Every qubit is at its cap.
	assert.Empty(t, Candidates(g, []string{"q0", "q1", "q2"}, []string{"c0", "c1"}, 1, 3))
}

func TestInducedPairs(t *testing.T) {
	g := graph.New(nil)
	for _, q := range []string{"q0", "q1", "q2"} {
		require.NoError(t, g.AddNode(graph.Node{ID: q}))
	}
	require.NoError(t, g.AddNode(graph.Node{ID: "c0", Kind: graph.NodeKindCoupler}))
	require.NoError(t, g.AddEdge("q0", "c0"))
	require.NoError(t, g.AddEdge("q1", "c0"))

	assert.Equal(t, []Relationship{{A: "q2", B: "q0"}, {A: "q2", B: "q1"}}, InducedPairs(g, "q2", "c0"))
	assert.Equal(t, []Relationship{{A: "q0", B: "q1"}}, InducedPairs(g, "q0", "c0"))
}

func TestVerify(t *testing.T) {
	p := pattern(t, 3, [2]int{0, 1}, [2]int{1, 2})
	cfg := Config{MaxQubitDegree: 2, MaxCouplerDegree: 2}

	good, err := Realize(p, cfg)
	require.NoError(t, err)
	require.NoError(t, Verify(p, good.Bipartite, cfg))

	tests := []struct {
		name   string
		mutate func(g *graph.Graph)
	}{
		{
			name: "spurious pair",
			mutate: func(g *graph.Graph) {
				_ = g.AddNode(graph.Node{ID: "x", Kind: graph.NodeKindCoupler})
				_ = g.AddEdge("q0", "x")
				_ = g.AddEdge("q2", "x")
			},
		},
		{
			name: "missing pair",
			mutate: func(g *graph.Graph) {
				g.RemoveNode("c1")
			},
		},
		{
			name: "empty coupler",
			mutate: func(g *graph.Graph) {
				_ = g.AddNode(graph.Node{ID: "x", Kind: graph.NodeKindCoupler})
			},
		},
		{
			name: "qubit to qubit edge",
			mutate: func(g *graph.Graph) {
				_ = g.AddEdge("q0", "q2")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := good.Bipartite.Clone()
			tt.mutate(g)
			assert.ErrorIs(t, Verify(p, g, Config{}), ErrInvariant)
		})
	}

	t.Run("degree caps", func(t *testing.T) {
		assert.ErrorIs(t, Verify(p, good.Bipartite, Config{MaxQubitDegree: 1, MaxCouplerDegree: 2}), ErrInvariant)
	})
}

// grid returns a rows x cols lattice pattern.
func grid(t *testing.T, rows, cols int) *graph.Graph {
	t.Helper()
	var edges [][2]int
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if c+1 < cols {
				edges = append(edges, [2]int{i, i + 1})
			}
			if r+1 < rows {
				edges = append(edges, [2]int{i, i + cols})
			}
		}
	}
	return pattern(t, rows*cols, edges...)
}

func TestRealizeProperties(t *testing.T) {
	patterns := map[string]*graph.Graph{
		"grid 3x3": grid(t, 3, 3),
		"grid 2x5": grid(t, 2, 5),
		"complete 4": pattern(t, 4,
			[2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{1, 2}, [2]int{1, 3}, [2]int{2, 3}),
		"path 6": pattern(t, 6, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}),
	}

	for name, p := range patterns {
		for maxA := 1; maxA <= 4; maxA++ {
			for maxB := 2; maxB <= 4; maxB++ {
				for _, skip := range []bool{false, true} {
					cfg := Config{MaxQubitDegree: maxA, MaxCouplerDegree: maxB, SkipFill: skip}
					t.Run(fmt.Sprintf("%s/a%d/b%d/skip=%v", name, maxA, maxB, skip), func(t *testing.T) {
						res, err := Realize(p, cfg)
						require.NoError(t, err)
						if !res.Feasible() {
							require.NotNil(t, res.Blocked)
							return
						}
						assert.NoError(t, Verify(p, res.Bipartite, cfg))
						assert.True(t, graph.Equal(res.QubitProjection, p))
						for _, c := range res.Couplers() {
							d := res.Bipartite.Degree(c)
							assert.True(t, d >= 1 && d <= maxB, "coupler %s degree %d", c, d)
						}
						if !skip {
							for _, q := range graph.IDs(res.Bipartite.NodesOfKind(graph.NodeKindQubit)) {
								assert.Equal(t, maxA, res.Bipartite.Degree(q), "qubit %s not saturated", q)
							}
						}
					})
				}
			}
		}
	}
}
