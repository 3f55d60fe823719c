package routesearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

// diamondGraph builds 1-2-4 and 1-3-4 paths, with the 1-2-4 path shorter.
func diamondGraph() *Graph {
	vertices := []*entities.Vertex{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	edges := []*entities.Edge{
		{ID: 1, Source: 1, Target: 2, LengthKM: 1},
		{ID: 2, Source: 2, Target: 4, LengthKM: 1},
		{ID: 3, Source: 1, Target: 3, LengthKM: 3},
		{ID: 4, Source: 3, Target: 4, LengthKM: 3},
	}
	return Build(vertices, edges)
}

func TestShortestPathPicksCheaperRoute(t *testing.T) {
	g := diamondGraph()
	path, ok := shortestPath(g, 1, 4, nil, nil)
	require.True(t, ok, "expected a path between 1 and 4")
	assert.Equal(t, 2.0, path.LengthKM)
	assert.Equal(t, []int{1, 2}, path.EdgeIDs)
}

func TestShortestPathRespectsExclusions(t *testing.T) {
	g := diamondGraph()
	path, ok := shortestPath(g, 1, 4, map[int]bool{1: true}, nil)
	require.True(t, ok, "expected a path that avoids edge 1 via the longer route")
	assert.Equal(t, 6.0, path.LengthKM)
}

func TestShortestPathUnreachable(t *testing.T) {
	g := Build(
		[]*entities.Vertex{{ID: 1}, {ID: 2}},
		[]*entities.Edge{},
	)
	_, ok := shortestPath(g, 1, 2, nil, nil)
	assert.False(t, ok, "expected no path between disconnected vertices")
}
