package routesearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

func triangleGraph() *Graph {
	vertices := []*entities.Vertex{{ID: 1}, {ID: 2}, {ID: 3}}
	edges := []*entities.Edge{
		{ID: 1, Source: 1, Target: 2, LengthKM: 1},
		{ID: 2, Source: 2, Target: 3, LengthKM: 1},
		{ID: 3, Source: 3, Target: 1, LengthKM: 1},
	}
	return Build(vertices, edges)
}

func TestSimpleCircuitsFindsTriangle(t *testing.T) {
	g := triangleGraph()
	circuits := SimpleCircuits(g, 1, 10)
	require.NotEmpty(t, circuits, "expected at least one circuit through vertex 1")
	for _, c := range circuits {
		assert.Equal(t, 1, c.VertexIDs[0])
		assert.Equal(t, 1, c.VertexIDs[len(c.VertexIDs)-1])
	}
}

func TestSimpleCircuitsRespectsLengthCap(t *testing.T) {
	g := triangleGraph()
	circuits := SimpleCircuits(g, 1, 2) // triangle perimeter is 3, cap below that
	assert.Empty(t, circuits, "expected no circuits under a length cap smaller than the triangle's perimeter")
}

func TestAllSimpleCircuitsCoversEveryStartVertex(t *testing.T) {
	g := triangleGraph()
	all := AllSimpleCircuits(g, 10)
	assert.NotEmpty(t, all, "expected at least one circuit across all start vertices")
}
