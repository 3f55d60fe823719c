package routesearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

func TestKShortestPathsOrdersByLength(t *testing.T) {
	g := diamondGraph()
	paths := KShortestPaths(g, 1, 4, 2)

	require.Len(t, paths, 2)
	assert.Equal(t, 2.0, paths[0].LengthKM)
	assert.Equal(t, 6.0, paths[1].LengthKM)
}

func TestKShortestPathsCapsAtAvailablePaths(t *testing.T) {
	g := diamondGraph()
	paths := KShortestPaths(g, 1, 4, 10)
	assert.Len(t, paths, 2, "expected only 2 distinct simple paths to exist")
}

func TestKShortestPathsNoPath(t *testing.T) {
	g := Build([]*entities.Vertex{{ID: 1}, {ID: 2}}, nil)
	assert.Nil(t, KShortestPaths(g, 1, 2, 3))
}
