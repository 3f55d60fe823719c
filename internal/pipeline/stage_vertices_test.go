package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

func TestBuildVerticesBindsEdgeEndpoints(t *testing.T) {
	pc := testContextWithEngine(&fakeEngine{simple: true})
	pc.Cfg.Tolerance.EdgeSnapToleranceM = 5

	edges := []*entities.Edge{
		{ID: 1, LengthKM: 1, Geom: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 0.01}})},
	}

	g, stats, err := BuildVertices(context.Background(), pc, edges, nil)
	require.NoError(t, err)
	require.Len(t, g.Vertices, 2)
	require.Len(t, g.Edges, 1)
	assert.NotEqual(t, g.Edges[0].Source, g.Edges[0].Target)
	assert.Equal(t, 1, stats.OutputCount)
}

func TestBuildVerticesRejectsZeroLengthEdge(t *testing.T) {
	pc := testContextWithEngine(&fakeEngine{simple: true})
	pc.Cfg.Tolerance.EdgeSnapToleranceM = 5

	edges := []*entities.Edge{
		{ID: 1, LengthKM: 0, Geom: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 0.01}})},
	}

	g, stats, err := BuildVertices(context.Background(), pc, edges, nil)
	require.NoError(t, err)
	assert.Empty(t, g.Edges)
	assert.Equal(t, 1, stats.Rejected)
}

func TestBuildVerticesPreservesIsolatedTrailTermini(t *testing.T) {
	pc := testContextWithEngine(&fakeEngine{simple: true})
	pc.Cfg.Tolerance.EdgeSnapToleranceM = 5

	trail := validTrail("a")
	g, _, err := BuildVertices(context.Background(), pc, nil, []*entities.Trail{trail})
	require.NoError(t, err)
	require.Len(t, g.Vertices, 2)
	assert.True(t, g.Vertices[0].IsTrailTerm)
	assert.True(t, g.Vertices[1].IsTrailTerm)
}
