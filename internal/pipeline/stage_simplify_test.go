package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

func TestDedupeByVertexPairKeepsShortest(t *testing.T) {
	g := &Graph{
		Edges: []*entities.Edge{
			{ID: 1, Source: 1, Target: 2, LengthKM: 2},
			{ID: 2, Source: 1, Target: 2, LengthKM: 1},
			{ID: 3, Source: 2, Target: 3, LengthKM: 1},
		},
	}
	dedupeByVertexPair(g)
	require.Len(t, g.Edges, 2)
	for _, e := range g.Edges {
		if e.Source == 1 && e.Target == 2 {
			assert.Equal(t, 1.0, e.LengthKM)
		}
	}
}

func TestSimplifyDeduplicatesAndSweeps(t *testing.T) {
	pc := testContextWithEngine(&fakeEngine{simple: true})
	pc.Cfg.Tolerance.MinPointsForSimplify = 100
	pc.Cfg.Tolerance.ShortConnectorMaxLengthM = 2

	g := &Graph{
		Vertices: []*entities.Vertex{{ID: 1}, {ID: 2}},
		Edges: []*entities.Edge{
			{ID: 1, Source: 1, Target: 2, LengthKM: 2,
				Geom: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 0.01}})},
			{ID: 2, Source: 1, Target: 2, LengthKM: 1,
				Geom: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 0.01}})},
		},
	}

	stats, err := Simplify(context.Background(), pc, g)
	require.NoError(t, err)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, 1.0, g.Edges[0].LengthKM)
	assert.Equal(t, 2, stats.InputCount)
}
