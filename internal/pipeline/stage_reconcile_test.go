package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

func TestKnnVertexMergeUnifiesCloseVertices(t *testing.T) {
	g := &Graph{
		Vertices: []*entities.Vertex{
			{ID: 1, Point: entities.Point{Lng: 0, Lat: 0}},
			{ID: 2, Point: entities.Point{Lng: 0, Lat: 0.00000005}}, // a few mm away
			{ID: 3, Point: entities.Point{Lng: 0, Lat: 0.01}},
		},
		Edges: []*entities.Edge{
			{ID: 1, Source: 1, Target: 3, LengthKM: 1,
				Geom: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 0.01}})},
			{ID: 2, Source: 2, Target: 3, LengthKM: 1,
				Geom: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0.00000005}, {Lng: 0, Lat: 0.01}})},
		},
	}

	knnVertexMerge(g, 5)
	require.Len(t, g.Vertices, 2, "vertices 1 and 2 should have merged into the lower-id representative")
	for _, e := range g.Edges {
		assert.Equal(t, 1, e.Source)
	}
}

func TestSweepDegenerateRemovesZeroDegreeNonTerminusVertices(t *testing.T) {
	g := &Graph{
		Vertices: []*entities.Vertex{
			{ID: 1, IsTrailTerm: false},
			{ID: 2, IsTrailTerm: true},
		},
		Edges: nil,
	}
	sweepDegenerate(g)
	require.Len(t, g.Vertices, 1)
	assert.Equal(t, 2, g.Vertices[0].ID)
}

func TestCollapseShortConnectorsDropsBelowThreshold(t *testing.T) {
	g := &Graph{
		Edges: []*entities.Edge{
			{ID: 1, IsConnector: true, LengthKM: 0.001},  // 1m, below a 5m threshold
			{ID: 2, IsConnector: true, LengthKM: 0.01},   // 10m, kept
			{ID: 3, IsConnector: false, LengthKM: 0.0001}, // not a connector, kept regardless
		},
	}
	collapseShortConnectors(g, 5)
	require.Len(t, g.Edges, 2)
}

func TestReconcileRunsFullSubsystem(t *testing.T) {
	pc := testContextWithEngine(&fakeEngine{simple: true})
	pc.Cfg.Tolerance.BridgingEnabled = true
	pc.Cfg.Tolerance.TrailBridgingToleranceM = 15
	pc.Cfg.Tolerance.EdgeSnapToleranceM = 5
	pc.Cfg.Tolerance.ShortConnectorMaxLengthM = 2

	g := &Graph{
		Vertices: []*entities.Vertex{{ID: 1}, {ID: 2}},
		Edges: []*entities.Edge{
			{ID: 1, Source: 1, Target: 2, LengthKM: 1,
				Geom: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 0.01}})},
		},
	}

	_, err := Reconcile(context.Background(), pc, g)
	require.NoError(t, err)
}
