package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

func openTestExporter(t *testing.T) *SQLiteExporter {
	t.Helper()
	x, err := OpenSQLiteExporter(":memory:")
	require.NoError(t, err)
	require.NoError(t, x.CreateSchema())
	t.Cleanup(func() { x.Close() })
	return x
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	x := openTestExporter(t)
	require.NoError(t, x.CreateSchema(), "re-creating the schema should not error")
}

func TestWriteTrailsThenWriteGraphNoMismatch(t *testing.T) {
	x := openTestExporter(t)

	trail := &entities.Trail{
		UUID: "trail-1", Name: "Lower Loop", LengthKM: 2.5,
		Geom3D: entities.NewLineString([]entities.Point{{Lng: -105.27, Lat: 40.01}, {Lng: -105.28, Lat: 40.02}}),
	}
	require.NoError(t, x.WriteTrails([]*entities.Trail{trail}))

	vertices := []*entities.Vertex{
		{ID: 1, Point: entities.Point{Lng: -105.27, Lat: 40.01}, Degree: 1},
		{ID: 2, Point: entities.Point{Lng: -105.28, Lat: 40.02}, Degree: 1},
	}
	edges := []*entities.Edge{
		{ID: 1, Source: 1, Target: 2, TrailUUID: "trail-1", TrailName: "Lower Loop", LengthKM: 2.5,
			Geom: entities.NewLineString([]entities.Point{{Lng: -105.27, Lat: 40.01}, {Lng: -105.28, Lat: 40.02}})},
	}
	known := map[string]bool{"trail-1": true}

	mismatches, err := x.WriteGraph(vertices, edges, known)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestWriteGraphFlagsMissingTrail(t *testing.T) {
	x := openTestExporter(t)

	edges := []*entities.Edge{
		{ID: 1, Source: 1, Target: 2, TrailUUID: "orphan", LengthKM: 1,
			Geom: entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 1}})},
	}
	vertices := []*entities.Vertex{{ID: 1}, {ID: 2}}

	mismatches, err := x.WriteGraph(vertices, edges, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "orphan", mismatches[0].TrailUUID)
}

func TestWriteRoutesAndRegionMetadata(t *testing.T) {
	x := openTestExporter(t)

	route := &entities.Route{
		UUID: "route-1", Pattern: "classic-loop", Shape: entities.ShapeLoop,
		AchievedDistanceKM: 9.8, AchievedElevationM: 290,
		EdgeIDs: []int{1, 2}, VertexIDs: []int{1, 2, 1},
	}
	require.NoError(t, x.WriteRoutes("boulder", []*entities.Route{route}))
	require.NoError(t, x.WriteRegionMetadata("boulder", 1, 2, 2))
}
