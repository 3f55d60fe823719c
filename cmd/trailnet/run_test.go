package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/config"
	"trailnet/internal/entities"
	"trailnet/internal/pipeline"
)

func TestResolveFormatDefaultsToSqlite(t *testing.T) {
	assert.Equal(t, "sqlite", resolveFormat("", "out.db"))
}

func TestResolveFormatInfersGeoJSONFromExtension(t *testing.T) {
	assert.Equal(t, "geojson", resolveFormat("", "out.geojson"))
	assert.Equal(t, "geojson", resolveFormat("", "out.json"))
}

func TestResolveFormatHonorsExplicitOverride(t *testing.T) {
	assert.Equal(t, "trails-only", resolveFormat("trails-only", "out.db"))
}

func TestResolveBBoxParsesExplicitBBox(t *testing.T) {
	bbox, err := resolveBBox("-105.3,40.0,-105.2,40.1", "")
	require.NoError(t, err)
	require.NotNil(t, bbox)
	assert.Equal(t, -105.3, bbox.West)
	assert.Equal(t, 40.1, bbox.North)
}

func TestResolveBBoxRejectsWrongComponentCount(t *testing.T) {
	_, err := resolveBBox("-105.3,40.0,-105.2", "")
	assert.Error(t, err)
}

func TestResolveBBoxRejectsNonNumericComponent(t *testing.T) {
	_, err := resolveBBox("x,40.0,-105.2,40.1", "")
	assert.Error(t, err)
}

func TestResolveBBoxReturnsNilWhenNeitherGiven(t *testing.T) {
	bbox, err := resolveBBox("", "")
	assert.NoError(t, err)
	assert.Nil(t, bbox)
}

func TestResolveBBoxUsesRegionPreset(t *testing.T) {
	resetGlobals()
	f.region = "boulder"
	cfg.Regions["boulder"] = config.RegionConfig{
		Small: config.BBoxPreset{West: -105.3, South: 40.0, East: -105.2, North: 40.1},
	}

	bbox, err := resolveBBox("", "small")
	require.NoError(t, err)
	require.NotNil(t, bbox)
	assert.Equal(t, -105.3, bbox.West)
}

func TestResolveBBoxRejectsUnknownTestSize(t *testing.T) {
	resetGlobals()
	f.region = "boulder"
	cfg.Regions["boulder"] = config.RegionConfig{}

	_, err := resolveBBox("", "huge")
	assert.Error(t, err)
}

func TestResolveBBoxRejectsUnknownRegion(t *testing.T) {
	resetGlobals()
	f.region = "nowhere"

	_, err := resolveBBox("", "small")
	assert.Error(t, err)
}

func TestTrailheadVertexIDsSnapsToNearestVertex(t *testing.T) {
	graph := &pipeline.Graph{Vertices: []*entities.Vertex{
		{ID: 1, Point: entities.Point{Lng: -105.30, Lat: 40.00}},
		{ID: 2, Point: entities.Point{Lng: -105.20, Lat: 40.10}},
		{ID: 3, Point: entities.Point{Lng: -104.90, Lat: 40.50}},
	}}
	points := []config.TrailheadPoint{
		{Lng: -105.301, Lat: 40.001}, // closest to vertex 1
		{Lng: -105.199, Lat: 40.099}, // closest to vertex 2
	}

	ids := trailheadVertexIDs(graph, points)
	assert.Equal(t, []int{1, 2}, ids)
}

func TestTrailheadVertexIDsDedupesSharedNearestVertex(t *testing.T) {
	graph := &pipeline.Graph{Vertices: []*entities.Vertex{
		{ID: 1, Point: entities.Point{Lng: -105.30, Lat: 40.00}},
		{ID: 2, Point: entities.Point{Lng: -104.90, Lat: 40.50}},
	}}
	points := []config.TrailheadPoint{
		{Lng: -105.301, Lat: 40.001},
		{Lng: -105.299, Lat: 39.999},
	}

	ids := trailheadVertexIDs(graph, points)
	assert.Equal(t, []int{1}, ids)
}

func TestTrailheadVertexIDsDiffersFromUnrestrictedStarts(t *testing.T) {
	graph := &pipeline.Graph{Vertices: []*entities.Vertex{
		{ID: 1, Point: entities.Point{Lng: -105.30, Lat: 40.00}},
		{ID: 2, Point: entities.Point{Lng: -104.90, Lat: 40.50}},
	}}
	points := []config.TrailheadPoint{{Lng: -104.901, Lat: 40.501}}

	restricted := trailheadVertexIDs(graph, points)
	unrestricted := sortedGraphVertexIDs(graph)
	assert.Equal(t, []int{2}, restricted)
	assert.NotEqual(t, unrestricted, restricted)
}
