package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeometryWKTLineString(t *testing.T) {
	g := NewLineString([]Point{{Lng: -105.27, Lat: 40.01}, {Lng: -105.28, Lat: 40.02}})
	assert.Equal(t, "LINESTRING(-105.27 40.01,-105.28 40.02)", g.WKT())
}

func TestGeometryWKTPointZ(t *testing.T) {
	g := NewLineString([]Point{{Lng: -105.27, Lat: 40.01, Elevation: 1600, Has3D: true}})
	assert.Equal(t, "POINT Z(-105.27 40.01 1600)", g.WKT())
}

func TestGeometryTo2D(t *testing.T) {
	g := NewLineString([]Point{{Lng: 1, Lat: 2, Elevation: 100, Has3D: true}})
	flat := g.To2D()
	assert.False(t, flat.Points[0].Has3D, "To2D should clear Has3D")
	assert.Zero(t, flat.Points[0].Elevation, "To2D should drop elevation")
	assert.True(t, flat.Is2D(), "Is2D() should be true after To2D")
}

func TestGeometryValid(t *testing.T) {
	assert.False(t, (Geometry{}).Valid(), "empty geometry should be invalid")
	assert.True(t, NewLineString([]Point{{Lng: 1, Lat: 1}}).Valid(), "single-point geometry should be valid")
}
