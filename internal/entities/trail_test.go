package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrailValid(t *testing.T) {
	valid := &Trail{
		LengthKM: 1.2,
		Geom2D: NewLineString([]Point{
			{Lng: -105.27, Lat: 40.01},
			{Lng: -105.28, Lat: 40.02},
		}),
	}
	assert.True(t, valid.Valid(), "trail with two points and positive length should be valid")

	singlePoint := &Trail{
		LengthKM: 1.2,
		Geom2D:   NewLineString([]Point{{Lng: -105.27, Lat: 40.01}}),
	}
	assert.False(t, singlePoint.Valid(), "single-point trail should be invalid")

	zeroLength := &Trail{
		LengthKM: 0,
		Geom2D: NewLineString([]Point{
			{Lng: -105.27, Lat: 40.01},
			{Lng: -105.28, Lat: 40.02},
		}),
	}
	assert.False(t, zeroLength.Valid(), "zero-length trail should be invalid")
}

func TestBoundingBoxIntersects(t *testing.T) {
	a := BoundingBox{West: -105.3, South: 40.0, East: -105.2, North: 40.1}
	b := BoundingBox{West: -105.25, South: 40.05, East: -105.15, North: 40.15}
	c := BoundingBox{West: -104.0, South: 39.0, East: -103.9, North: 39.1}

	assert.True(t, a.Intersects(b), "overlapping boxes should intersect")
	assert.False(t, a.Intersects(c), "disjoint boxes should not intersect")
}
