package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleWKTLineString(t *testing.T) {
	g, err := parseSimpleWKT("LINESTRING(-105.27 40.01,-105.28 40.02)")
	require.NoError(t, err)
	require.Len(t, g.Points, 2)
	assert.Equal(t, -105.27, g.Points[0].Lng)
	assert.Equal(t, 40.02, g.Points[1].Lat)
	assert.False(t, g.Points[0].Has3D)
}

func TestParseSimpleWKTPointZ(t *testing.T) {
	g, err := parseSimpleWKT("POINT Z(-105.27 40.01 1600)")
	require.NoError(t, err)
	require.Len(t, g.Points, 1)
	assert.True(t, g.Points[0].Has3D)
	assert.Equal(t, 1600.0, g.Points[0].Elevation)
}

func TestParseSimpleWKTRejectsUnparseable(t *testing.T) {
	_, err := parseSimpleWKT("not-wkt")
	assert.Error(t, err)
}
