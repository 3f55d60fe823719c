package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="trailnet-test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Sample Loop</name>
    <trkseg>
      <trkpt lat="40.0100" lon="-105.2700"><ele>1600</ele></trkpt>
      <trkpt lat="40.0200" lon="-105.2800"><ele>1650</ele></trkpt>
      <trkpt lat="40.0300" lon="-105.2900"><ele>1620</ele></trkpt>
    </trkseg>
  </trk>
</gpx>`

func writeSampleGPX(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.gpx")
	require.NoError(t, os.WriteFile(path, []byte(sampleGPX), 0o644))
	return path
}

func TestLoadTrailFromGPXComputesLengthAndElevation(t *testing.T) {
	path := writeSampleGPX(t)
	trail, err := LoadTrailFromGPX(path, "boulder", "gpx")
	require.NoError(t, err)

	assert.Equal(t, "Sample Loop", trail.Name)
	assert.Equal(t, "boulder", trail.Region)
	assert.Greater(t, trail.LengthKM, 0.0)
	assert.InDelta(t, 50, trail.Elevation.Gain, 1, "elevation should climb from 1600 to 1650")
	assert.InDelta(t, 30, trail.Elevation.Loss, 1, "elevation should drop from 1650 to 1620")
	assert.True(t, trail.Geom3D.Points[0].Has3D)
	assert.False(t, trail.Geom2D.Points[0].Has3D)
}

func TestLoadTrailFromGPXMissingFile(t *testing.T) {
	_, err := LoadTrailFromGPX("/nonexistent/path.gpx", "boulder", "gpx")
	assert.Error(t, err)
}

func TestUUIDFromPathIsDeterministic(t *testing.T) {
	a := uuidFromPath("/a/b/c.gpx")
	b := uuidFromPath("/a/b/c.gpx")
	c := uuidFromPath("/a/b/d.gpx")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
