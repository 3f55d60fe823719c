package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

func TestVerifyCoverageNoGapWhenFullyCovered(t *testing.T) {
	engine := &fakeEngine{
		differenceFn: func(a entities.Geometry, b []entities.Geometry) entities.Geometry {
			return entities.Geometry{}
		},
	}
	pc := testContextWithEngine(engine)
	pc.Cfg.Tolerance.EdgeSnapToleranceM = 5

	trail := validTrail("a")
	g := &Graph{}
	_, gaps, err := VerifyCoverage(context.Background(), pc, []*entities.Trail{trail}, g)
	require.NoError(t, err)
	assert.Empty(t, gaps)
}

func TestVerifyCoverageWarnsOnUncoveredTrail(t *testing.T) {
	uncovered := entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 0.01}}) // ~1.1km
	engine := &fakeEngine{
		differenceFn: func(a entities.Geometry, b []entities.Geometry) entities.Geometry {
			return uncovered
		},
	}
	pc := testContextWithEngine(engine)
	pc.Cfg.Tolerance.EdgeSnapToleranceM = 5
	pc.Cfg.Tolerance.CoverageStrict = false

	trail := validTrail("a")
	g := &Graph{}
	_, gaps, err := VerifyCoverage(context.Background(), pc, []*entities.Trail{trail}, g)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, "a", gaps[0].TrailUUID)
}

func TestVerifyCoverageFailsFastInStrictMode(t *testing.T) {
	uncovered := entities.NewLineString([]entities.Point{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 0.01}})
	engine := &fakeEngine{
		differenceFn: func(a entities.Geometry, b []entities.Geometry) entities.Geometry {
			return uncovered
		},
	}
	pc := testContextWithEngine(engine)
	pc.Cfg.Tolerance.EdgeSnapToleranceM = 5
	pc.Cfg.Tolerance.CoverageStrict = true

	trail := validTrail("a")
	g := &Graph{}
	_, _, err := VerifyCoverage(context.Background(), pc, []*entities.Trail{trail}, g)
	require.Error(t, err)
	assert.IsType(t, &entities.GeometryInvariantViolation{}, err)
}
