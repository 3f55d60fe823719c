package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultProducesSaneTolerances(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Tolerance.MinTrailLengthM > 0 && cfg.Tolerance.MinTrailLengthM <= 10,
		"default minTrailLength must satisfy the CLI gate, got %f", cfg.Tolerance.MinTrailLengthM)
	assert.True(t, cfg.Tolerance.MinTrailLengthSet)
	assert.Greater(t, cfg.Tolerance.IntersectionToleranceM, 0.0)
}

func TestDefaultCostWeightsSumToOne(t *testing.T) {
	w := Default().Cost.PriorityWeights
	sum := w.Elevation + w.Distance + w.Shape
	assert.InDelta(t, 1.0, sum, 0.001)
}

func TestDumpRoundTrips(t *testing.T) {
	cfg := Default()
	data, err := cfg.Dump()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, cfg.Tolerance.EdgeSnapToleranceM, back.Tolerance.EdgeSnapToleranceM)
	assert.Equal(t, cfg.Cost.PriorityWeights, back.Cost.PriorityWeights)
}
