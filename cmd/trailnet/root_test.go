package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trailnet/internal/config"
)

func resetGlobals() {
	f = flags{}
	cfg = config.Default()
}

func TestApplyFlagOverridesLeavesZeroTolerancesUntouched(t *testing.T) {
	resetGlobals()
	cfg.Tolerance.SimplificationToleranceDg = 0.5
	cfg.Tolerance.IntersectionToleranceM = 20

	applyFlagOverrides()

	assert.Equal(t, 0.5, cfg.Tolerance.SimplificationToleranceDg)
	assert.Equal(t, 20.0, cfg.Tolerance.IntersectionToleranceM)
}

func TestApplyFlagOverridesAppliesPositiveTolerances(t *testing.T) {
	resetGlobals()
	f.simplifyTolerance = 0.2
	f.intersectionTol = 15

	applyFlagOverrides()

	assert.Equal(t, 0.2, cfg.Tolerance.SimplificationToleranceDg)
	assert.Equal(t, 15.0, cfg.Tolerance.IntersectionToleranceM)
}

func TestApplyFlagOverridesAppliesMaxStagingSchemas(t *testing.T) {
	resetGlobals()
	f.maxStagingSchemas = 7

	applyFlagOverrides()

	assert.Equal(t, 7, cfg.Workspace.MaxStagingSchemas)
}

func TestApplyFlagOverridesPropagatesNoCleanup(t *testing.T) {
	resetGlobals()
	cfg.Workspace.NoCleanup = false
	f.noCleanup = true

	applyFlagOverrides()

	assert.True(t, cfg.Workspace.NoCleanup)
}

func TestApplyFlagOverridesEnablesTrailheadsOnly(t *testing.T) {
	resetGlobals()
	cfg.Trailhead.Enabled = false
	f.useTrailheadsOnly = true

	applyFlagOverrides()

	assert.True(t, cfg.Trailhead.Enabled)
}

func TestApplyFlagOverridesDisableWinsOverEnable(t *testing.T) {
	resetGlobals()
	f.useTrailheadsOnly = true
	f.noTrailheads = true

	applyFlagOverrides()

	assert.False(t, cfg.Trailhead.Enabled)
}

func TestApplyFlagOverridesDisableTrailheadsOnlyFlag(t *testing.T) {
	resetGlobals()
	cfg.Trailhead.Enabled = true
	f.disableTrailheadsOnly = true

	applyFlagOverrides()

	assert.False(t, cfg.Trailhead.Enabled)
}
