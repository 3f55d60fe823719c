package workspace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWorkspaceNameUsesDefaultPrefix(t *testing.T) {
	name := NewWorkspaceName("")
	assert.True(t, strings.HasPrefix(name, "trailnet_run_"))
}

func TestNewWorkspaceNameUsesGivenPrefix(t *testing.T) {
	name := NewWorkspaceName("boulder_staging")
	assert.True(t, strings.HasPrefix(name, "boulder_staging_"))
}

func TestNewWorkspaceNameIsCollisionResistant(t *testing.T) {
	a := NewWorkspaceName("run")
	b := NewWorkspaceName("run")
	assert.NotEqual(t, a, b)
}
