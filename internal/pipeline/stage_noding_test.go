package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/entities"
)

func TestNodeProducesOneEdgePerSimpleTrail(t *testing.T) {
	engine := &fakeEngine{simple: true}
	pc := testContextWithEngine(engine)

	trail := validTrail("a")
	edges, stats, err := Node(context.Background(), pc, []*entities.Trail{trail})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "a", edges[0].TrailUUID)
	assert.Equal(t, 1, stats.OutputCount)
}

func TestNodeRejectsNonSimpleSegments(t *testing.T) {
	engine := &fakeEngine{simple: false}
	pc := testContextWithEngine(engine)

	_, _, err := Node(context.Background(), pc, []*entities.Trail{validTrail("a")})
	require.Error(t, err, "every segment should fail the simplicity check and leave zero edges")
}
