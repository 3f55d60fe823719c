package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trailnet/internal/entities"
)

func TestGraphRecomputeDegrees(t *testing.T) {
	g := &Graph{
		Vertices: []*entities.Vertex{{ID: 1}, {ID: 2}, {ID: 3}},
		Edges: []*entities.Edge{
			{ID: 1, Source: 1, Target: 2, LengthKM: 0.1},
			{ID: 2, Source: 2, Target: 3, LengthKM: 0.1},
			{ID: 3, Source: 1, Target: 3, LengthKM: 0.0001}, // degenerate, ignored
		},
	}
	g.RecomputeDegrees()

	assert.Equal(t, 1, g.VertexByID(1).Degree)
	assert.Equal(t, 2, g.VertexByID(2).Degree)
	assert.Equal(t, entities.ClassConnector, g.VertexByID(2).Class())
}

func TestGraphIncident(t *testing.T) {
	g := &Graph{
		Edges: []*entities.Edge{
			{ID: 1, Source: 1, Target: 2},
			{ID: 2, Source: 2, Target: 3},
			{ID: 3, Source: 4, Target: 5},
		},
	}
	incident := g.Incident(2)
	assert.Len(t, incident, 2)
}
