package interfaces

import (
	"context"

	"trailnet/internal/entities"
)

// TrailRepository defines data access for the trail table of a workspace.
type TrailRepository interface {
	Insert(ctx context.Context, t *entities.Trail) error
	All(ctx context.Context) ([]*entities.Trail, error)
	Count(ctx context.Context) (int, error)
}

// EdgeRepository defines data access for the edge table of a workspace.
type EdgeRepository interface {
	Insert(ctx context.Context, e *entities.Edge) (int, error)
	Update(ctx context.Context, e *entities.Edge) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*entities.Edge, error)
	IncidentTo(ctx context.Context, vertexID int) ([]*entities.Edge, error)
}

// VertexRepository defines data access for the vertex table of a workspace.
type VertexRepository interface {
	Insert(ctx context.Context, v *entities.Vertex) (int, error)
	Update(ctx context.Context, v *entities.Vertex) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*entities.Vertex, error)
	RecomputeDegrees(ctx context.Context) error
}

// RouteRepository defines data access for the routes table of a workspace.
type RouteRepository interface {
	Insert(ctx context.Context, r *entities.Route) error
	ByPattern(ctx context.Context, pattern string) ([]*entities.Route, error)
	All(ctx context.Context) ([]*entities.Route, error)
}
