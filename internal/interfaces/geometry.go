package interfaces

import (
	"context"

	"trailnet/internal/entities"
)

// Engine is the capability set a planar geometry provider must expose.
// Every stage of the network-construction pipeline is written against
// this interface rather than against a concrete database, so an
// implementation may substitute any in-process or external geometry
// library that can satisfy the same operations.
type Engine interface {
	// Distance returns the geodesic distance between two points, in meters.
	Distance(ctx context.Context, a, b entities.Point) (float64, error)

	// LengthGeodesic returns the geodesic length of a linestring, in meters.
	LengthGeodesic(ctx context.Context, g entities.Geometry) (float64, error)

	// NodeLinestrings splits a set of linestrings at every point where
	// they cross each other or themselves, returning non-crossing
	// segments tagged with the index of their originating input.
	NodeLinestrings(ctx context.Context, lines []entities.Geometry) ([]NodedSegment, error)

	// IsSimple reports whether a geometry is free of self-intersections.
	IsSimple(ctx context.Context, g entities.Geometry) (bool, error)

	// Snap moves g's coordinates onto the nearest point of target
	// wherever they lie within toleranceMeters.
	Snap(ctx context.Context, g entities.Geometry, target entities.Geometry, toleranceMeters float64) (entities.Geometry, error)

	// SimplifyPreserveTopology reduces vertex count within
	// toleranceDegrees while preserving topological relationships.
	SimplifyPreserveTopology(ctx context.Context, g entities.Geometry, toleranceDegrees float64) (entities.Geometry, error)

	// LineMerge concatenates a set of edges that share endpoints into
	// a single ordered linestring. Returns an error if the edges do
	// not form a single connected chain.
	LineMerge(ctx context.Context, parts []entities.Geometry) (entities.Geometry, error)

	// Difference returns the geometry representing a minus the union
	// of b, used by coverage verification.
	Difference(ctx context.Context, a entities.Geometry, b []entities.Geometry) (entities.Geometry, error)

	// ContainsPoint reports whether p lies on g within toleranceMeters.
	ContainsPoint(ctx context.Context, g entities.Geometry, p entities.Point, toleranceMeters float64) (bool, error)
}

// NodedSegment is one output of NodeLinestrings.
type NodedSegment struct {
	SourceIndex int // index into the input slice this segment was split from
	Geom        entities.Geometry
}
