package entities

// RouteShape classifies a route recommendation's geometry.
type RouteShape string

const (
	ShapeLoop          RouteShape = "loop"
	ShapeOutAndBack    RouteShape = "out-and-back"
	ShapePointToPoint  RouteShape = "point-to-point"
)

// RoutePattern is one entry of the configured route-pattern list
// as configured for route generation.
type RoutePattern struct {
	Name              string
	TargetDistanceKM  float64
	TargetElevationM  float64
	Shape             RouteShape
	TolerancePercent  float64
}

// Route is the output of the route-search layer.
type Route struct {
	UUID                string
	Pattern             string
	InputDistanceKM     float64
	InputElevationM     float64
	AchievedDistanceKM  float64
	AchievedElevationM  float64
	Shape               RouteShape
	EdgeIDs             []int
	VertexIDs           []int
	Cost                float64
	Name                string
	Geom                Geometry
	RelaxedTolerancePct float64 // set when returned by adaptive relaxation above the base tolerance
}

// StartEndVertex returns the first and last vertex ids of the route.
func (r *Route) StartEndVertex() (int, int) {
	if len(r.VertexIDs) == 0 {
		return 0, 0
	}
	return r.VertexIDs[0], r.VertexIDs[len(r.VertexIDs)-1]
}

// IsLoop reports whether a route is a
// loop iff its start and end vertex coincide.
func (r *Route) IsLoop() bool {
	start, end := r.StartEndVertex()
	return start == end
}
