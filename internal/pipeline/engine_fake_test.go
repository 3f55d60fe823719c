package pipeline

import (
	"context"

	"trailnet/internal/config"
	"trailnet/internal/entities"
	"trailnet/internal/events"
	"trailnet/internal/interfaces"
)

// fakeEngine is a pure in-process stand-in for the PostGIS geometry
// engine, enough to exercise every pipeline stage's control flow
// without a database.
type fakeEngine struct {
	simple       bool
	nodeErr      error
	snapErr      error
	differenceFn func(a entities.Geometry, b []entities.Geometry) entities.Geometry
}

func (f *fakeEngine) Distance(ctx context.Context, a, b entities.Point) (float64, error) {
	return haversineMeters(a.Lng, a.Lat, b.Lng, b.Lat), nil
}

func (f *fakeEngine) LengthGeodesic(ctx context.Context, g entities.Geometry) (float64, error) {
	total := 0.0
	for i := 1; i < len(g.Points); i++ {
		total += haversineMeters(g.Points[i-1].Lng, g.Points[i-1].Lat, g.Points[i].Lng, g.Points[i].Lat)
	}
	return total, nil
}

func (f *fakeEngine) NodeLinestrings(ctx context.Context, lines []entities.Geometry) ([]interfaces.NodedSegment, error) {
	if f.nodeErr != nil {
		return nil, f.nodeErr
	}
	segs := make([]interfaces.NodedSegment, len(lines))
	for i, l := range lines {
		segs[i] = interfaces.NodedSegment{SourceIndex: i, Geom: l}
	}
	return segs, nil
}

func (f *fakeEngine) IsSimple(ctx context.Context, g entities.Geometry) (bool, error) {
	return f.simple, nil
}

func (f *fakeEngine) Snap(ctx context.Context, g entities.Geometry, target entities.Geometry, toleranceMeters float64) (entities.Geometry, error) {
	if f.snapErr != nil {
		return entities.Geometry{}, f.snapErr
	}
	return target, nil
}

func (f *fakeEngine) SimplifyPreserveTopology(ctx context.Context, g entities.Geometry, toleranceDegrees float64) (entities.Geometry, error) {
	return g, nil
}

func (f *fakeEngine) LineMerge(ctx context.Context, parts []entities.Geometry) (entities.Geometry, error) {
	var points []entities.Point
	for _, p := range parts {
		points = append(points, p.Points...)
	}
	return entities.NewLineString(points), nil
}

func (f *fakeEngine) Difference(ctx context.Context, a entities.Geometry, b []entities.Geometry) (entities.Geometry, error) {
	if f.differenceFn != nil {
		return f.differenceFn(a, b), nil
	}
	return entities.Geometry{}, nil
}

func (f *fakeEngine) ContainsPoint(ctx context.Context, g entities.Geometry, p entities.Point, toleranceMeters float64) (bool, error) {
	return true, nil
}

func testContextWithEngine(engine interfaces.Engine) *Context {
	return &Context{
		Cfg:        config.Default(),
		Engine:     engine,
		Dispatcher: events.NewDispatcher(),
		Workspace:  "test",
	}
}
