package pipeline

import (
	"context"

	"trailnet/internal/entities"
)

// BuildVertices synthesizes the unique vertex set from edge endpoints
// (plus original trail endpoints, to preserve isolated termini), then
// binds each edge's source/target to the nearest vertex within
// edgeSnapTolerance. Edges failing the gate are dropped and counted.
func BuildVertices(ctx context.Context, pc *Context, edges []*entities.Edge, trails []*entities.Trail) (*Graph, Stats, error) {
	start := pc.emitStarted(ctx, "vertex_construction")

	tolerance := pc.Cfg.Tolerance.EdgeSnapToleranceM

	var vertices []*entities.Vertex
	nextID := 1

	addVertex := func(p entities.Point, isTerm bool) *entities.Vertex {
		for _, v := range vertices {
			if coordsEqual2D(v.Point.Lng, p.Lng) && coordsEqual2D(v.Point.Lat, p.Lat) {
				if isTerm {
					v.IsTrailTerm = true
				}
				return v
			}
		}
		v := &entities.Vertex{ID: nextID, Point: p, IsTrailTerm: isTerm}
		nextID++
		vertices = append(vertices, v)
		return v
	}

	for _, e := range edges {
		addVertex(e.Geom.Start(), false)
		addVertex(e.Geom.End(), false)
	}
	for _, t := range trails {
		if t.Geom2D.NumPoints() < 2 {
			continue
		}
		addVertex(t.Geom2D.Start(), true)
		addVertex(t.Geom2D.End(), true)
	}

	nearest := func(p entities.Point) (*entities.Vertex, float64) {
		var best *entities.Vertex
		bestDist := -1.0
		for _, v := range vertices {
			d := haversineMeters(v.Point.Lng, v.Point.Lat, p.Lng, p.Lat)
			if bestDist < 0 || d < bestDist {
				best, bestDist = v, d
			}
		}
		return best, bestDist
	}

	var kept []*entities.Edge
	rejected := 0
	for _, e := range edges {
		srcV, srcDist := nearest(e.Geom.Start())
		tgtV, tgtDist := nearest(e.Geom.End())
		if srcDist > tolerance || tgtDist > tolerance {
			rejected++
			continue
		}
		if e.Geom.NumPoints() < 2 || e.LengthKM <= 0 {
			rejected++
			continue
		}
		if srcV.ID == tgtV.ID {
			rejected++
			continue
		}
		e.Source = srcV.ID
		e.Target = tgtV.ID
		kept = append(kept, e)
	}

	g := &Graph{Vertices: vertices, Edges: kept}
	g.RecomputeDegrees()

	stats := Stats{Stage: "vertex_construction", InputCount: len(edges), OutputCount: len(kept), Rejected: rejected}
	pc.emitCompleted(ctx, "vertex_construction", start, stats)
	return g, stats, nil
}
