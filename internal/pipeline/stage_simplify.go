package pipeline

import (
	"context"

	"trailnet/internal/entities"
)

// Simplify applies a topology-preserving simplifier to edges with more
// than minPointsForSimplification vertices, deduplicates multiple
// edges between the same vertex pair (keeping the shortest), and
// removes short connector edges terminating at a degree-1 vertex.
func Simplify(ctx context.Context, pc *Context, g *Graph) (Stats, error) {
	start := pc.emitStarted(ctx, "edge_simplification")
	inputCount := len(g.Edges)

	for _, e := range g.Edges {
		if e.Geom.NumPoints() <= pc.Cfg.Tolerance.MinPointsForSimplify {
			continue
		}
		simplified, err := pc.Engine.SimplifyPreserveTopology(ctx, e.Geom, pc.Cfg.Tolerance.SimplificationToleranceDg)
		if err != nil {
			return Stats{}, &entities.ExternalEngineError{Op: "simplify_preserve_topology", Err: err}
		}
		lengthKM, err := pc.Engine.LengthGeodesic(ctx, simplified)
		if err != nil {
			return Stats{}, &entities.ExternalEngineError{Op: "length_geodesic", Err: err}
		}
		e.Geom = simplified
		e.LengthKM = lengthKM / 1000.0
	}

	dedupeByVertexPair(g)
	removeOrphanShortConnectors(g, pc.Cfg.Tolerance.ShortConnectorMaxLengthM)
	sweepDegenerate(g)

	stats := Stats{Stage: "edge_simplification", InputCount: inputCount, OutputCount: len(g.Edges), Rejected: inputCount - len(g.Edges)}
	pc.emitCompleted(ctx, "edge_simplification", start, stats)
	return stats, nil
}

// dedupeByVertexPair keeps only the shortest edge for each unordered
// vertex pair with multiple incident edges.
func dedupeByVertexPair(g *Graph) {
	best := make(map[[2]int]*entities.Edge)
	for _, e := range g.Edges {
		key := pairKey(e.Source, e.Target)
		if cur, ok := best[key]; !ok || e.LengthKM < cur.LengthKM {
			best[key] = e
		}
	}
	kept := make([]*entities.Edge, 0, len(best))
	for _, e := range best {
		kept = append(kept, e)
	}
	g.Edges = kept
}

// removeOrphanShortConnectors deletes connector edges below
// shortConnectorMaxLength terminating at a degree-1 vertex, and the
// now-orphaned vertex with them.
func removeOrphanShortConnectors(g *Graph, maxLengthM float64) {
	g.RecomputeDegrees()
	degreeOne := make(map[int]bool)
	for _, v := range g.Vertices {
		if v.Degree == 1 {
			degreeOne[v.ID] = true
		}
	}

	var kept []*entities.Edge
	for _, e := range g.Edges {
		if e.IsConnector && e.LengthKM*1000 < maxLengthM && (degreeOne[e.Source] || degreeOne[e.Target]) {
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
}
