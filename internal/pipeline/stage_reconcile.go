package pipeline

import (
	"context"
	"sort"

	"trailnet/internal/entities"
)

// Reconcile runs the compound gap-bridging/snap/vertex-reconciliation
// subsystem: gap midpoint bridging, post-noding snap, connector edge
// spanning, early connector collapse, KNN vertex merge (union-find),
// edge re-snap, and degree recompute. Each operation is idempotent
// given its input; degenerate edges and orphaned non-terminus vertices
// are swept after every operation.
func Reconcile(ctx context.Context, pc *Context, g *Graph) (Stats, error) {
	start := pc.emitStarted(ctx, "reconciliation")
	inputEdges := len(g.Edges)

	if pc.Cfg.Tolerance.BridgingEnabled {
		gapMidpointBridge(g, pc.Cfg.Tolerance.TrailBridgingToleranceM)
		sweepDegenerate(g)
	}

	if err := postNodingSnap(ctx, pc, g); err != nil {
		return Stats{}, err
	}
	sweepDegenerate(g)

	connectorEdgeSpanning(g, pc.Cfg.Tolerance.EdgeSnapToleranceM)
	sweepDegenerate(g)

	collapseShortConnectors(g, pc.Cfg.Tolerance.ShortConnectorMaxLengthM)
	sweepDegenerate(g)

	knnVertexMerge(g, pc.Cfg.Tolerance.EdgeSnapToleranceM)
	sweepDegenerate(g)

	if err := edgeReSnap(ctx, pc, g); err != nil {
		return Stats{}, err
	}
	sweepDegenerate(g)

	g.RecomputeDegrees()

	stats := Stats{Stage: "reconciliation", InputCount: inputEdges, OutputCount: len(g.Edges)}
	pc.emitCompleted(ctx, "reconciliation", start, stats)
	return stats, nil
}

// gapMidpointBridge inserts a connector edge for every pair of edge
// endpoint vertices within trail-bridging tolerance that isn't already
// directly connected.
func gapMidpointBridge(g *Graph, toleranceM float64) {
	connected := adjacencySet(g)
	nextID := nextEdgeID(g)

	for i := 0; i < len(g.Vertices); i++ {
		for j := i + 1; j < len(g.Vertices); j++ {
			a, b := g.Vertices[i], g.Vertices[j]
			if connected[pairKey(a.ID, b.ID)] {
				continue
			}
			d := haversineMeters(a.Point.Lng, a.Point.Lat, b.Point.Lng, b.Point.Lat)
			if d == 0 || d > toleranceM {
				continue
			}
			g.Edges = append(g.Edges, &entities.Edge{
				ID:          nextID,
				Geom:        entities.NewLineString([]entities.Point{a.Point, b.Point}),
				LengthKM:    d / 1000.0,
				Source:      a.ID,
				Target:      b.ID,
				IsConnector: true,
			})
			nextID++
			connected[pairKey(a.ID, b.ID)] = true
		}
	}
}

// postNodingSnap snaps an edge's geometry, via the geometry engine's
// Snap operation within edgeSnapTolerance, onto the straight line
// between its bound vertices wherever its first or last coordinate
// lies more than 1 cm from the bound vertex.
func postNodingSnap(ctx context.Context, pc *Context, g *Graph) error {
	tolerance := pc.Cfg.Tolerance.EdgeSnapToleranceM
	for _, e := range g.Edges {
		src := g.VertexByID(e.Source)
		tgt := g.VertexByID(e.Target)
		if src == nil || tgt == nil {
			continue
		}
		start := e.Geom.Start()
		end := e.Geom.End()
		needsSnap := haversineMeters(start.Lng, start.Lat, src.Point.Lng, src.Point.Lat) > 0.01 ||
			haversineMeters(end.Lng, end.Lat, tgt.Point.Lng, tgt.Point.Lat) > 0.01
		if !needsSnap {
			continue
		}
		target := entities.NewLineString([]entities.Point{src.Point, tgt.Point})
		snapped, err := pc.Engine.Snap(ctx, e.Geom, target, tolerance)
		if err != nil {
			return &entities.ExternalEngineError{Op: "snap", Err: err}
		}
		e.Geom = snapped
	}
	return nil
}

// connectorEdgeSpanning ensures every vertex pair that should be
// topologically adjacent (within tolerance, not yet connected) has an
// explicit connector edge, inserted at most once per pair.
func connectorEdgeSpanning(g *Graph, toleranceM float64) {
	connected := adjacencySet(g)
	nextID := nextEdgeID(g)

	for i := 0; i < len(g.Vertices); i++ {
		for j := i + 1; j < len(g.Vertices); j++ {
			a, b := g.Vertices[i], g.Vertices[j]
			if connected[pairKey(a.ID, b.ID)] {
				continue
			}
			d := haversineMeters(a.Point.Lng, a.Point.Lat, b.Point.Lng, b.Point.Lat)
			if d == 0 || d > toleranceM {
				continue
			}
			g.Edges = append(g.Edges, &entities.Edge{
				ID:          nextID,
				Geom:        entities.NewLineString([]entities.Point{a.Point, b.Point}),
				LengthKM:    d / 1000.0,
				Source:      a.ID,
				Target:      b.ID,
				IsConnector: true,
			})
			nextID++
			connected[pairKey(a.ID, b.ID)] = true
		}
	}
}

// collapseShortConnectors removes connector edges below
// shortConnectorMaxLength so they don't introduce spurious degree-3
// vertices ahead of the KNN merge.
func collapseShortConnectors(g *Graph, maxLengthM float64) {
	var kept []*entities.Edge
	for _, e := range g.Edges {
		if e.IsConnector && e.LengthKM*1000 < maxLengthM {
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
}

// knnVertexMerge unions every vertex pair within edgeSnapTolerance,
// rewrites incident edges to the minimum-id representative of each
// set, and drops the merged-away vertices.
func knnVertexMerge(g *Graph, toleranceM float64) {
	idToIdx := make(map[int]int, len(g.Vertices))
	for i, v := range g.Vertices {
		idToIdx[v.ID] = i
	}

	uf := newUnionFind(len(g.Vertices))
	for i := 0; i < len(g.Vertices); i++ {
		for j := i + 1; j < len(g.Vertices); j++ {
			a, b := g.Vertices[i], g.Vertices[j]
			d := haversineMeters(a.Point.Lng, a.Point.Lat, b.Point.Lng, b.Point.Lat)
			if d <= toleranceM {
				uf.union(i, j)
			}
		}
	}

	repIdx := make(map[int]int) // set root idx -> representative vertex id
	for i, v := range g.Vertices {
		root := uf.find(i)
		if cur, ok := repIdx[root]; !ok || g.Vertices[cur].ID > v.ID {
			repIdx[root] = i
		}
	}

	idToRepID := make(map[int]int, len(g.Vertices))
	for i, v := range g.Vertices {
		root := uf.find(i)
		idToRepID[v.ID] = g.Vertices[repIdx[root]].ID
	}

	for _, e := range g.Edges {
		e.Source = idToRepID[e.Source]
		e.Target = idToRepID[e.Target]
	}

	var kept []*entities.Vertex
	for i, v := range g.Vertices {
		root := uf.find(i)
		if repIdx[root] == i {
			kept = append(kept, v)
		} else if v.IsTrailTerm {
			g.Vertices[repIdx[root]].IsTrailTerm = true
		}
	}
	g.Vertices = kept
}

// edgeReSnap snaps edges onto the post-merge vertex union and
// recomputes nearest-vertex bindings, matching operation 6 of the
// reconciliation pass.
func edgeReSnap(ctx context.Context, pc *Context, g *Graph) error {
	if err := postNodingSnap(ctx, pc, g); err != nil {
		return err
	}
	for _, e := range g.Edges {
		if e.Geom.NumPoints() < 2 {
			continue
		}
		start, end := e.Geom.Start(), e.Geom.End()
		bestSrc, bestTgt := -1.0, -1.0
		for _, v := range g.Vertices {
			if d := haversineMeters(v.Point.Lng, v.Point.Lat, start.Lng, start.Lat); bestSrc < 0 || d < bestSrc {
				bestSrc, e.Source = d, v.ID
			}
			if d := haversineMeters(v.Point.Lng, v.Point.Lat, end.Lng, end.Lat); bestTgt < 0 || d < bestTgt {
				bestTgt, e.Target = d, v.ID
			}
		}
	}
	return nil
}

// sweepDegenerate removes edges that are null/too-short/self-looping
// and vertices left with zero incident edges that are not original
// trail termini, applied after every reconciliation operation.
func sweepDegenerate(g *Graph) {
	var keptEdges []*entities.Edge
	for _, e := range g.Edges {
		if e.Geom.NumPoints() < 2 || e.LengthKM <= 0 || e.SelfLoop() {
			continue
		}
		keptEdges = append(keptEdges, e)
	}
	g.Edges = keptEdges
	g.RecomputeDegrees()

	var keptVertices []*entities.Vertex
	for _, v := range g.Vertices {
		if v.Degree == 0 && !v.IsTrailTerm {
			continue
		}
		keptVertices = append(keptVertices, v)
	}
	g.Vertices = keptVertices
}

func adjacencySet(g *Graph) map[[2]int]bool {
	set := make(map[[2]int]bool, len(g.Edges))
	for _, e := range g.Edges {
		set[pairKey(e.Source, e.Target)] = true
	}
	return set
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func nextEdgeID(g *Graph) int {
	max := 0
	for _, e := range g.Edges {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

func sortedVertexIDs(g *Graph) []int {
	ids := make([]int, len(g.Vertices))
	for i, v := range g.Vertices {
		ids[i] = v.ID
	}
	sort.Ints(ids)
	return ids
}
