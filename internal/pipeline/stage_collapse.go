package pipeline

import (
	"context"

	"trailnet/internal/entities"
)

// Collapse iteratively merges every maximal chain of edges linked
// through degree-2 vertices into a single edge, up to maxIterations,
// stopping at the first pass that produces zero merges. The entire
// loop runs against a scratch copy of the graph so a failure anywhere
// leaves the caller's graph untouched, the in-memory equivalent of
// running the fixpoint inside one transaction.
func Collapse(ctx context.Context, pc *Context, g *Graph) (Stats, error) {
	start := pc.emitStarted(ctx, "degree2_collapse")
	inputCount := len(g.Edges)

	scratch := cloneGraph(g)

	merges := 0
	for iter := 0; iter < pc.Cfg.Tolerance.MaxCollapseIterations; iter++ {
		n, err := collapseOnePass(ctx, pc, scratch)
		if err != nil {
			return Stats{}, err
		}
		if n == 0 {
			break
		}
		merges += n
	}

	removeSelfLoops(scratch)
	if err := postNodingSnap(ctx, pc, scratch); err != nil {
		return Stats{}, err
	}
	scratch.RecomputeDegrees()

	*g = *scratch

	stats := Stats{Stage: "degree2_collapse", InputCount: inputCount, OutputCount: len(g.Edges), Rejected: merges}
	pc.emitCompleted(ctx, "degree2_collapse", start, stats)
	return stats, nil
}

func cloneGraph(g *Graph) *Graph {
	vs := make([]*entities.Vertex, len(g.Vertices))
	for i, v := range g.Vertices {
		cp := *v
		vs[i] = &cp
	}
	es := make([]*entities.Edge, len(g.Edges))
	for i, e := range g.Edges {
		cp := *e
		es[i] = &cp
	}
	return &Graph{Vertices: vs, Edges: es}
}

// collapseOnePass finds every degree-2 vertex, walks its chain to
// decision endpoints in both directions, and replaces the chain with
// one line-merged edge. Returns the number of chains merged.
func collapseOnePass(ctx context.Context, pc *Context, g *Graph) (int, error) {
	g.RecomputeDegrees()

	visited := make(map[int]bool)
	merged := 0
	var removeEdgeIDs map[int]bool
	var newEdges []*entities.Edge

	for _, v := range g.Vertices {
		if v.Degree != 2 || visited[v.ID] {
			continue
		}

		chain, decisionStart, decisionEnd, ok := walkChain(g, v.ID, visited)
		if !ok || len(chain) < 2 {
			continue
		}

		merged++
		if removeEdgeIDs == nil {
			removeEdgeIDs = make(map[int]bool)
		}
		geoms := make([]entities.Geometry, len(chain))
		var totalKM, gain, loss float64
		var composition []entities.TrailComposition
		for i, e := range chain {
			removeEdgeIDs[e.ID] = true
			geoms[i] = e.Geom
			totalKM += e.LengthKM
			gain += e.ElevationGain
			loss += e.ElevationLoss
		}
		for _, e := range chain {
			pct := 0.0
			if totalKM > 0 {
				pct = e.LengthKM / totalKM * 100
			}
			composition = append(composition, entities.TrailComposition{
				TrailUUID: e.TrailUUID,
				TrailName: e.TrailName,
				LengthKM:  e.LengthKM,
				PercentOf: pct,
			})
		}

		mergedGeom, err := pc.Engine.LineMerge(ctx, geoms)
		if err != nil {
			return 0, &entities.GeometryInvariantViolation{
				Stage:  "degree2_collapse",
				Detail: "chain could not be line-merged: " + err.Error(),
				Fatal:  false,
			}
		}

		newEdges = append(newEdges, &entities.Edge{
			ID:            nextEdgeID(g) + len(newEdges),
			Geom:          mergedGeom,
			LengthKM:      totalKM,
			ElevationGain: gain,
			ElevationLoss: loss,
			Source:        decisionStart,
			Target:        decisionEnd,
			Composition:   composition,
		})
	}

	if merged == 0 {
		return 0, nil
	}

	var kept []*entities.Edge
	for _, e := range g.Edges {
		if !removeEdgeIDs[e.ID] {
			kept = append(kept, e)
		}
	}
	g.Edges = append(kept, newEdges...)

	var keptVertices []*entities.Vertex
	for _, v := range g.Vertices {
		if v.Degree == 2 && visited[v.ID] {
			continue
		}
		keptVertices = append(keptVertices, v)
	}
	g.Vertices = keptVertices
	g.RecomputeDegrees()

	return merged, nil
}

// walkChain follows the chain of degree-2 vertices starting at seed in
// both directions until it reaches a decision vertex (degree != 2) or
// revisits a vertex, breaking a pure cycle through a single decision
// vertex. Returns the ordered edges, the two decision endpoint ids,
// and whether a valid chain was found.
func walkChain(g *Graph, seed int, visited map[int]bool) ([]*entities.Edge, int, int, bool) {
	forward, endA := walkDirection(g, seed, nil, visited)
	if len(forward) == 0 {
		return nil, 0, 0, false
	}
	var firstEdge *entities.Edge = forward[0]
	otherNeighbor := otherEndpoint(firstEdge, seed)
	backward, endB := walkDirection(g, seed, map[int]bool{otherNeighbor: true}, visited)

	chain := make([]*entities.Edge, 0, len(backward)+len(forward))
	for i := len(backward) - 1; i >= 0; i-- {
		chain = append(chain, backward[i])
	}
	chain = append(chain, forward...)

	if len(chain) == 0 {
		return nil, 0, 0, false
	}
	return chain, endB, endA, true
}

// walkDirection advances from start along exactly one incident edge
// (excluding ids in exclude) through degree-2 vertices, marking each
// traversed vertex visited, until it reaches a non-degree-2 vertex.
func walkDirection(g *Graph, start int, exclude map[int]bool, visited map[int]bool) ([]*entities.Edge, int) {
	var chain []*entities.Edge
	current := start
	for {
		incident := g.Incident(current)
		var next *entities.Edge
		for _, e := range incident {
			other := otherEndpoint(e, current)
			if exclude != nil && exclude[other] {
				continue
			}
			alreadyUsed := false
			for _, used := range chain {
				if used.ID == e.ID {
					alreadyUsed = true
					break
				}
			}
			if alreadyUsed {
				continue
			}
			next = e
			break
		}
		if next == nil {
			return chain, current
		}
		other := otherEndpoint(next, current)
		chain = append(chain, next)
		v := g.VertexByID(current)
		if v != nil && v.Degree == 2 {
			visited[current] = true
		}
		current = other
		if ov := g.VertexByID(current); ov == nil || ov.Degree != 2 {
			return chain, current
		}
		if visited[current] {
			return chain, current
		}
	}
}

func otherEndpoint(e *entities.Edge, vertexID int) int {
	if e.Source == vertexID {
		return e.Target
	}
	return e.Source
}

func removeSelfLoops(g *Graph) {
	var kept []*entities.Edge
	for _, e := range g.Edges {
		if e.SelfLoop() {
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
}
