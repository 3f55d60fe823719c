// Package routesearch implements route generation over the clean
// network-construction graph: Yen's k-shortest-paths, Hawick-James
// simple-circuit enumeration, the enhanced preference cost model,
// adaptive tolerance relaxation, shape classification, and
// minimum-inter-route-distance filtering. Graph algorithms are
// implemented directly against an in-memory adjacency-list
// representation rather than delegated to an external routing
// extension, in the style of the pack's own graph/dijkstra.go and
// dfs/cycle.go (container/heap Dijkstra, 3-color DFS cycle search).
package routesearch

import "trailnet/internal/entities"

// AdjEdge is one directed traversal of an underlying edge.
type AdjEdge struct {
	EdgeID   int
	To       int
	WeightKM float64
	Gain     float64
	Loss     float64
}

// Graph is an adjacency-list view of the clean network, built once per
// route-generation run from the workspace's vertex/edge tables.
type Graph struct {
	Vertices map[int]*entities.Vertex
	Edges    map[int]*entities.Edge
	adj      map[int][]AdjEdge
}

// Build converts the dense vertex/edge arrays produced by the
// network-construction pipeline into an adjacency-list graph, with
// both traversal directions recorded for each undirected edge.
func Build(vertices []*entities.Vertex, edges []*entities.Edge) *Graph {
	g := &Graph{
		Vertices: make(map[int]*entities.Vertex, len(vertices)),
		Edges:    make(map[int]*entities.Edge, len(edges)),
		adj:      make(map[int][]AdjEdge, len(vertices)),
	}
	for _, v := range vertices {
		g.Vertices[v.ID] = v
	}
	for _, e := range edges {
		g.Edges[e.ID] = e
		g.adj[e.Source] = append(g.adj[e.Source], AdjEdge{EdgeID: e.ID, To: e.Target, WeightKM: e.LengthKM, Gain: e.ElevationGain, Loss: e.ElevationLoss})
		g.adj[e.Target] = append(g.adj[e.Target], AdjEdge{EdgeID: e.ID, To: e.Source, WeightKM: e.LengthKM, Gain: e.ElevationLoss, Loss: e.ElevationGain})
	}
	return g
}

// Neighbors returns the outgoing traversals from vertexID.
func (g *Graph) Neighbors(vertexID int) []AdjEdge {
	return g.adj[vertexID]
}

// VertexIDs returns every vertex id in the graph, in map-iteration
// order; callers that need determinism must sort the result.
func (g *Graph) VertexIDs() []int {
	ids := make([]int, 0, len(g.Vertices))
	for id := range g.Vertices {
		ids = append(ids, id)
	}
	return ids
}

// Path is an ordered walk through the graph.
type Path struct {
	VertexIDs []int
	EdgeIDs   []int
	LengthKM  float64
	Gain      float64
	Loss      float64
}
