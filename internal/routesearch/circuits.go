package routesearch

import "sort"

// circuitState tracks the coloring used by the Hawick-James style walk:
// white = unvisited this search, gray = on the current stack, black =
// fully explored and blocked from reuse until unblocked.
type circuitState struct {
	g         *Graph
	blocked   map[int]bool
	blockMap  map[int]map[int]bool
	stack     []int
	stackEdge []int
	onStack   map[int]bool
	results   []*Path
	maxLenKM  float64
}

// SimpleCircuits enumerates simple circuits starting and ending at
// minVertex (the minimum vertex id in each circuit, per the
// canonicalization rule), stopping any branch once accumulated length
// exceeds maxLengthKM since circuits only grow monotonically in length.
func SimpleCircuits(g *Graph, minVertex int, maxLengthKM float64) []*Path {
	cs := &circuitState{
		g:        g,
		blocked:  make(map[int]bool),
		blockMap: make(map[int]map[int]bool),
		onStack:  make(map[int]bool),
		maxLenKM: maxLengthKM,
	}
	cs.stack = []int{minVertex}
	cs.onStack[minVertex] = true
	cs.circuit(minVertex, minVertex, 0, nil)
	return cs.results
}

func (cs *circuitState) circuit(v, start int, lengthKM float64, usedEdges map[int]bool) bool {
	found := false
	cs.blocked[v] = true

	for _, e := range cs.g.Neighbors(v) {
		if e.To < start {
			continue // only explore the subgraph of vertices >= start, per canonical rotation
		}
		if usedEdges != nil && usedEdges[e.EdgeID] {
			continue
		}
		nextLen := lengthKM + e.WeightKM
		if nextLen > cs.maxLenKM {
			continue
		}

		if e.To == start && len(cs.stack) >= 3 {
			cs.emit(nextLen, e.EdgeID)
			found = true
			continue
		}
		if cs.blocked[e.To] {
			continue
		}

		cs.stack = append(cs.stack, e.To)
		cs.onStack[e.To] = true
		used := cloneEdgeSet(usedEdges)
		used[e.EdgeID] = true
		cs.stackEdge = append(cs.stackEdge, e.EdgeID)

		if cs.circuit(e.To, start, nextLen, used) {
			found = true
		}

		cs.stackEdge = cs.stackEdge[:len(cs.stackEdge)-1]
		cs.onStack[e.To] = false
		cs.stack = cs.stack[:len(cs.stack)-1]
	}

	if found {
		cs.unblock(v)
	} else {
		if cs.blockMap[v] == nil {
			cs.blockMap[v] = make(map[int]bool)
		}
	}
	return found
}

func (cs *circuitState) unblock(v int) {
	cs.blocked[v] = false
	for w := range cs.blockMap[v] {
		delete(cs.blockMap[v], w)
		if cs.blocked[w] {
			cs.unblock(w)
		}
	}
}

func (cs *circuitState) emit(lengthKM float64, closingEdgeID int) {
	vertexIDs := append([]int{}, cs.stack...)
	vertexIDs = append(vertexIDs, cs.stack[0])
	edgeIDs := append([]int{}, cs.stackEdge...)
	edgeIDs = append(edgeIDs, closingEdgeID)

	p := &Path{VertexIDs: vertexIDs, EdgeIDs: edgeIDs, LengthKM: lengthKM}
	sumGainLoss(cs.g, p)
	cs.results = append(cs.results, p)
}

func cloneEdgeSet(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AllSimpleCircuits runs SimpleCircuits rooted at every vertex id in
// ascending order, the standard Hawick-James outer loop, returning the
// union of every distinct circuit found.
func AllSimpleCircuits(g *Graph, maxLengthKM float64) []*Path {
	ids := g.VertexIDs()
	sort.Ints(ids)

	var all []*Path
	for _, id := range ids {
		all = append(all, SimpleCircuits(g, id, maxLengthKM)...)
	}
	return all
}
