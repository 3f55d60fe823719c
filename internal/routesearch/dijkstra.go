package routesearch

import "container/heap"

// pqItem is one entry of the Dijkstra priority queue.
type pqItem struct {
	vertex int
	dist   float64
	index  int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index = i; pq[j].index = j }
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// shortestPath runs Dijkstra from src to dst over g, skipping edges in
// excludeEdges and vertices in excludeVertices, the exclusion hooks
// Yen's algorithm needs for spur-path search.
func shortestPath(g *Graph, src, dst int, excludeEdges map[int]bool, excludeVertices map[int]bool) (*Path, bool) {
	dist := map[int]float64{src: 0}
	prevVertex := map[int]int{}
	prevEdge := map[int]int{}

	pq := &priorityQueue{{vertex: src, dist: 0}}
	heap.Init(pq)
	visited := map[int]bool{}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		u := item.vertex
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == dst {
			break
		}

		for _, e := range g.Neighbors(u) {
			if excludeEdges[e.EdgeID] || excludeVertices[e.To] {
				continue
			}
			nd := dist[u] + e.WeightKM
			if cur, ok := dist[e.To]; !ok || nd < cur {
				dist[e.To] = nd
				prevVertex[e.To] = u
				prevEdge[e.To] = e.EdgeID
				heap.Push(pq, &pqItem{vertex: e.To, dist: nd})
			}
		}
	}

	if _, ok := dist[dst]; !ok {
		return nil, false
	}

	var vertexIDs []int
	var edgeIDs []int
	cur := dst
	for cur != src {
		vertexIDs = append([]int{cur}, vertexIDs...)
		edgeIDs = append([]int{prevEdge[cur]}, edgeIDs...)
		cur = prevVertex[cur]
	}
	vertexIDs = append([]int{src}, vertexIDs...)

	p := &Path{VertexIDs: vertexIDs, EdgeIDs: edgeIDs, LengthKM: dist[dst]}
	for _, eid := range edgeIDs {
		e := g.Edges[eid]
		p.Gain += e.ElevationGain
		p.Loss += e.ElevationLoss
	}
	return p, true
}
