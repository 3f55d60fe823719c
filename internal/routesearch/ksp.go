package routesearch

import "sort"

// KShortestPaths enumerates up to k simple shortest paths from src to
// dst by edge length using Yen's algorithm over the adjacency-list
// graph.
func KShortestPaths(g *Graph, src, dst, k int) []*Path {
	first, ok := shortestPath(g, src, dst, nil, nil)
	if !ok {
		return nil
	}

	A := []*Path{first}
	var B []*Path

	for len(A) < k {
		prev := A[len(A)-1]
		for i := 0; i < len(prev.VertexIDs)-1; i++ {
			spurNode := prev.VertexIDs[i]
			rootVertices := append([]int{}, prev.VertexIDs[:i+1]...)
			rootEdges := append([]int{}, prev.EdgeIDs[:i]...)

			excludeEdges := map[int]bool{}
			for _, p := range A {
				if len(p.VertexIDs) > i && samePrefix(p.VertexIDs[:i+1], rootVertices) && len(p.EdgeIDs) > i {
					excludeEdges[p.EdgeIDs[i]] = true
				}
			}
			excludeVertices := map[int]bool{}
			for _, v := range rootVertices[:len(rootVertices)-1] {
				excludeVertices[v] = true
			}

			spurPath, ok := shortestPath(g, spurNode, dst, excludeEdges, excludeVertices)
			if !ok {
				continue
			}

			totalPath := &Path{
				VertexIDs: append(append([]int{}, rootVertices[:len(rootVertices)-1]...), spurPath.VertexIDs...),
				EdgeIDs:   append(append([]int{}, rootEdges...), spurPath.EdgeIDs...),
				LengthKM:  pathLength(g, rootEdges) + spurPath.LengthKM,
			}
			if !containsPath(A, totalPath) && !containsPath(B, totalPath) {
				sumGainLoss(g, totalPath)
				B = append(B, totalPath)
			}
		}

		if len(B) == 0 {
			break
		}
		sort.Slice(B, func(i, j int) bool { return B[i].LengthKM < B[j].LengthKM })
		A = append(A, B[0])
		B = B[1:]
	}

	return A
}

func pathLength(g *Graph, edgeIDs []int) float64 {
	var total float64
	for _, id := range edgeIDs {
		total += g.Edges[id].LengthKM
	}
	return total
}

func sumGainLoss(g *Graph, p *Path) {
	for _, id := range p.EdgeIDs {
		e := g.Edges[id]
		p.Gain += e.ElevationGain
		p.Loss += e.ElevationLoss
	}
}

func samePrefix(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsPath(paths []*Path, candidate *Path) bool {
	for _, p := range paths {
		if samePrefix(p.EdgeIDs, candidate.EdgeIDs) {
			return true
		}
	}
	return false
}
