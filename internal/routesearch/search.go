package routesearch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"trailnet/internal/config"
	"trailnet/internal/entities"
)

// GenerateForPattern produces up to pattern.MaxRoutes candidate routes
// for a single configured pattern: it tries K-shortest-paths between
// start/end candidates (trailheads when enabled, otherwise every
// vertex pair) for point-to-point/out-and-back shapes, or simple
// circuit enumeration for loops, applies adaptive tolerance relaxation
// when too few routes are found, scores every candidate, and filters
// near-duplicates by minimum inter-route distance.
func GenerateForPattern(g *Graph, pattern config.RoutePatternConfig, cfg *config.Config, startCandidates []int) ([]*entities.Route, bool) {
	tolerance := pattern.TolerancePercent
	maxTolerance := 0.5
	var routes []*entities.Route
	relaxed := false

	for {
		candidates := findCandidates(g, pattern, tolerance, startCandidates)
		routes = scoreAndRank(g, cfg, pattern, candidates)
		routes = filterNearDuplicates(routes, cfg.Cost.MinInterRouteMeters)

		minRoutes := pattern.MinRoutes
		if len(routes) >= minRoutes || tolerance >= maxTolerance {
			break
		}
		tolerance += 0.10
		relaxed = true
	}

	if len(routes) > pattern.MaxRoutes {
		routes = routes[:pattern.MaxRoutes]
	}
	if relaxed {
		for _, r := range routes {
			r.RelaxedTolerancePct = tolerance
		}
	}

	exhausted := len(routes) < pattern.MinRoutes
	return routes, exhausted
}

func findCandidates(g *Graph, pattern config.RoutePatternConfig, tolerance float64, startCandidates []int) []*Path {
	maxDistance := pattern.TargetDistanceKM * (1 + tolerance)

	switch pattern.RouteShape {
	case string(entities.ShapeLoop):
		var all []*Path
		for _, s := range startCandidates {
			all = append(all, SimpleCircuits(g, s, maxDistance)...)
		}
		return all
	case string(entities.ShapeOutAndBack):
		return outAndBackCandidates(g, startCandidates, maxDistance)
	default:
		var all []*Path
		for _, s := range startCandidates {
			for _, e := range g.VertexIDs() {
				if e == s {
					continue
				}
				paths := KShortestPaths(g, s, e, pattern.K)
				for _, p := range paths {
					if p.LengthKM <= maxDistance {
						all = append(all, p)
					}
				}
			}
		}
		return all
	}
}

// outAndBackCandidates builds one candidate per (start, turnaround) pair:
// the shortest path to the turnaround vertex, doubled back over the same
// edges in reverse. KShortestPaths only ever returns simple paths with
// distinct edge ids, so it can never produce a genuine there-and-back-again
// route; this walks out to a turnaround within half the target distance
// and retraces it instead.
func outAndBackCandidates(g *Graph, startCandidates []int, maxDistance float64) []*Path {
	half := maxDistance / 2
	var all []*Path
	for _, s := range startCandidates {
		for _, v := range g.VertexIDs() {
			if v == s {
				continue
			}
			out, ok := shortestPath(g, s, v, nil, nil)
			if !ok || out.LengthKM <= 0 || out.LengthKM > half {
				continue
			}
			all = append(all, doubleBack(out))
		}
	}
	return all
}

// doubleBack mirrors an outbound path into a full out-and-back path:
// edges and vertices are retraced in reverse, and since the reverse
// traversal of an edge swaps gain and loss (graph.go's Build records
// both directions), the return leg's gain equals the outbound leg's loss.
func doubleBack(out *Path) *Path {
	edgeIDs := make([]int, 0, len(out.EdgeIDs)*2)
	edgeIDs = append(edgeIDs, out.EdgeIDs...)
	for i := len(out.EdgeIDs) - 1; i >= 0; i-- {
		edgeIDs = append(edgeIDs, out.EdgeIDs[i])
	}

	vertexIDs := make([]int, 0, len(out.VertexIDs)*2-1)
	vertexIDs = append(vertexIDs, out.VertexIDs...)
	for i := len(out.VertexIDs) - 2; i >= 0; i-- {
		vertexIDs = append(vertexIDs, out.VertexIDs[i])
	}

	return &Path{
		VertexIDs: vertexIDs,
		EdgeIDs:   edgeIDs,
		LengthKM:  out.LengthKM * 2,
		Gain:      out.Gain + out.Loss,
		Loss:      out.Loss + out.Gain,
	}
}

func scoreAndRank(g *Graph, cfg *config.Config, patternCfg config.RoutePatternConfig, paths []*Path) []*entities.Route {
	pattern := &entities.RoutePattern{
		Name:             patternCfg.Name,
		TargetDistanceKM: patternCfg.TargetDistanceKM,
		TargetElevationM: patternCfg.TargetElevationM,
		Shape:            entities.RouteShape(patternCfg.RouteShape),
		TolerancePercent: patternCfg.TolerancePercent,
	}

	var routes []*entities.Route
	for _, p := range paths {
		shape := classifyShape(g, p)
		cost := Cost(cfg.Cost, pattern, p.LengthKM, p.Gain, shape)

		routes = append(routes, &entities.Route{
			UUID:               uuid.New().String(),
			Pattern:            patternCfg.Name,
			InputDistanceKM:    patternCfg.TargetDistanceKM,
			InputElevationM:    patternCfg.TargetElevationM,
			AchievedDistanceKM: p.LengthKM,
			AchievedElevationM: p.Gain,
			Shape:              shape,
			EdgeIDs:            p.EdgeIDs,
			VertexIDs:          p.VertexIDs,
			Cost:               cost,
			Name:               routeName(g, p, shape),
			Geom:               mergeGeometry(g, p),
		})
	}

	sort.Slice(routes, func(i, j int) bool { return routes[i].Cost < routes[j].Cost })
	return routes
}

// classifyShape implements the shape law: out-and-back when the edge
// list is palindromic around its midpoint (the path retraces itself back
// to its start); loop when start = end via a distinct path with no
// retracing; otherwise point-to-point. The palindrome check must run
// before the start=end check, since an out-and-back path also starts and
// ends at the same vertex.
func classifyShape(g *Graph, p *Path) entities.RouteShape {
	if len(p.VertexIDs) == 0 {
		return entities.ShapePointToPoint
	}
	if isPalindromicEdges(p.EdgeIDs) {
		return entities.ShapeOutAndBack
	}
	if p.VertexIDs[0] == p.VertexIDs[len(p.VertexIDs)-1] {
		return entities.ShapeLoop
	}
	return entities.ShapePointToPoint
}

func isPalindromicEdges(edgeIDs []int) bool {
	n := len(edgeIDs)
	if n == 0 || n%2 != 0 {
		return false
	}
	half := n / 2
	for i := 0; i < half; i++ {
		if edgeIDs[i] != edgeIDs[n-1-i] {
			return false
		}
	}
	return true
}

// routeName joins the distinct trail names encountered along the path:
// a single trail keeps its own name; two distinct trails join as
// "A/B Route"; three or more collapse to "first/last Route"; the shape
// is appended unless the name already mentions it.
func routeName(g *Graph, p *Path, shape entities.RouteShape) string {
	var names []string
	seen := map[string]bool{}
	for _, eid := range p.EdgeIDs {
		e := g.Edges[eid]
		name := e.TrailName
		if len(e.Composition) > 0 {
			name = e.Composition[0].TrailName
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	var base string
	switch len(names) {
	case 0:
		base = "Unnamed Route"
	case 1:
		base = names[0]
	case 2:
		base = fmt.Sprintf("%s/%s Route", names[0], names[1])
	default:
		base = fmt.Sprintf("%s/%s Route", names[0], names[len(names)-1])
	}

	suffix := string(shape)
	if !strings.Contains(strings.ToLower(base), strings.ToLower(suffix)) {
		base = fmt.Sprintf("%s (%s)", base, suffix)
	}
	return base
}

func mergeGeometry(g *Graph, p *Path) entities.Geometry {
	var points []entities.Point
	for _, eid := range p.EdgeIDs {
		e := g.Edges[eid]
		points = append(points, e.Geom.Points...)
	}
	return entities.NewLineString(points)
}

// filterNearDuplicates enforces a minimum inter-route distance by a
// simple shared-edge overlap ratio threshold: two routes sharing more
// than half their shorter edge count are treated as duplicates and the
// lower-ranked one is dropped.
func filterNearDuplicates(routes []*entities.Route, minMeters float64) []*entities.Route {
	var kept []*entities.Route
	for _, r := range routes {
		duplicate := false
		for _, k := range kept {
			if overlapRatio(r.EdgeIDs, k.EdgeIDs) > 0.5 {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, r)
		}
	}
	return kept
}

func overlapRatio(a, b []int) float64 {
	set := make(map[int]bool, len(b))
	for _, id := range b {
		set[id] = true
	}
	shared := 0
	for _, id := range a {
		if set[id] {
			shared++
		}
	}
	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}
	if shorter == 0 {
		return 0
	}
	return float64(shared) / float64(shorter)
}
