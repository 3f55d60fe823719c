package pipeline

import (
	"context"
	"math"

	"trailnet/internal/entities"
	"trailnet/internal/events/types"
)

// VerifyCoverage computes, for every input trail, the geographic
// length of the difference between its 2D geometry and the union of
// final edges, and records a CoverageGap warning (or fatal error in
// strict mode) for any trail whose uncovered length exceeds
// max(0.5m, 0.1*edgeSnapTolerance).
func VerifyCoverage(ctx context.Context, pc *Context, trails []*entities.Trail, g *Graph) (Stats, []*entities.CoverageGap, error) {
	start := pc.emitStarted(ctx, "coverage_verification")

	threshold := math.Max(0.5, 0.1*pc.Cfg.Tolerance.EdgeSnapToleranceM)

	edgeGeoms := make([]entities.Geometry, len(g.Edges))
	for i, e := range g.Edges {
		edgeGeoms[i] = e.Geom
	}

	var gaps []*entities.CoverageGap
	for _, t := range trails {
		if t.IsConnector {
			continue
		}
		diff, err := pc.Engine.Difference(ctx, t.Geom2D, edgeGeoms)
		if err != nil {
			return Stats{}, nil, &entities.ExternalEngineError{Op: "difference", Err: err}
		}
		uncoveredM, err := pc.Engine.LengthGeodesic(ctx, diff)
		if err != nil {
			return Stats{}, nil, &entities.ExternalEngineError{Op: "length_geodesic", Err: err}
		}
		if uncoveredM <= threshold {
			continue
		}

		gap := &entities.CoverageGap{TrailUUID: t.UUID, UncoveredLength: uncoveredM, ThresholdMeters: threshold}
		if pc.Cfg.Tolerance.CoverageStrict {
			return Stats{}, nil, &entities.GeometryInvariantViolation{
				Stage:  "coverage_verification",
				Detail: gap.Error(),
				Fatal:  true,
			}
		}
		gaps = append(gaps, gap)
		_ = pc.Dispatcher.PublishSync(ctx, types.NewCoverageWarning(t.UUID, uncoveredM))
	}

	stats := Stats{Stage: "coverage_verification", InputCount: len(trails), OutputCount: len(trails) - len(gaps), Rejected: len(gaps)}
	pc.emitCompleted(ctx, "coverage_verification", start, stats)
	return stats, gaps, nil
}
