package pipeline

import (
	"context"
	"fmt"

	"trailnet/internal/entities"
)

// Node splits every trail linestring at each crossing and
// self-intersection, producing non-crossing edge segments that
// inherit their originating trail's attributes. Every trail is first
// passed through IsSimple (only an engine error stops the stage; the
// result is not used), then all trails are noded together in one pass.
// Output segments that are not simple are rejected.
func Node(ctx context.Context, pc *Context, trails []*entities.Trail) ([]*entities.Edge, Stats, error) {
	start := pc.emitStarted(ctx, "planar_noding")

	lines := make([]entities.Geometry, len(trails))
	for i, t := range trails {
		lines[i] = t.Geom2D
	}

	for _, l := range lines {
		if _, err := pc.Engine.IsSimple(ctx, l); err != nil {
			return nil, Stats{}, &entities.ExternalEngineError{Op: "is_simple", Err: err}
		}
	}

	segments, err := pc.Engine.NodeLinestrings(ctx, lines)
	if err != nil {
		return nil, Stats{}, &entities.ExternalEngineError{Op: "node_linestrings", Err: err}
	}

	var edges []*entities.Edge
	rejected := 0
	nextID := 1
	for _, seg := range segments {
		if seg.SourceIndex < 0 || seg.SourceIndex >= len(trails) {
			rejected++
			continue
		}
		if seg.Geom.NumPoints() < 2 {
			rejected++
			continue
		}
		simple, err := pc.Engine.IsSimple(ctx, seg.Geom)
		if err != nil {
			return nil, Stats{}, &entities.ExternalEngineError{Op: "is_simple", Err: err}
		}
		if !simple {
			rejected++
			continue
		}

		lengthKM, err := pc.Engine.LengthGeodesic(ctx, seg.Geom)
		if err != nil {
			return nil, Stats{}, &entities.ExternalEngineError{Op: "length_geodesic", Err: err}
		}
		lengthKM /= 1000.0
		if lengthKM <= 0 {
			rejected++
			continue
		}

		t := trails[seg.SourceIndex]
		edges = append(edges, &entities.Edge{
			ID:            nextID,
			Geom:          seg.Geom,
			LengthKM:      lengthKM,
			ElevationGain: t.Elevation.Gain * segmentShare(seg.Geom, t.Geom2D),
			ElevationLoss: t.Elevation.Loss * segmentShare(seg.Geom, t.Geom2D),
			Source:        -1,
			Target:        -1,
			TrailUUID:     t.UUID,
			TrailName:     t.Name,
			IsConnector:   t.IsConnector,
		})
		nextID++
	}

	if len(edges) == 0 {
		return nil, Stats{}, fmt.Errorf("pipeline: planar noding produced zero edges")
	}

	stats := Stats{Stage: "planar_noding", InputCount: len(trails), OutputCount: len(edges), Rejected: rejected}
	pc.emitCompleted(ctx, "planar_noding", start, stats)
	return edges, stats, nil
}

// segmentShare approximates a segment's fraction of its parent trail's
// length, used to apportion elevation gain/loss across noded pieces
// when a dense elevation profile isn't available for the segment.
func segmentShare(segment, parent entities.Geometry) float64 {
	if parent.NumPoints() < 2 {
		return 1.0
	}
	total := 0.0
	for i := 1; i < len(parent.Points); i++ {
		total += haversineMeters(parent.Points[i-1].Lng, parent.Points[i-1].Lat, parent.Points[i].Lng, parent.Points[i].Lat)
	}
	if total == 0 {
		return 1.0
	}
	segLen := 0.0
	for i := 1; i < len(segment.Points); i++ {
		segLen += haversineMeters(segment.Points[i-1].Lng, segment.Points[i-1].Lat, segment.Points[i].Lng, segment.Points[i].Lat)
	}
	share := segLen / total
	if share > 1 {
		share = 1
	}
	return share
}
