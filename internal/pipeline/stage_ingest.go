package pipeline

import (
	"context"

	"trailnet/internal/entities"
)

// Ingest loads trails through the loader, passing it the region, bbox
// and source filters, enforces a 2D working geometry, and drops invalid
// or zero-length geometries. Of the filters, Ingest itself re-applies
// only the bbox: a trail's region and source tags are not checked here.
func Ingest(ctx context.Context, pc *Context, loader TrailLoader, region string, bbox *entities.BoundingBox, source string) ([]*entities.Trail, Stats, error) {
	start := pc.emitStarted(ctx, "ingest")

	raw, err := loader.LoadTrails(ctx, region, bbox, source)
	if err != nil {
		return nil, Stats{}, err
	}

	var kept []*entities.Trail
	rejected := 0
	for _, t := range raw {
		if bbox != nil && !t.BBox.Intersects(*bbox) {
			rejected++
			continue
		}
		if t.Geom2D.NumPoints() == 0 && t.Geom3D.NumPoints() > 0 {
			t.Geom2D = t.Geom3D.To2D()
		}
		if !t.Valid() {
			rejected++
			continue
		}
		kept = append(kept, t)
	}

	if len(kept) == 0 {
		return nil, Stats{}, &entities.NoInputDataError{Region: region, Source: source, BBox: bbox}
	}

	stats := Stats{Stage: "ingest", InputCount: len(raw), OutputCount: len(kept), Rejected: rejected}
	pc.emitCompleted(ctx, "ingest", start, stats)
	return kept, stats, nil
}
