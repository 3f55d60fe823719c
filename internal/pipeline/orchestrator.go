package pipeline

import (
	"context"
	"fmt"

	"trailnet/internal/entities"
)

// Result is the outcome of a full pipeline run: the clean graph, the
// ingested trails (needed for export and coverage reporting), and any
// coverage gaps surfaced along the way.
type Result struct {
	Trails       []*entities.Trail
	Graph        *Graph
	CoverageGaps []*entities.CoverageGap
	StageStats   []Stats
}

// Run executes all eight network-construction stages in dependency
// order against a freshly ingested trail corpus, returning the clean
// graph ready for route generation and export.
func Run(ctx context.Context, pc *Context, loader TrailLoader, region string, bbox *entities.BoundingBox, source string) (*Result, error) {
	result := &Result{}

	trails, stats, err := Ingest(ctx, pc, loader, region, bbox, source)
	if err != nil {
		return nil, fmt.Errorf("pipeline: ingest: %w", err)
	}
	result.StageStats = append(result.StageStats, stats)

	trails, stats, err = Bridge(ctx, pc, trails)
	if err != nil {
		return nil, fmt.Errorf("pipeline: trail bridging: %w", err)
	}
	result.StageStats = append(result.StageStats, stats)
	result.Trails = trails

	edges, stats, err := Node(ctx, pc, trails)
	if err != nil {
		return nil, fmt.Errorf("pipeline: planar noding: %w", err)
	}
	result.StageStats = append(result.StageStats, stats)

	graph, stats, err := BuildVertices(ctx, pc, edges, trails)
	if err != nil {
		return nil, fmt.Errorf("pipeline: vertex construction: %w", err)
	}
	result.StageStats = append(result.StageStats, stats)

	if stats, err = Reconcile(ctx, pc, graph); err != nil {
		return nil, fmt.Errorf("pipeline: reconciliation: %w", err)
	}
	result.StageStats = append(result.StageStats, stats)

	if stats, err = Simplify(ctx, pc, graph); err != nil {
		return nil, fmt.Errorf("pipeline: edge simplification: %w", err)
	}
	result.StageStats = append(result.StageStats, stats)

	if stats, err = Collapse(ctx, pc, graph); err != nil {
		return nil, fmt.Errorf("pipeline: degree2 collapse: %w", err)
	}
	result.StageStats = append(result.StageStats, stats)

	stats, gaps, err := VerifyCoverage(ctx, pc, trails, graph)
	if err != nil {
		return nil, fmt.Errorf("pipeline: coverage verification: %w", err)
	}
	result.StageStats = append(result.StageStats, stats)
	result.CoverageGaps = gaps
	result.Graph = graph

	return result, nil
}
