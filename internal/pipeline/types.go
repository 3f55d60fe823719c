// Package pipeline implements the network-construction stages that
// turn a raw trail corpus into a routable planar graph: ingest,
// trail-level bridging, planar noding, vertex construction, gap
// bridging/snap/reconciliation, edge simplification and
// deduplication, degree-2 chain collapse, and coverage verification.
//
// Stages operate on an in-memory arena of dense-id Vertex/Edge structs
// rather than against per-stage database tables; only the geometry
// engine's planar operations (node, snap, simplify, line-merge,
// difference, is-simple) cross into PostGIS. The cleaned graph is
// persisted to the workspace schema once, at the export boundary.
package pipeline

import (
	"context"
	"time"

	"trailnet/internal/config"
	"trailnet/internal/entities"
	"trailnet/internal/events"
	"trailnet/internal/events/types"
	"trailnet/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// TrailLoader is the external trail-source collaborator: OSM ingestion
// and elevation attribution live outside this pipeline's scope.
type TrailLoader interface {
	LoadTrails(ctx context.Context, region string, bbox *entities.BoundingBox, source string) ([]*entities.Trail, error)
}

// Stats is the generic per-stage result record every stage returns.
type Stats struct {
	Stage       string
	InputCount  int
	OutputCount int
	Rejected    int
	Warnings    []string
}

// Context threads the shared, read-mostly collaborators every stage
// needs: configuration, the geometry engine, and the event dispatcher.
// No stage keeps package-level state; everything flows through this
// value and the Graph it mutates.
type Context struct {
	Cfg        *config.Config
	Engine     interfaces.Engine
	Dispatcher *events.Dispatcher
	Log        *logrus.Logger
	Workspace  string
}

// emitStarted publishes a stage's started event and returns its start
// time; publish errors are discarded, so the stage never fails over an
// observability hiccup.
func (c *Context) emitStarted(ctx context.Context, stage string) time.Time {
	start := time.Now()
	_ = c.Dispatcher.PublishSync(ctx, types.NewStageStarted(stage, c.Workspace))
	return start
}

func (c *Context) emitCompleted(ctx context.Context, stage string, start time.Time, stats Stats) {
	durationMS := time.Since(start).Milliseconds()
	_ = c.Dispatcher.PublishSync(ctx, types.NewStageCompleted(stage, c.Workspace, durationMS, stats))
}

// Graph is the in-memory arena of the post-noding network: dense
// integer ids in flat vertex and edge slices; incidence is found by
// scanning Edges (see Incident), with no stored adjacency list.
type Graph struct {
	Vertices []*entities.Vertex
	Edges    []*entities.Edge
}

// VertexByID returns the vertex with the given dense id, or nil.
func (g *Graph) VertexByID(id int) *entities.Vertex {
	for _, v := range g.Vertices {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Incident returns every edge touching vertexID.
func (g *Graph) Incident(vertexID int) []*entities.Edge {
	var out []*entities.Edge
	for _, e := range g.Edges {
		if e.Source == vertexID || e.Target == vertexID {
			out = append(out, e)
		}
	}
	return out
}

// RecomputeDegrees sets every vertex's Degree to the count of incident
// edges longer than 1m, ignoring degenerate near-zero-length edges.
func (g *Graph) RecomputeDegrees() {
	counts := make(map[int]int, len(g.Vertices))
	for _, e := range g.Edges {
		if e.LengthKM*1000 <= 1.0 {
			continue
		}
		counts[e.Source]++
		counts[e.Target]++
	}
	for _, v := range g.Vertices {
		v.Degree = counts[v.ID]
	}
}
