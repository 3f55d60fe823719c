package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trailnet/internal/config"
	"trailnet/internal/entities"
	"trailnet/internal/events"
	"trailnet/internal/export"
	"trailnet/internal/geometry"
	"trailnet/internal/pipeline"
	"trailnet/internal/repositories"
	"trailnet/internal/routesearch"
	"trailnet/internal/validation"
	"trailnet/internal/workspace"
)

func runPipeline(cmd *cobra.Command, args []string) error {
	if f.listTestBBoxes {
		return listTestBBoxes()
	}

	validators := validation.NewValidatorSuite()
	if !f.skipValidation {
		if errs := validators.Tolerance.ValidateTolerances(
			cfg.Tolerance.MinTrailLengthM, cfg.Tolerance.MinTrailLengthSet,
			cfg.Tolerance.IntersectionToleranceM, cfg.Tolerance.EdgeSnapToleranceM,
			cfg.Tolerance.TrailBridgingToleranceM, cfg.Tolerance.ShortConnectorMaxLengthM,
		); errs.HasErrors() {
			return &entities.ConfigurationError{Field: "tolerance", Message: errs.Error()}
		}
	}

	if f.out == "" {
		return &entities.ConfigurationError{Field: "out", Message: "--out is required"}
	}
	format := resolveFormat(f.format, f.out)

	bbox, err := resolveBBox(f.bbox, f.testSize)
	if err != nil && !f.skipBBoxValidation {
		return err
	}

	if f.gpxDir == "" {
		return &entities.ConfigurationError{Field: "gpx-dir", Message: "--gpx-dir is required for the reference trail loader"}
	}

	ctx := context.Background()

	engine, err := geometry.NewPostGISEngine(&cfg.Database)
	if err != nil {
		return err
	}
	defer engine.Close()

	registry := events.NewEventRegistry(log)
	dispatcher := registry.Dispatcher()

	wsMgr := workspace.NewManager(engine.DB())
	if f.cleanupOldSchemas {
		old, err := wsMgr.ListOld(ctx, "trailnet_run", cfg.Workspace.MaxStagingSchemas)
		if err != nil {
			return err
		}
		for _, info := range old {
			if err := wsMgr.Cleanup(ctx, info.Name); err != nil {
				return err
			}
		}
	}
	if f.cleanupTempFiles {
		matches, err := filesMatching("*.trailnet.tmp")
		if err != nil {
			return err
		}
		for _, path := range matches {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("cleanup: remove %s: %w", path, err)
			}
		}
	}

	wsName := workspace.NewWorkspaceName("trailnet_run_" + f.region)
	if err := wsMgr.Create(ctx, wsName); err != nil {
		return err
	}
	if !cfg.Workspace.NoCleanup {
		defer func() {
			if err := wsMgr.Cleanup(ctx, wsName); err != nil {
				log.Warnf("workspace cleanup failed for %s: %v", wsName, err)
			}
		}()
	}

	pc := &pipeline.Context{
		Cfg:        cfg,
		Engine:     engine,
		Dispatcher: dispatcher,
		Log:        log,
		Workspace:  wsName,
	}

	loader := &pipeline.GPXDirLoader{Dir: f.gpxDir}

	result, err := pipeline.Run(ctx, pc, loader, f.region, bbox, f.source)
	if err != nil {
		return fmt.Errorf("trailnet: %w", err)
	}

	for _, gap := range result.CoverageGaps {
		log.Warn(gap.Error())
	}

	routes := generateRoutes(pc, result)

	if err := persistToWorkspace(ctx, engine, wsName, result, routes); err != nil {
		return err
	}

	return exportResult(format, result, routes)
}

// persistToWorkspace materializes the cleaned in-memory graph into the
// run's staging schema once, at the export boundary, rather than after
// every pipeline stage.
func persistToWorkspace(ctx context.Context, engine *geometry.PostGISEngine, schema string, result *pipeline.Result, routes []*entities.Route) error {
	db := engine.DB()
	trailRepo := repositories.NewTrailRepo(db, schema)
	vertexRepo := repositories.NewVertexRepo(db, schema)
	edgeRepo := repositories.NewEdgeRepo(db, schema)
	routeRepo := repositories.NewRouteRepo(db, schema)

	for _, t := range result.Trails {
		if err := trailRepo.Insert(ctx, t); err != nil {
			return err
		}
	}

	dbIDByVertexID := make(map[int]int, len(result.Graph.Vertices))
	for _, v := range result.Graph.Vertices {
		id, err := vertexRepo.Insert(ctx, v)
		if err != nil {
			return err
		}
		dbIDByVertexID[v.ID] = id
	}

	for _, e := range result.Graph.Edges {
		mapped := *e
		mapped.Source = dbIDByVertexID[e.Source]
		mapped.Target = dbIDByVertexID[e.Target]
		if _, err := edgeRepo.Insert(ctx, &mapped); err != nil {
			return err
		}
	}

	if err := vertexRepo.RecomputeDegrees(ctx); err != nil {
		return err
	}

	for _, r := range routes {
		if err := routeRepo.Insert(ctx, r); err != nil {
			return err
		}
	}

	return nil
}

func generateRoutes(pc *pipeline.Context, result *pipeline.Result) []*entities.Route {
	g := routesearch.Build(result.Graph.Vertices, result.Graph.Edges)

	var starts []int
	if cfg.Trailhead.Enabled && len(cfg.Trailhead.Points) > 0 {
		starts = trailheadVertexIDs(result.Graph, cfg.Trailhead.Points)
	} else {
		starts = sortedGraphVertexIDs(result.Graph)
	}

	var all []*entities.Route
	for _, p := range cfg.Patterns {
		routes, exhausted := routesearch.GenerateForPattern(g, p, pc.Cfg, starts)
		if exhausted {
			log.Warnf("route search exhausted for pattern %q: found %d of %d requested", p.Name, len(routes), p.MinRoutes)
		}
		all = append(all, routes...)
	}
	return all
}

// trailheadVertexIDs snaps each configured trailhead coordinate to its
// nearest graph vertex, the same nearest-vertex pattern BuildVertices uses
// to bind edge endpoints.
func trailheadVertexIDs(graph *pipeline.Graph, points []config.TrailheadPoint) []int {
	ids := make([]int, 0, len(points))
	seen := make(map[int]bool, len(points))
	for _, p := range points {
		var best *entities.Vertex
		bestDist := -1.0
		for _, v := range graph.Vertices {
			d := haversineMeters(v.Point.Lng, v.Point.Lat, p.Lng, p.Lat)
			if bestDist < 0 || d < bestDist {
				best, bestDist = v, d
			}
		}
		if best == nil || seen[best.ID] {
			continue
		}
		seen[best.ID] = true
		ids = append(ids, best.ID)
	}
	sort.Ints(ids)
	return ids
}

// haversineMeters is the great-circle distance between two lng/lat points,
// in meters.
func haversineMeters(lng1, lat1, lng2, lat2 float64) float64 {
	const earthRadiusM = 6371000.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

func sortedGraphVertexIDs(graph *pipeline.Graph) []int {
	ids := make([]int, 0, len(graph.Vertices))
	for _, v := range graph.Vertices {
		ids = append(ids, v.ID)
	}
	sort.Ints(ids)
	return ids
}

func exportResult(format string, result *pipeline.Result, routes []*entities.Route) error {
	switch format {
	case "sqlite":
		mismatches, err := export.ExportAll(f.out, f.region, result.Trails, result.Graph.Vertices, result.Graph.Edges, routes, &cfg.Export)
		if err != nil {
			return err
		}
		for _, m := range mismatches {
			log.Warn(m.Error())
		}
		return nil
	case "geojson":
		layers := export.BuildLayers(&cfg.Export, result.Trails, result.Graph.Vertices, result.Graph.Edges, routes)
		return export.WriteGeoJSONFiles(strings.TrimSuffix(f.out, ".geojson"), layers, writeFile)
	case "trails-only":
		layers := export.BuildLayers(&cfg.Export, result.Trails, nil, nil, nil)
		return export.WriteGeoJSONFiles(strings.TrimSuffix(f.out, ".geojson"), layers, writeFile)
	default:
		return &entities.ConfigurationError{Field: "format", Message: "unknown format " + format}
	}
}

func resolveFormat(format, out string) string {
	if format != "" && format != "sqlite" {
		return format
	}
	switch {
	case strings.HasSuffix(out, ".geojson"), strings.HasSuffix(out, ".json"):
		return "geojson"
	default:
		return "sqlite"
	}
}

func resolveBBox(raw, testSize string) (*entities.BoundingBox, error) {
	if raw == "" && testSize == "" {
		return nil, nil
	}
	if raw != "" {
		parts := strings.Split(raw, ",")
		if len(parts) != 4 {
			return nil, &entities.ConfigurationError{Field: "bbox", Message: "expected minLng,minLat,maxLng,maxLat"}
		}
		vals := make([]float64, 4)
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, &entities.ConfigurationError{Field: "bbox", Message: "non-numeric component: " + p}
			}
			vals[i] = v
		}
		return &entities.BoundingBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}, nil
	}

	region, ok := cfg.Regions[f.region]
	if !ok {
		return nil, &entities.ConfigurationError{Field: "test-size", Message: "no region config for " + f.region}
	}
	var preset config.BBoxPreset
	switch testSize {
	case "small":
		preset = region.Small
	case "medium":
		preset = region.Medium
	case "large":
		preset = region.Large
	default:
		return nil, &entities.ConfigurationError{Field: "test-size", Message: "must be small|medium|large"}
	}
	return &entities.BoundingBox{West: preset.West, South: preset.South, East: preset.East, North: preset.North}, nil
}

func listTestBBoxes() error {
	names := make([]string, 0, len(cfg.Regions))
	for name := range cfg.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r := cfg.Regions[name]
		fmt.Printf("%s: small=%v medium=%v large=%v\n", name, r.Small, r.Medium, r.Large)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
