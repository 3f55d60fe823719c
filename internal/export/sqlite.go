// Package export serializes the clean network-construction graph and
// its route recommendations to either a columnar embedded SQLite
// database or a set of layered GeoJSON feature collections.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	_ "github.com/mattn/go-sqlite3"

	"trailnet/internal/config"
	"trailnet/internal/entities"
)

// SchemaVersion is the persisted schema version of the SQLite export,
// bumped whenever a table shape below changes.
const SchemaVersion = 14

// SQLiteExporter writes the graph to a columnar embedded database
// using pocketbase/dbx as the query builder over mattn/go-sqlite3,
// mirroring the way pocketbase itself layers dbx over that driver.
type SQLiteExporter struct {
	db *dbx.DB
}

// OpenSQLiteExporter opens (creating if necessary) the export database
// at path.
func OpenSQLiteExporter(path string) (*SQLiteExporter, error) {
	db, err := dbx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("export: open sqlite %s: %w", path, err)
	}
	return &SQLiteExporter{db: db}, nil
}

// Close closes the underlying database handle.
func (x *SQLiteExporter) Close() error {
	return x.db.Close()
}

// CreateSchema creates the schema-14 table set: trails, routing_nodes,
// routing_edges, route_recommendations, region_metadata, schema_version.
func (x *SQLiteExporter) CreateSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS trails (
			trail_uuid TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			region TEXT,
			source TEXT,
			trail_type TEXT,
			surface TEXT,
			difficulty TEXT,
			length_km REAL NOT NULL,
			elevation_gain REAL,
			elevation_loss REAL,
			elevation_max REAL,
			elevation_min REAL,
			bbox_geojson TEXT,
			geojson TEXT NOT NULL,
			is_connector INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS routing_nodes (
			id INTEGER PRIMARY KEY,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			elevation REAL,
			node_type TEXT NOT NULL,
			degree INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS routing_edges (
			id INTEGER PRIMARY KEY,
			source INTEGER NOT NULL,
			target INTEGER NOT NULL,
			trail_uuid TEXT,
			trail_name TEXT,
			length_km REAL NOT NULL,
			elevation_gain REAL,
			elevation_loss REAL,
			geojson TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS route_recommendations (
			route_uuid TEXT PRIMARY KEY,
			region TEXT,
			input_length_km REAL,
			input_elevation_gain REAL,
			recommended_length_km REAL,
			recommended_elevation_gain REAL,
			route_shape TEXT NOT NULL,
			trail_count INTEGER,
			route_score REAL NOT NULL,
			route_path TEXT NOT NULL,
			route_edges TEXT NOT NULL,
			route_name TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS region_metadata (
			region TEXT PRIMARY KEY,
			trail_count INTEGER,
			edge_count INTEGER,
			node_count INTEGER,
			generated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := x.db.NewQuery(stmt).Execute(); err != nil {
			return fmt.Errorf("export: create schema: %w", err)
		}
	}

	if _, err := x.db.NewQuery("DELETE FROM schema_version").Execute(); err != nil {
		return fmt.Errorf("export: reset schema_version: %w", err)
	}
	if _, err := x.db.NewQuery("INSERT INTO schema_version (version) VALUES ({:v})").
		Bind(dbx.Params{"v": SchemaVersion}).Execute(); err != nil {
		return fmt.Errorf("export: write schema_version: %w", err)
	}
	return nil
}

// WriteTrails inserts every trail, tagging each with its cached
// per-feature GeoJSON.
func (x *SQLiteExporter) WriteTrails(trails []*entities.Trail) error {
	for _, t := range trails {
		geojson, err := trailFeature(t)
		if err != nil {
			return fmt.Errorf("export: trail geojson %s: %w", t.UUID, err)
		}
		isConnector := 0
		if t.IsConnector {
			isConnector = 1
		}
		_, err = x.db.NewQuery(`
			INSERT OR REPLACE INTO trails
				(trail_uuid, name, region, source, trail_type, surface, difficulty,
				 length_km, elevation_gain, elevation_loss, elevation_max, elevation_min,
				 geojson, is_connector)
			VALUES
				({:uuid}, {:name}, {:region}, {:source}, {:trail_type}, {:surface}, {:difficulty},
				 {:length_km}, {:gain}, {:loss}, {:max}, {:min}, {:geojson}, {:connector})`).
			Bind(dbx.Params{
				"uuid": t.UUID, "name": t.Name, "region": t.Region, "source": t.Source,
				"trail_type": t.TrailType, "surface": t.Surface, "difficulty": t.Difficulty,
				"length_km": t.LengthKM, "gain": t.Elevation.Gain, "loss": t.Elevation.Loss,
				"max": t.Elevation.Max, "min": t.Elevation.Min, "geojson": geojson, "connector": isConnector,
			}).Execute()
		if err != nil {
			return fmt.Errorf("export: insert trail %s: %w", t.UUID, err)
		}
	}
	return nil
}

// WriteGraph inserts every vertex as a routing_node and every edge as
// a routing_edge, inserting a placeholder trail record (and an
// ExportSchemaMismatch warning) for any edge referencing a trail uuid
// missing from the trails table.
func (x *SQLiteExporter) WriteGraph(vertices []*entities.Vertex, edges []*entities.Edge, knownTrailUUIDs map[string]bool) ([]*entities.ExportSchemaMismatch, error) {
	for _, v := range vertices {
		_, err := x.db.NewQuery(`
			INSERT OR REPLACE INTO routing_nodes (id, lat, lng, elevation, node_type, degree)
			VALUES ({:id}, {:lat}, {:lng}, {:elev}, {:type}, {:degree})`).
			Bind(dbx.Params{
				"id": v.ID, "lat": v.Point.Lat, "lng": v.Point.Lng, "elev": v.Point.Elevation,
				"type": string(v.Class()), "degree": v.Degree,
			}).Execute()
		if err != nil {
			return nil, fmt.Errorf("export: insert node %d: %w", v.ID, err)
		}
	}

	var mismatches []*entities.ExportSchemaMismatch
	for _, e := range edges {
		if e.TrailUUID != "" && !knownTrailUUIDs[e.TrailUUID] {
			mismatch := &entities.ExportSchemaMismatch{TrailUUID: e.TrailUUID, EdgeID: e.ID}
			mismatches = append(mismatches, mismatch)
			if err := x.insertPlaceholderTrail(e.TrailUUID); err != nil {
				return nil, err
			}
			knownTrailUUIDs[e.TrailUUID] = true
		}

		geojson, err := edgeFeature(e)
		if err != nil {
			return nil, fmt.Errorf("export: edge geojson %d: %w", e.ID, err)
		}
		_, err = x.db.NewQuery(`
			INSERT OR REPLACE INTO routing_edges
				(id, source, target, trail_uuid, trail_name, length_km, elevation_gain, elevation_loss, geojson)
			VALUES
				({:id}, {:source}, {:target}, {:trail_uuid}, {:trail_name}, {:length_km}, {:gain}, {:loss}, {:geojson})`).
			Bind(dbx.Params{
				"id": e.ID, "source": e.Source, "target": e.Target, "trail_uuid": e.TrailUUID,
				"trail_name": e.TrailName, "length_km": e.LengthKM, "gain": e.ElevationGain,
				"loss": e.ElevationLoss, "geojson": geojson,
			}).Execute()
		if err != nil {
			return nil, fmt.Errorf("export: insert edge %d: %w", e.ID, err)
		}
	}
	return mismatches, nil
}

func (x *SQLiteExporter) insertPlaceholderTrail(uuid string) error {
	_, err := x.db.NewQuery(`
		INSERT OR IGNORE INTO trails (trail_uuid, name, length_km, geojson, is_connector)
		VALUES ({:uuid}, {:name}, 0, '{}', 0)`).
		Bind(dbx.Params{"uuid": uuid, "name": "(missing trail)"}).Execute()
	if err != nil {
		return fmt.Errorf("export: placeholder trail %s: %w", uuid, err)
	}
	return nil
}

// WriteRoutes inserts every route recommendation with its composite
// path/edge id lists serialized as JSON.
func (x *SQLiteExporter) WriteRoutes(region string, routes []*entities.Route) error {
	for _, r := range routes {
		pathJSON, err := json.Marshal(r.VertexIDs)
		if err != nil {
			return fmt.Errorf("export: marshal route path %s: %w", r.UUID, err)
		}
		edgesJSON, err := json.Marshal(r.EdgeIDs)
		if err != nil {
			return fmt.Errorf("export: marshal route edges %s: %w", r.UUID, err)
		}

		_, err = x.db.NewQuery(`
			INSERT OR REPLACE INTO route_recommendations
				(route_uuid, region, input_length_km, input_elevation_gain,
				 recommended_length_km, recommended_elevation_gain, route_shape,
				 trail_count, route_score, route_path, route_edges, route_name, created_at)
			VALUES
				({:uuid}, {:region}, {:in_len}, {:in_elev}, {:out_len}, {:out_elev}, {:shape},
				 {:trail_count}, {:score}, {:path}, {:edges}, {:name}, {:created_at})`).
			Bind(dbx.Params{
				"uuid": r.UUID, "region": region, "in_len": r.InputDistanceKM, "in_elev": r.InputElevationM,
				"out_len": r.AchievedDistanceKM, "out_elev": r.AchievedElevationM, "shape": string(r.Shape),
				"trail_count": len(r.EdgeIDs), "score": r.Cost, "path": string(pathJSON),
				"edges": string(edgesJSON), "name": r.Name, "created_at": time.Now().UTC().Format(time.RFC3339),
			}).Execute()
		if err != nil {
			return fmt.Errorf("export: insert route %s: %w", r.UUID, err)
		}
	}
	return nil
}

// WriteRegionMetadata records a single summary row for the run.
func (x *SQLiteExporter) WriteRegionMetadata(region string, trailCount, edgeCount, nodeCount int) error {
	_, err := x.db.NewQuery(`
		INSERT OR REPLACE INTO region_metadata (region, trail_count, edge_count, node_count, generated_at)
		VALUES ({:region}, {:trails}, {:edges}, {:nodes}, {:generated_at})`).
		Bind(dbx.Params{
			"region": region, "trails": trailCount, "edges": edgeCount, "nodes": nodeCount,
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		}).Execute()
	if err != nil {
		return fmt.Errorf("export: region metadata: %w", err)
	}
	return nil
}

// ExportAll is the top-level entry point used by the CLI's run
// command: creates the schema then writes trails, graph, and routes.
func ExportAll(path, region string, trails []*entities.Trail, vertices []*entities.Vertex, edges []*entities.Edge, routes []*entities.Route, _ *config.ExportConfig) ([]*entities.ExportSchemaMismatch, error) {
	x, err := OpenSQLiteExporter(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()

	if err := x.CreateSchema(); err != nil {
		return nil, err
	}
	if err := x.WriteTrails(trails); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(trails))
	for _, t := range trails {
		known[t.UUID] = true
	}
	mismatches, err := x.WriteGraph(vertices, edges, known)
	if err != nil {
		return nil, err
	}
	if err := x.WriteRoutes(region, routes); err != nil {
		return nil, err
	}
	if err := x.WriteRegionMetadata(region, len(trails), len(edges), len(vertices)); err != nil {
		return nil, err
	}
	return mismatches, nil
}
