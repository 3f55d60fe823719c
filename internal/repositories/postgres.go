// Package repositories implements interfaces.{Trail,Edge,Vertex,Route}Repository
// against the per-run workspace schema: parameterized queries,
// pq.Array for Postgres arrays, fmt.Errorf wrapping on every failure path.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"trailnet/internal/entities"
	"trailnet/internal/interfaces"
)

// TrailRepo implements interfaces.TrailRepository against one schema's
// trails table.
type TrailRepo struct {
	db     *sql.DB
	schema string
}

// NewTrailRepo binds a trail repository to a workspace schema.
func NewTrailRepo(db *sql.DB, schema string) *TrailRepo {
	return &TrailRepo{db: db, schema: schema}
}

var _ interfaces.TrailRepository = (*TrailRepo)(nil)

func (r *TrailRepo) Insert(ctx context.Context, t *entities.Trail) error {
	query := fmt.Sprintf(`
		INSERT INTO %q.trails (uuid, name, trail_type, geom_wkt, length_km, elevation_gain_m, elevation_loss_m)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (uuid) DO NOTHING`, r.schema)

	_, err := r.db.ExecContext(ctx, query,
		t.UUID, t.Name, t.TrailType, t.Geom2D.WKT(), t.LengthKM, t.Elevation.Gain, t.Elevation.Loss)
	if err != nil {
		return fmt.Errorf("repositories: insert trail %s: %w", t.UUID, err)
	}
	return nil
}

func (r *TrailRepo) All(ctx context.Context) ([]*entities.Trail, error) {
	query := fmt.Sprintf(`SELECT uuid, name, trail_type, geom_wkt, length_km, elevation_gain_m, elevation_loss_m
		FROM %q.trails ORDER BY id`, r.schema)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repositories: list trails: %w", err)
	}
	defer rows.Close()

	var out []*entities.Trail
	for rows.Next() {
		t := &entities.Trail{}
		var wkt string
		if err := rows.Scan(&t.UUID, &t.Name, &t.TrailType, &wkt, &t.LengthKM, &t.Elevation.Gain, &t.Elevation.Loss); err != nil {
			return nil, fmt.Errorf("repositories: scan trail: %w", err)
		}
		t.Geom2D = geomFromWKT(wkt)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TrailRepo) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %q.trails`, r.schema)
	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("repositories: count trails: %w", err)
	}
	return n, nil
}

// EdgeRepo implements interfaces.EdgeRepository against one schema's
// edges table.
type EdgeRepo struct {
	db     *sql.DB
	schema string
}

// NewEdgeRepo binds an edge repository to a workspace schema.
func NewEdgeRepo(db *sql.DB, schema string) *EdgeRepo {
	return &EdgeRepo{db: db, schema: schema}
}

var _ interfaces.EdgeRepository = (*EdgeRepo)(nil)

func (r *EdgeRepo) Insert(ctx context.Context, e *entities.Edge) (int, error) {
	query := fmt.Sprintf(`
		INSERT INTO %q.edges (uuid, source_vertex_id, target_vertex_id, geom_wkt, length_km, elevation_gain_m, elevation_loss_m, trail_uuids)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id`, r.schema)

	var id int
	err := r.db.QueryRowContext(ctx, query,
		e.Source, e.Target, e.Geom.WKT(), e.LengthKM, e.ElevationGain, e.ElevationLoss,
		pq.Array(compositionUUIDs(e))).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repositories: insert edge: %w", err)
	}
	return id, nil
}

func (r *EdgeRepo) Update(ctx context.Context, e *entities.Edge) error {
	query := fmt.Sprintf(`
		UPDATE %q.edges SET source_vertex_id = $1, target_vertex_id = $2, geom_wkt = $3,
			length_km = $4, elevation_gain_m = $5, elevation_loss_m = $6, trail_uuids = $7
		WHERE id = $8`, r.schema)

	_, err := r.db.ExecContext(ctx, query,
		e.Source, e.Target, e.Geom.WKT(), e.LengthKM, e.ElevationGain, e.ElevationLoss,
		pq.Array(compositionUUIDs(e)), e.ID)
	if err != nil {
		return fmt.Errorf("repositories: update edge %d: %w", e.ID, err)
	}
	return nil
}

func (r *EdgeRepo) Delete(ctx context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %q.edges WHERE id = $1`, r.schema)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("repositories: delete edge %d: %w", id, err)
	}
	return nil
}

func (r *EdgeRepo) All(ctx context.Context) ([]*entities.Edge, error) {
	query := fmt.Sprintf(`SELECT id, source_vertex_id, target_vertex_id, geom_wkt, length_km, elevation_gain_m, elevation_loss_m, trail_uuids
		FROM %q.edges ORDER BY id`, r.schema)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repositories: list edges: %w", err)
	}
	defer rows.Close()

	var out []*entities.Edge
	for rows.Next() {
		e := &entities.Edge{}
		var wkt string
		var trailUUIDs pq.StringArray
		if err := rows.Scan(&e.ID, &e.Source, &e.Target, &wkt, &e.LengthKM, &e.ElevationGain, &e.ElevationLoss, &trailUUIDs); err != nil {
			return nil, fmt.Errorf("repositories: scan edge: %w", err)
		}
		e.Geom = geomFromWKT(wkt)
		if len(trailUUIDs) > 0 {
			e.TrailUUID = trailUUIDs[0]
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EdgeRepo) IncidentTo(ctx context.Context, vertexID int) ([]*entities.Edge, error) {
	query := fmt.Sprintf(`SELECT id, source_vertex_id, target_vertex_id, geom_wkt, length_km, elevation_gain_m, elevation_loss_m, trail_uuids
		FROM %q.edges WHERE source_vertex_id = $1 OR target_vertex_id = $1 ORDER BY id`, r.schema)

	rows, err := r.db.QueryContext(ctx, query, vertexID)
	if err != nil {
		return nil, fmt.Errorf("repositories: incident edges of %d: %w", vertexID, err)
	}
	defer rows.Close()

	var out []*entities.Edge
	for rows.Next() {
		e := &entities.Edge{}
		var wkt string
		var trailUUIDs pq.StringArray
		if err := rows.Scan(&e.ID, &e.Source, &e.Target, &wkt, &e.LengthKM, &e.ElevationGain, &e.ElevationLoss, &trailUUIDs); err != nil {
			return nil, fmt.Errorf("repositories: scan incident edge: %w", err)
		}
		e.Geom = geomFromWKT(wkt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// VertexRepo implements interfaces.VertexRepository against one
// schema's vertices table.
type VertexRepo struct {
	db     *sql.DB
	schema string
}

// NewVertexRepo binds a vertex repository to a workspace schema.
func NewVertexRepo(db *sql.DB, schema string) *VertexRepo {
	return &VertexRepo{db: db, schema: schema}
}

var _ interfaces.VertexRepository = (*VertexRepo)(nil)

func (r *VertexRepo) Insert(ctx context.Context, v *entities.Vertex) (int, error) {
	query := fmt.Sprintf(`
		INSERT INTO %q.vertices (uuid, lng, lat, elevation_m, degree, class)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id`, r.schema)

	var id int
	err := r.db.QueryRowContext(ctx, query, v.Point.Lng, v.Point.Lat, v.Point.Elevation, v.Degree, string(v.Class())).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repositories: insert vertex: %w", err)
	}
	return id, nil
}

func (r *VertexRepo) Update(ctx context.Context, v *entities.Vertex) error {
	query := fmt.Sprintf(`UPDATE %q.vertices SET lng = $1, lat = $2, elevation_m = $3, degree = $4, class = $5 WHERE id = $6`, r.schema)
	_, err := r.db.ExecContext(ctx, query, v.Point.Lng, v.Point.Lat, v.Point.Elevation, v.Degree, string(v.Class()), v.ID)
	if err != nil {
		return fmt.Errorf("repositories: update vertex %d: %w", v.ID, err)
	}
	return nil
}

func (r *VertexRepo) Delete(ctx context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %q.vertices WHERE id = $1`, r.schema)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("repositories: delete vertex %d: %w", id, err)
	}
	return nil
}

func (r *VertexRepo) All(ctx context.Context) ([]*entities.Vertex, error) {
	query := fmt.Sprintf(`SELECT id, lng, lat, elevation_m, degree FROM %q.vertices ORDER BY id`, r.schema)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repositories: list vertices: %w", err)
	}
	defer rows.Close()

	var out []*entities.Vertex
	for rows.Next() {
		v := &entities.Vertex{}
		if err := rows.Scan(&v.ID, &v.Point.Lng, &v.Point.Lat, &v.Point.Elevation, &v.Degree); err != nil {
			return nil, fmt.Errorf("repositories: scan vertex: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// RecomputeDegrees derives each vertex's degree from the current edge
// set, the SQL equivalent of the in-memory adjacency rebuild the
// degree-2 collapse stage performs after every merge.
func (r *VertexRepo) RecomputeDegrees(ctx context.Context) error {
	query := fmt.Sprintf(`
		UPDATE %q.vertices v SET degree = sub.cnt, class = CASE
			WHEN sub.cnt = 0 THEN 'isolated'
			WHEN sub.cnt = 1 THEN 'endpoint'
			WHEN sub.cnt = 2 THEN 'connector'
			ELSE 'intersection' END
		FROM (
			SELECT vertex_id, count(*) AS cnt FROM (
				SELECT source_vertex_id AS vertex_id FROM %q.edges WHERE length_km > 0.001
				UNION ALL
				SELECT target_vertex_id AS vertex_id FROM %q.edges WHERE length_km > 0.001
			) incident GROUP BY vertex_id
		) sub
		WHERE v.id = sub.vertex_id`, r.schema, r.schema, r.schema)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("repositories: recompute degrees: %w", err)
	}
	return nil
}

// RouteRepo implements interfaces.RouteRepository against one schema's
// routes table.
type RouteRepo struct {
	db     *sql.DB
	schema string
}

// NewRouteRepo binds a route repository to a workspace schema.
func NewRouteRepo(db *sql.DB, schema string) *RouteRepo {
	return &RouteRepo{db: db, schema: schema}
}

var _ interfaces.RouteRepository = (*RouteRepo)(nil)

func (r *RouteRepo) Insert(ctx context.Context, rt *entities.Route) error {
	query := fmt.Sprintf(`
		INSERT INTO %q.routes (uuid, pattern_name, shape, distance_km, elevation_gain_m, score, edge_uuids, geom_wkt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (uuid) DO NOTHING`, r.schema)

	edgeUUIDs := make([]string, len(rt.EdgeIDs))
	for i, id := range rt.EdgeIDs {
		edgeUUIDs[i] = fmt.Sprintf("%d", id)
	}

	_, err := r.db.ExecContext(ctx, query,
		rt.UUID, rt.Pattern, string(rt.Shape), rt.AchievedDistanceKM, rt.AchievedElevationM, rt.Cost,
		pq.Array(edgeUUIDs), rt.Geom.WKT())
	if err != nil {
		return fmt.Errorf("repositories: insert route %s: %w", rt.UUID, err)
	}
	return nil
}

func (r *RouteRepo) ByPattern(ctx context.Context, pattern string) ([]*entities.Route, error) {
	return r.query(ctx, `WHERE pattern_name = $1 ORDER BY score DESC`, pattern)
}

func (r *RouteRepo) All(ctx context.Context) ([]*entities.Route, error) {
	return r.query(ctx, `ORDER BY pattern_name, score DESC`)
}

func (r *RouteRepo) query(ctx context.Context, tail string, args ...interface{}) ([]*entities.Route, error) {
	query := fmt.Sprintf(`SELECT uuid, pattern_name, shape, distance_km, elevation_gain_m, score, geom_wkt FROM %q.routes %s`, r.schema, tail)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repositories: list routes: %w", err)
	}
	defer rows.Close()

	var out []*entities.Route
	for rows.Next() {
		rt := &entities.Route{}
		var wkt, shape string
		if err := rows.Scan(&rt.UUID, &rt.Pattern, &shape, &rt.AchievedDistanceKM, &rt.AchievedElevationM, &rt.Cost, &wkt); err != nil {
			return nil, fmt.Errorf("repositories: scan route: %w", err)
		}
		rt.Shape = entities.RouteShape(shape)
		rt.Geom = geomFromWKT(wkt)
		out = append(out, rt)
	}
	return out, rows.Err()
}

func compositionUUIDs(e *entities.Edge) []string {
	if len(e.Composition) == 0 {
		if e.TrailUUID == "" {
			return nil
		}
		return []string{e.TrailUUID}
	}
	uuids := make([]string, len(e.Composition))
	for i, c := range e.Composition {
		uuids[i] = c.TrailUUID
	}
	return uuids
}

// geomFromWKT parses stored WKT, swallowing parse errors into an empty
// Geometry: callers that need a hard failure use the geometry engine's
// own parser directly.
func geomFromWKT(wkt string) entities.Geometry {
	g, err := parseSimpleWKT(wkt)
	if err != nil {
		return entities.Geometry{}
	}
	return g
}
