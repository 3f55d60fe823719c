// Package geometry implements the geometry engine capability set
// (interfaces.Engine) against a PostGIS-enabled Postgres database,
// a thin database/sql wrapper
// around github.com/lib/pq issuing parameterized ST_* SQL, with every
// error wrapped via fmt.Errorf("...: %w", err).
package geometry

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"trailnet/internal/config"
	"trailnet/internal/entities"
	"trailnet/internal/interfaces"
)

// PostGISEngine implements interfaces.Engine over a live Postgres+PostGIS
// connection.
type PostGISEngine struct {
	db *sql.DB
}

// NewPostGISEngine opens a connection pool sized for a small worker
// fleet, not a single long-lived web server.
func NewPostGISEngine(cfg *config.DatabaseConfig) (*PostGISEngine, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("geometry: connect to postgis: %w", err)
	}
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(30)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("geometry: ping postgis: %w", err)
	}

	return &PostGISEngine{db: db}, nil
}

// Close closes the underlying connection pool.
func (e *PostGISEngine) Close() error {
	return e.db.Close()
}

// DB exposes the underlying connection pool so the workspace manager
// and repositories can share it instead of opening a second pool.
func (e *PostGISEngine) DB() *sql.DB {
	return e.db
}

var _ interfaces.Engine = (*PostGISEngine)(nil)

// Distance returns the geodesic distance between two points, in meters.
func (e *PostGISEngine) Distance(ctx context.Context, a, b entities.Point) (float64, error) {
	const query = `SELECT ST_Distance(ST_GeomFromText($1, 4326)::geography, ST_GeomFromText($2, 4326)::geography)`

	var meters float64
	row := e.db.QueryRowContext(ctx, query, pointWKT(a), pointWKT(b))
	if err := row.Scan(&meters); err != nil {
		return 0, fmt.Errorf("geometry: distance: %w", err)
	}
	return meters, nil
}

// LengthGeodesic returns the geodesic length of a linestring, in meters.
func (e *PostGISEngine) LengthGeodesic(ctx context.Context, g entities.Geometry) (float64, error) {
	const query = `SELECT ST_Length(ST_GeomFromText($1, 4326)::geography)`

	var meters float64
	row := e.db.QueryRowContext(ctx, query, g.WKT())
	if err := row.Scan(&meters); err != nil {
		return 0, fmt.Errorf("geometry: length_geodesic: %w", err)
	}
	return meters, nil
}

// IsSimple reports whether a geometry is free of self-intersections.
func (e *PostGISEngine) IsSimple(ctx context.Context, g entities.Geometry) (bool, error) {
	const query = `SELECT ST_IsSimple(ST_GeomFromText($1, 4326))`

	var simple bool
	row := e.db.QueryRowContext(ctx, query, g.WKT())
	if err := row.Scan(&simple); err != nil {
		return false, fmt.Errorf("geometry: is_simple: %w", err)
	}
	return simple, nil
}

// NodeLinestrings splits a set of linestrings at every crossing and
// self-intersection. All inputs, simple or not, are unioned and noded
// together by a single ST_Node call; there is no separate per-input
// self-noding step.
func (e *PostGISEngine) NodeLinestrings(ctx context.Context, lines []entities.Geometry) ([]interfaces.NodedSegment, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	idxs := make([]int64, len(lines))
	wkts := make([]string, len(lines))
	for i, l := range lines {
		idxs[i] = int64(i)
		wkts[i] = l.WKT()
	}

	const query = `
		WITH input(idx, geom) AS (
			SELECT t.idx, ST_GeomFromText(t.wkt, 4326)
			FROM unnest($1::bigint[], $2::text[]) AS t(idx, wkt)
		),
		unioned AS (
			SELECT ST_Union(geom) AS geom FROM input
		),
		noded AS (
			SELECT (ST_Dump(ST_Node(geom))).geom AS geom FROM unioned
		)
		SELECT n.geom, i.idx
		FROM noded n
		JOIN input i ON ST_Relate(n.geom, i.geom, '1********')
		ORDER BY i.idx`

	rows, err := e.db.QueryContext(ctx, query, idxs, wkts)
	if err != nil {
		return nil, fmt.Errorf("geometry: node_linestrings: %w", err)
	}
	defer rows.Close()

	var out []interfaces.NodedSegment
	for rows.Next() {
		var wkt string
		var idx int64
		if err := rows.Scan(&wkt, &idx); err != nil {
			return nil, fmt.Errorf("geometry: node_linestrings scan: %w", err)
		}
		g, err := parseWKTLineString(wkt)
		if err != nil {
			return nil, fmt.Errorf("geometry: node_linestrings parse: %w", err)
		}
		out = append(out, interfaces.NodedSegment{SourceIndex: int(idx), Geom: g})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geometry: node_linestrings rows: %w", err)
	}
	return out, nil
}

// Snap moves g's coordinates onto target wherever they lie within
// toleranceMeters, used by the post-noding snap pass.
func (e *PostGISEngine) Snap(ctx context.Context, g entities.Geometry, target entities.Geometry, toleranceMeters float64) (entities.Geometry, error) {
	const query = `
		SELECT ST_AsText(ST_Snap(
			ST_GeomFromText($1, 4326),
			ST_GeomFromText($2, 4326),
			$3 / 111320.0
		))`

	var wkt string
	row := e.db.QueryRowContext(ctx, query, g.WKT(), target.WKT(), toleranceMeters)
	if err := row.Scan(&wkt); err != nil {
		return entities.Geometry{}, fmt.Errorf("geometry: snap: %w", err)
	}
	return parseWKTLineString(wkt)
}

// SimplifyPreserveTopology reduces vertex count within toleranceDegrees.
func (e *PostGISEngine) SimplifyPreserveTopology(ctx context.Context, g entities.Geometry, toleranceDegrees float64) (entities.Geometry, error) {
	const query = `SELECT ST_AsText(ST_SimplifyPreserveTopology(ST_GeomFromText($1, 4326), $2))`

	var wkt string
	row := e.db.QueryRowContext(ctx, query, g.WKT(), toleranceDegrees)
	if err := row.Scan(&wkt); err != nil {
		return entities.Geometry{}, fmt.Errorf("geometry: simplify_preserve_topology: %w", err)
	}
	return parseWKTLineString(wkt)
}

// LineMerge concatenates edges sharing endpoints into a single ordered
// linestring, used by the degree-2 chain collapse.
func (e *PostGISEngine) LineMerge(ctx context.Context, parts []entities.Geometry) (entities.Geometry, error) {
	wkts := make([]string, len(parts))
	for i, p := range parts {
		wkts[i] = p.WKT()
	}

	const query = `
		WITH input AS (
			SELECT ST_GeomFromText(w, 4326) AS geom FROM unnest($1::text[]) AS w
		)
		SELECT ST_AsText(ST_LineMerge(ST_Collect(geom))) FROM input`

	var wkt string
	row := e.db.QueryRowContext(ctx, query, wkts)
	if err := row.Scan(&wkt); err != nil {
		return entities.Geometry{}, fmt.Errorf("geometry: line_merge: %w", err)
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(wkt)), "MULTILINESTRING") {
		return entities.Geometry{}, fmt.Errorf("geometry: line_merge: chain did not resolve to a single linestring")
	}
	g, err := parseWKTLineString(wkt)
	if err != nil {
		return entities.Geometry{}, fmt.Errorf("geometry: line_merge: chain did not resolve to a single linestring: %w", err)
	}
	return g, nil
}

// Difference returns a minus the union of b, used by coverage
// verification.
func (e *PostGISEngine) Difference(ctx context.Context, a entities.Geometry, b []entities.Geometry) (entities.Geometry, error) {
	wkts := make([]string, len(b))
	for i, g := range b {
		wkts[i] = g.WKT()
	}

	const query = `
		WITH others AS (
			SELECT ST_Union(ST_GeomFromText(w, 4326)) AS geom FROM unnest($2::text[]) AS w
		)
		SELECT ST_AsText(ST_Difference(ST_GeomFromText($1, 4326), others.geom)) FROM others`

	var wkt string
	row := e.db.QueryRowContext(ctx, query, a.WKT(), wkts)
	if err := row.Scan(&wkt); err != nil {
		return entities.Geometry{}, fmt.Errorf("geometry: difference: %w", err)
	}
	return parseWKTLineString(wkt)
}

// ContainsPoint reports whether p lies on g within toleranceMeters.
func (e *PostGISEngine) ContainsPoint(ctx context.Context, g entities.Geometry, p entities.Point, toleranceMeters float64) (bool, error) {
	const query = `
		SELECT ST_DWithin(
			ST_GeomFromText($1, 4326)::geography,
			ST_GeomFromText($2, 4326)::geography,
			$3
		)`

	var within bool
	row := e.db.QueryRowContext(ctx, query, g.WKT(), pointWKT(p), toleranceMeters)
	if err := row.Scan(&within); err != nil {
		return false, fmt.Errorf("geometry: contains_point: %w", err)
	}
	return within, nil
}

func pointWKT(p entities.Point) string {
	return entities.NewLineString([]entities.Point{p}).WKT()
}
