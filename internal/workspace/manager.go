// Package workspace manages staging workspaces: each pipeline run gets
// its own Postgres schema to build the network in isolation, torn down
// on success unless retention is requested. Generalized from a single
// shared "public" schema to one schema per run.
package workspace

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trailnet/internal/interfaces"
)

// Manager implements interfaces.WorkspaceManager against a shared
// Postgres connection pool, creating and dropping schemas on demand.
type Manager struct {
	db *sql.DB
}

// NewManager wraps an already-open database handle. The handle is
// shared with the geometry engine; a Manager never owns db lifecycle.
func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

var _ interfaces.WorkspaceManager = (*Manager)(nil)

// NewWorkspaceName generates a schema name from the prefix and the
// first 8 hex characters of a random uuid, collision resistant across
// concurrent runs against the same database.
func NewWorkspaceName(prefix string) string {
	if prefix == "" {
		prefix = "trailnet_run"
	}
	return fmt.Sprintf("%s_%s", prefix, uuidHex())
}

func uuidHex() string {
	id := uuid.New()
	return id.String()[:8]
}

// Create provisions a new schema and the staging tables every pipeline
// stage writes into: raw trails, noded edges, vertices and routes.
func (m *Manager) Create(ctx context.Context, name string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("workspace: begin create %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %q`, name)); err != nil {
		return fmt.Errorf("workspace: create schema %s: %w", name, err)
	}

	statements := []string{
		fmt.Sprintf(`CREATE TABLE %q.trails (
			id BIGSERIAL PRIMARY KEY,
			uuid UUID NOT NULL UNIQUE,
			name TEXT NOT NULL,
			trail_type TEXT,
			geom_wkt TEXT NOT NULL,
			length_km DOUBLE PRECISION NOT NULL,
			elevation_gain_m DOUBLE PRECISION NOT NULL,
			elevation_loss_m DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, name),
		fmt.Sprintf(`CREATE TABLE %q.edges (
			id BIGSERIAL PRIMARY KEY,
			uuid UUID NOT NULL UNIQUE,
			source_vertex_id BIGINT,
			target_vertex_id BIGINT,
			geom_wkt TEXT NOT NULL,
			length_km DOUBLE PRECISION NOT NULL,
			elevation_gain_m DOUBLE PRECISION NOT NULL,
			elevation_loss_m DOUBLE PRECISION NOT NULL,
			trail_uuids TEXT[] NOT NULL DEFAULT '{}'
		)`, name),
		fmt.Sprintf(`CREATE TABLE %q.vertices (
			id BIGSERIAL PRIMARY KEY,
			uuid UUID NOT NULL UNIQUE,
			lng DOUBLE PRECISION NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			elevation_m DOUBLE PRECISION NOT NULL DEFAULT 0,
			degree INT NOT NULL DEFAULT 0,
			class TEXT NOT NULL DEFAULT 'intersection'
		)`, name),
		fmt.Sprintf(`CREATE TABLE %q.routes (
			id BIGSERIAL PRIMARY KEY,
			uuid UUID NOT NULL UNIQUE,
			pattern_name TEXT NOT NULL,
			shape TEXT NOT NULL,
			distance_km DOUBLE PRECISION NOT NULL,
			elevation_gain_m DOUBLE PRECISION NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			edge_uuids TEXT[] NOT NULL DEFAULT '{}',
			geom_wkt TEXT NOT NULL
		)`, name),
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("workspace: provision %s: %w", name, err)
		}
	}

	if _, err := m.db.ExecContext(ctx,
		`INSERT INTO public.trailnet_workspaces (name, created_at) VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING`, name, time.Now().UTC()); err != nil {
		return fmt.Errorf("workspace: register %s: %w", name, err)
	}

	return tx.Commit()
}

// Cleanup drops a single workspace schema and its registry row.
func (m *Manager) Cleanup(ctx context.Context, name string) error {
	if _, err := m.db.ExecContext(ctx, fmt.Sprintf(`DROP SCHEMA IF EXISTS %q CASCADE`, name)); err != nil {
		return fmt.Errorf("workspace: drop schema %s: %w", name, err)
	}
	if _, err := m.db.ExecContext(ctx, `DELETE FROM public.trailnet_workspaces WHERE name = $1`, name); err != nil {
		return fmt.Errorf("workspace: deregister %s: %w", name, err)
	}
	return nil
}

// CleanupAll drops every workspace whose name carries the given prefix,
// used by `trailnet cleanup`.
func (m *Manager) CleanupAll(ctx context.Context, prefix string) error {
	rows, err := m.db.QueryContext(ctx,
		`SELECT name FROM public.trailnet_workspaces WHERE name LIKE $1`, prefix+"%")
	if err != nil {
		return fmt.Errorf("workspace: list for cleanup: %w", err)
	}
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return fmt.Errorf("workspace: scan name: %w", err)
		}
		names = append(names, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("workspace: list rows: %w", err)
	}

	for _, n := range names {
		if err := m.Cleanup(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// ListOld returns every workspace beyond the keepLatestN most recent,
// ordered newest first, for the staging-schema retention policy.
func (m *Manager) ListOld(ctx context.Context, prefix string, keepLatestN int) ([]interfaces.WorkspaceInfo, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT name, created_at FROM public.trailnet_workspaces
		 WHERE name LIKE $1
		 ORDER BY created_at DESC
		 OFFSET $2`, prefix+"%", keepLatestN)
	if err != nil {
		return nil, fmt.Errorf("workspace: list old: %w", err)
	}
	defer rows.Close()

	var out []interfaces.WorkspaceInfo
	for rows.Next() {
		var info interfaces.WorkspaceInfo
		var createdAt time.Time
		if err := rows.Scan(&info.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("workspace: scan old: %w", err)
		}
		info.CreatedAt = createdAt.Format(time.RFC3339)
		out = append(out, info)
	}
	return out, rows.Err()
}

// EnsureRegistry creates the public.trailnet_workspaces bookkeeping
// table used by ListOld/CleanupAll; called once by `trailnet install`.
func EnsureRegistry(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS public.trailnet_workspaces (
			name TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("workspace: ensure registry: %w", err)
	}
	return nil
}
