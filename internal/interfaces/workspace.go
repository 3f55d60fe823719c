package interfaces

import "context"

// WorkspaceInfo describes a staging workspace for listing/cleanup.
type WorkspaceInfo struct {
	Name      string
	CreatedAt string
}

// WorkspaceManager allocates and tears down staging workspaces, per
// a staging schema per pipeline run. All stage components take the workspace name as their
// sole shared-state parameter; this interface is the only place that
// owns the underlying connection.
type WorkspaceManager interface {
	Create(ctx context.Context, name string) error
	Cleanup(ctx context.Context, name string) error
	CleanupAll(ctx context.Context, prefix string) error
	ListOld(ctx context.Context, prefix string, keepLatestN int) ([]WorkspaceInfo, error)
}
