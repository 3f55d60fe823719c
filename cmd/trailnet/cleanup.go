package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"trailnet/internal/geometry"
	"trailnet/internal/workspace"
)

func filesMatching(glob string) ([]string, error) {
	matches, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("cleanup: glob %s: %w", glob, err)
	}
	return matches, nil
}

func newCleanupCmd() *cobra.Command {
	var (
		prefix            string
		cleanupOldSchemas bool
		cleanupTempFiles  bool
		maxStaging        int
		tempFileGlob      string
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Drop staging schemas and temporary export files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if prefix == "" {
				prefix = "trailnet_run"
			}
			if maxStaging == 0 {
				maxStaging = cfg.Workspace.MaxStagingSchemas
			}

			engine, err := geometry.NewPostGISEngine(&cfg.Database)
			if err != nil {
				return err
			}
			defer engine.Close()

			mgr := workspace.NewManager(engine.DB())

			if cleanupOldSchemas {
				old, err := mgr.ListOld(ctx, prefix, maxStaging)
				if err != nil {
					return err
				}
				for _, info := range old {
					if err := mgr.Cleanup(ctx, info.Name); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "dropped workspace %s (created %s)\n", info.Name, info.CreatedAt)
				}
			} else {
				if err := mgr.CleanupAll(ctx, prefix); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dropped all workspaces matching prefix %q\n", prefix)
			}

			if cleanupTempFiles {
				matches, err := filesMatching(tempFileGlob)
				if err != nil {
					return err
				}
				for _, path := range matches {
					if err := os.Remove(path); err != nil {
						return fmt.Errorf("cleanup: remove %s: %w", path, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "workspace name prefix to target (default trailnet_run)")
	cmd.Flags().BoolVar(&cleanupOldSchemas, "cleanup-old-schemas", false, "keep the newest max-staging-schemas, drop the rest")
	cmd.Flags().BoolVar(&cleanupTempFiles, "cleanup-temp-files", false, "remove temporary export files")
	cmd.Flags().IntVar(&maxStaging, "max-staging-schemas", 0, "override workspace.max_staging_schemas")
	cmd.Flags().StringVar(&tempFileGlob, "temp-file-glob", "*.trailnet.tmp", "glob pattern for temporary export files")

	return cmd
}
