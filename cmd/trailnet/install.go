package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"trailnet/internal/geometry"
	"trailnet/internal/workspace"
)

func newInstallCmd() *cobra.Command {
	var empty bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Provision the workspace bookkeeping table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			engine, err := geometry.NewPostGISEngine(&cfg.Database)
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := workspace.EnsureRegistry(ctx, engine.DB()); err != nil {
				return err
			}

			if empty {
				fmt.Fprintln(cmd.OutOrStdout(), "installed empty workspace registry, no staging schemas created")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "workspace registry ready")
			return nil
		},
	}

	cmd.Flags().BoolVar(&empty, "empty", false, "install the registry without creating any staging workspace")
	return cmd
}
