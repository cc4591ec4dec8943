package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwren/berth/internal/config"
)

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	var rebuild bool
	c := &cobra.Command{
		Use:   "scan",
		Short: "Reindex the workspace root without starting the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := newCatalog(db, cfg)
			ctx := cmd.Context()
			if rebuild {
				if err := svc.Reset(ctx); err != nil {
					return fmt.Errorf("reset: %w", err)
				}
			}
			stats, err := svc.Rescan(ctx)
			if err != nil {
				return fmt.Errorf("rescan: %w", err)
			}
			fmt.Printf("indexed %d skills, %d commands, %d templates, %d projects, %d sessions\n",
				stats.Skills, stats.Commands, stats.Templates, stats.Projects, stats.Sessions)
			return nil
		},
	}
	c.Flags().BoolVar(&rebuild, "rebuild", false, "drop the index first and rescan from scratch")
	return c
}
