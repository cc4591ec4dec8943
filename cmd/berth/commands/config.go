package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jwren/berth/internal/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect or scaffold configuration",
	}
	c.AddCommand(newConfigShowCommand(), newConfigInitCommand())
	return c
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			fmt.Printf("workspace.root       %s\n", cfg.Workspace.Root)
			fmt.Printf("workspace.shell      %s\n", cfg.ShellCommand())
			fmt.Printf("workspace.state_dir  %s\n", cfg.Workspace.StateDir)
			fmt.Printf("database.path        %s\n", cfg.Database.Path)
			fmt.Printf("llm.provider         %s\n", cfg.LLM.Provider)
			fmt.Printf("llm.model            %s\n", cfg.LLM.Model)
			fmt.Printf("llm.api_key_env      %s\n", cfg.LLM.APIKeyEnv)
			fmt.Printf("ui.min_panel_width   %d\n", cfg.UI.MinPanelWidth)
			fmt.Printf("ui.min_panel_height  %d\n", cfg.UI.MinPanelHeight)
			fmt.Printf("ui.scrollback        %d\n", cfg.UI.Scrollback)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			path := os.Getenv("BERTH_CONFIG")
			if path == "" {
				path = filepath.Join(os.Getenv("HOME"), ".config", "berth", "config.toml")
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
}
