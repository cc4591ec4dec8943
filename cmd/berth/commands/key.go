package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jwren/berth/internal/config"
	"github.com/jwren/berth/internal/secrets"
)

// NewKeyCommand creates the key command group.
func NewKeyCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "key",
		Short: "Manage provider API keys for session titling",
	}
	c.AddCommand(newKeySetCommand(), newKeyDeleteCommand(), newKeyListCommand())
	return c
}

func openSecrets() (*secrets.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return secrets.Open(cfg.Workspace.StateDir)
}

func newKeySetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key, read from the terminal without echo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := openSecrets()
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "API key for %s: ", args[0])
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("read key: %w", err)
			}
			key := strings.TrimSpace(string(raw))
			if key == "" {
				return fmt.Errorf("empty key")
			}
			if err := sec.Set(args[0], key); err != nil {
				return err
			}
			fmt.Printf("stored key for %s\n", strings.ToLower(args[0]))
			return nil
		},
	}
}

func newKeyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := openSecrets()
			if err != nil {
				return err
			}
			if err := sec.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted key for %s\n", strings.ToLower(args[0]))
			return nil
		},
	}
}

func newKeyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := openSecrets()
			if err != nil {
				return err
			}
			providers, err := sec.Providers()
			if err != nil {
				return err
			}
			if len(providers) == 0 {
				fmt.Println("no keys stored")
				return nil
			}
			for _, p := range providers {
				fmt.Println(p)
			}
			return nil
		},
	}
}
