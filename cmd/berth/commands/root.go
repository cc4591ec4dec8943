// Package commands wires the berth CLI: the root command boots the TUI,
// subcommands cover scripted access to the index and key management.
package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gofrs/flock"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jwren/berth/internal/backend"
	"github.com/jwren/berth/internal/catalog"
	"github.com/jwren/berth/internal/config"
	"github.com/jwren/berth/internal/database"
	"github.com/jwren/berth/internal/database/repository"
	"github.com/jwren/berth/internal/llm"
	"github.com/jwren/berth/internal/prefs"
	"github.com/jwren/berth/internal/secrets"
	"github.com/jwren/berth/internal/tui"
)

const watchDebounce = 750 * time.Millisecond

var openLocation string

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "berth",
		Short: "Terminal workspace: a grid of live shells, a pinned dock, and a library over your agent workspace",
		Long: `berth runs shell sessions in a resizable panel grid with a pinned dock,
and indexes a workspace root (skills, commands, templates, recorded project
sessions) into a browsable library with back/forward navigation.`,
		RunE:          runApp,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVar(&openLocation, "open", "",
		"open the library at a location, e.g. /skills/code-review or /projects")

	root.AddCommand(NewScanCommand())
	root.AddCommand(NewSessionsCommand())
	root.AddCommand(NewKeyCommand())
	root.AddCommand(NewConfigCommand())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("berth needs a terminal; use the scan and sessions subcommands for scripted access")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(cfg.Workspace.StateDir, 0o755); err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("db dir: %w", err)
	}

	// one live grid per state dir; a second instance would fight over the ptys
	lock := flock.New(filepath.Join(cfg.Workspace.StateDir, "berth.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("berth is already running (lock held by another process)")
	}
	defer func() { _ = lock.Unlock() }()

	// stray log writes tear the TUI frame, so they go to a file or nowhere
	if os.Getenv("BERTH_DEBUG") != "" {
		f, err := os.OpenFile(filepath.Join(cfg.Workspace.StateDir, "debug.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	} else {
		log.SetOutput(io.Discard)
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	pstore, err := prefs.Open()
	if err != nil {
		log.Printf("prefs unavailable: %v", err)
		pstore = nil
	}

	var watcher *catalog.Watcher
	if w, err := catalog.WatchRoot(cfg.Workspace.Root, watchDebounce); err != nil {
		log.Printf("watch %s: %v", cfg.Workspace.Root, err)
	} else {
		watcher = w
		defer watcher.Close()
	}

	be := backend.NewLocal(cfg.UI.Scrollback)
	defer be.Close()

	lipgloss.SetColorProfile(termenv.ColorProfile())
	zone.NewGlobal()

	app := tui.New(cmd.Context(), cfg, tui.Deps{
		Prefs:    pstore,
		Backend:  be,
		Catalog:  newCatalog(db, cfg),
		Titler:   buildTitler(cfg),
		Watcher:  watcher,
		Location: openLocation,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func openDB(cfg config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func newCatalog(db *sql.DB, cfg config.Config) *catalog.Service {
	return &catalog.Service{
		DB:       db,
		Root:     cfg.Workspace.Root,
		Items:    repository.NewItemRepo(db),
		Projects: repository.NewProjectRepo(db),
		Sessions: repository.NewSessionRepo(db),
	}
}

// buildTitler resolves the API key (config, then env, then the secret store)
// and constructs the titling client. Returns nil when titling is unavailable;
// the TUI treats that as the feature being off.
func buildTitler(cfg config.Config) llm.Titler {
	lcfg := llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
	}
	if lcfg.APIKeyEnv == "" {
		lcfg.APIKeyEnv = "ANTHROPIC_API_KEY"
	}
	if lcfg.APIKey == "" {
		lcfg.APIKey = os.Getenv(lcfg.APIKeyEnv)
	}
	if lcfg.APIKey == "" {
		if sec, err := secrets.Open(cfg.Workspace.StateDir); err == nil {
			if k, err := sec.Get(lcfg.Provider); err == nil {
				lcfg.APIKey = k
			}
		}
	}
	t, err := llm.NewGollmTitler(lcfg)
	if err != nil {
		log.Printf("titler disabled: %v", err)
		return nil
	}
	return t
}
