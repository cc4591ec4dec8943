package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Workspace WorkspaceConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	UI        UIConfig
}

// WorkspaceConfig holds session and catalog settings.
type WorkspaceConfig struct {
	// Root is the directory scanned for skills, commands, templates and
	// recorded project sessions.
	Root string
	// Shell is the command launched in new panels. Empty means $SHELL.
	Shell string
	// StateDir holds the lock file, debug log and other runtime state.
	StateDir string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LLMConfig holds provider settings for session auto-titling.
type LLMConfig struct {
	Provider  string
	APIKeyEnv string
	APIKey    string
	Model     string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	MinPanelWidth  int
	MinPanelHeight int
	Scrollback     int
}

// Load reads configuration from file and env. Env var overrides use prefix BERTH_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("workspace.root", filepath.Join(os.Getenv("HOME"), ".claude"))
	v.SetDefault("workspace.shell", "")
	v.SetDefault("workspace.state_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "berth"))
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "berth", "berth.db"))
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.api_key_env", "ANTHROPIC_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "claude-3-5-haiku-latest")
	v.SetDefault("ui.min_panel_width", 24)
	v.SetDefault("ui.min_panel_height", 6)
	v.SetDefault("ui.scrollback", 2000)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BERTH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "berth"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BERTH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	// Keys are read one by one: underscored names like state_dir do not land
	// in the CamelCase fields through Unmarshal.
	c := Config{
		Workspace: WorkspaceConfig{
			Root:     v.GetString("workspace.root"),
			Shell:    v.GetString("workspace.shell"),
			StateDir: v.GetString("workspace.state_dir"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		LLM: LLMConfig{
			Provider:  v.GetString("llm.provider"),
			APIKeyEnv: v.GetString("llm.api_key_env"),
			APIKey:    v.GetString("llm.api_key"),
			Model:     v.GetString("llm.model"),
		},
		UI: UIConfig{
			MinPanelWidth:  v.GetInt("ui.min_panel_width"),
			MinPanelHeight: v.GetInt("ui.min_panel_height"),
			Scrollback:     v.GetInt("ui.scrollback"),
		},
	}
	return c, nil
}

// ShellCommand resolves the panel command: configured shell, else $SHELL, else sh.
func (c Config) ShellCommand() string {
	if c.Workspace.Shell != "" {
		return c.Workspace.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// Save writes the provided config to disk, creating the config directory if
// needed. The API key lands in plain text here; prefer env vars or the secret
// store for keys.
func Save(cfg Config) error {
	path := os.Getenv("BERTH_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "berth", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("workspace.root", cfg.Workspace.Root)
	v.Set("workspace.shell", cfg.Workspace.Shell)
	v.Set("workspace.state_dir", cfg.Workspace.StateDir)
	v.Set("database.path", cfg.Database.Path)
	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.Set("llm.api_key", cfg.LLM.APIKey)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("ui.min_panel_width", cfg.UI.MinPanelWidth)
	v.Set("ui.min_panel_height", cfg.UI.MinPanelHeight)
	v.Set("ui.scrollback", cfg.UI.Scrollback)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
