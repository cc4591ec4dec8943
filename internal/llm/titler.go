// Package llm names running sessions: it turns a slice of recent terminal
// output into a short human title.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/teilomillet/gollm"
	gllm "github.com/teilomillet/gollm/llm"
)

// Titler produces a display title for a session from its recent output.
type Titler interface {
	Title(ctx context.Context, transcript string) (string, error)
}

// Config selects the provider and model. APIKey wins over APIKeyEnv; either
// way the key ends up in the env var the provider SDK reads.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	APIKeyEnv string
}

// GollmTitler talks to a hosted model through gollm.
type GollmTitler struct {
	client gllm.LLM
}

func NewGollmTitler(cfg Config) (*GollmTitler, error) {
	if cfg.Provider == "" {
		return nil, fmt.Errorf("llm: no provider configured")
	}
	if cfg.APIKey != "" && cfg.APIKeyEnv != "" {
		os.Setenv(cfg.APIKeyEnv, cfg.APIKey)
	}
	client, err := gollm.NewLLM(
		gollm.SetProvider(cfg.Provider),
		gollm.SetModel(cfg.Model),
		gollm.SetMaxTokens(60),
		gollm.SetTemperature(0.2),
	)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	return &GollmTitler{client: client}, nil
}

const titleMaxRunes = 40

func (t *GollmTitler) Title(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", fmt.Errorf("llm: empty transcript")
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	prompt := gollm.NewPrompt(fmt.Sprintf(
		"The following is recent output from a terminal session. "+
			"Name the session in at most five words, like a tab title. "+
			"Output ONLY the title, no quotes, no punctuation at the end.\n\n%s",
		transcript))
	resp, err := t.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	title := SanitizeTitle(resp)
	if title == "" {
		return "", fmt.Errorf("llm: model returned no usable title")
	}
	return title, nil
}

// SanitizeTitle reduces model output to one clean line: first non-empty line,
// quoting and list prefixes stripped, truncated to a tab-sized width.
func SanitizeTitle(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "\"'`")
		if len(line) > 2 && (line[1] == '.' || line[1] == ':' || line[1] == ')') {
			line = strings.TrimSpace(line[2:])
		}
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > titleMaxRunes {
			line = string(runes[:titleMaxRunes])
		}
		return line
	}
	return ""
}
