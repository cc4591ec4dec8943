// Package testdata scaffolds a sample workspace root on disk: artifact
// markdown plus recorded session transcripts in the on-disk layout the
// catalog scanner expects.
package testdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tree lists what Scaffold wrote, keyed the way the catalog indexes it.
type Tree struct {
	SkillIDs    []string
	CommandIDs  []string
	TemplateIDs []string
	ProjectIDs  []string
	SessionIDs  []string
}

// Scaffold writes a small sample workspace under root.
func Scaffold(root string) (Tree, error) {
	var tree Tree

	skills := map[string]string{
		"code-review": artifact("code-review", "Review diffs for correctness", "Walk the diff hunk by hunk.\nFlag missing tests."),
		"refactor":    artifact("refactor", "Restructure without behavior change", "Identify seams first."),
	}
	for id, body := range skills {
		path := filepath.Join(root, "skills", id, "SKILL.md")
		if err := writeFile(path, body); err != nil {
			return tree, err
		}
		tree.SkillIDs = append(tree.SkillIDs, id)
	}

	commands := map[string]string{
		"fmt":        artifact("fmt", "Format the tree", "Run the formatter over staged files."),
		"git/commit": artifact("commit", "Commit staged work", "Write a one-line subject."),
	}
	for rel, body := range commands {
		path := filepath.Join(root, "commands", filepath.FromSlash(rel)+".md")
		if err := writeFile(path, body); err != nil {
			return tree, err
		}
		tree.CommandIDs = append(tree.CommandIDs, strings.ReplaceAll(rel, "/", ":"))
	}

	if err := writeFile(filepath.Join(root, "templates", "standup.md"), artifact("standup", "Daily standup notes", "Yesterday / Today / Blockers.")); err != nil {
		return tree, err
	}
	tree.TemplateIDs = append(tree.TemplateIDs, "standup")

	now := time.Now().UTC()
	for i, cwd := range []string{"/home/dev/acme", "/home/dev/beta"} {
		projID := "-" + strings.ReplaceAll(strings.TrimPrefix(cwd, "/"), "/", "-")
		sessID := uuid.NewString()
		lines := transcript(sessID, cwd, now.Add(-time.Duration(i)*time.Hour))
		path := filepath.Join(root, "projects", projID, sessID+".jsonl")
		if err := writeFile(path, lines); err != nil {
			return tree, err
		}
		tree.ProjectIDs = append(tree.ProjectIDs, projID)
		tree.SessionIDs = append(tree.SessionIDs, sessID)
	}
	return tree, nil
}

func artifact(name, description, body string) string {
	return fmt.Sprintf("---\nname: %s\ndescription: %s\n---\n%s\n", name, description, body)
}

// transcript renders a short session log: a summary line, one user turn and
// one assistant turn.
func transcript(sessionID, cwd string, at time.Time) string {
	type msg struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}
	type line struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId,omitempty"`
		CWD       string `json:"cwd,omitempty"`
		Timestamp string `json:"timestamp,omitempty"`
		Summary   string `json:"summary,omitempty"`
		Message   *msg   `json:"message,omitempty"`
	}
	lines := []line{
		{Type: "summary", Summary: "Wire up the importer"},
		{
			Type:      "user",
			SessionID: sessionID,
			CWD:       cwd,
			Timestamp: at.Format(time.RFC3339),
			Message:   &msg{Role: "user", Content: "Add the CSV importer"},
		},
		{
			Type:      "assistant",
			SessionID: sessionID,
			CWD:       cwd,
			Timestamp: at.Add(time.Minute).Format(time.RFC3339),
			Message: &msg{Role: "assistant", Content: []map[string]string{
				{"type": "text", "text": "Importer added with tests."},
			}},
		},
	}
	var b strings.Builder
	for _, l := range lines {
		data, _ := json.Marshal(l)
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
