package catalog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwren/berth/internal/database/repository"
)

// Message is one turn of a recorded session transcript.
type Message struct {
	Role string
	Text string
	At   time.Time
}

// transcriptLine mirrors the subset of the session log format berth reads.
// Each line is a standalone JSON object; content is either a plain string or
// a list of typed blocks.
type transcriptLine struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	CWD       string `json:"cwd"`
	Timestamp string `json:"timestamp"`
	Summary   string `json:"summary"`
	Message   struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// contentText flattens a content field to displayable text. Non-text blocks
// (tool calls, images) are skipped.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// sessionScan is the per-file summary extracted while indexing.
type sessionScan struct {
	ID           string
	Title        string
	Path         string
	CWD          string
	MessageCount int
	LastActivity time.Time
}

// scanSessionFile reads one transcript and pulls out the fields the index
// stores. Malformed lines are skipped rather than failing the file.
func scanSessionFile(path string) (sessionScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return sessionScan{}, err
	}
	defer f.Close()

	out := sessionScan{
		ID:   strings.TrimSuffix(filepath.Base(path), ".jsonl"),
		Path: path,
	}
	var firstUser string

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var tl transcriptLine
		if err := json.Unmarshal(line, &tl); err != nil {
			continue
		}
		if tl.CWD != "" && out.CWD == "" {
			out.CWD = tl.CWD
		}
		switch tl.Type {
		case "summary":
			if tl.Summary != "" {
				out.Title = tl.Summary
			}
		case "user":
			out.MessageCount++
			if firstUser == "" {
				if txt := contentText(tl.Message.Content); txt != "" {
					firstUser = txt
				}
			}
		case "assistant":
			out.MessageCount++
		default:
			continue
		}
		if ts, err := time.Parse(time.RFC3339, tl.Timestamp); err == nil && ts.After(out.LastActivity) {
			out.LastActivity = ts
		}
	}
	if err := sc.Err(); err != nil {
		return sessionScan{}, err
	}

	if out.Title == "" {
		out.Title = firstLine(firstUser, 80)
	}
	if out.Title == "" {
		out.Title = out.ID
	}
	if out.LastActivity.IsZero() {
		if info, err := os.Stat(path); err == nil {
			out.LastActivity = info.ModTime().UTC()
		}
	}
	return out, nil
}

// scanProjects walks <root>/projects/<flattened-dir>/<session>.jsonl and
// returns the recorded projects with their sessions. The project display name
// comes from the first cwd seen inside its transcripts, falling back to the
// flattened directory name.
func scanProjects(root string) ([]repository.Project, map[string][]repository.Session, error) {
	dir := filepath.Join(root, "projects")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var projects []repository.Project
	sessions := make(map[string][]repository.Session)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		projDir := filepath.Join(dir, e.Name())
		files, err := os.ReadDir(projDir)
		if err != nil {
			continue
		}
		proj := repository.Project{ID: e.Name()}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".jsonl") {
				continue
			}
			scan, err := scanSessionFile(filepath.Join(projDir, f.Name()))
			if err != nil {
				continue
			}
			if proj.Path == "" && scan.CWD != "" {
				proj.Path = scan.CWD
				proj.Name = filepath.Base(scan.CWD)
			}
			if scan.LastActivity.After(proj.LastActivity) {
				proj.LastActivity = scan.LastActivity
			}
			proj.SessionCount++
			sessions[proj.ID] = append(sessions[proj.ID], repository.Session{
				ID:           scan.ID,
				ProjectID:    proj.ID,
				Title:        scan.Title,
				Path:         scan.Path,
				MessageCount: scan.MessageCount,
				LastActivity: scan.LastActivity,
			})
		}
		if proj.SessionCount == 0 {
			continue
		}
		if proj.Name == "" {
			proj.Name = e.Name()
		}
		projects = append(projects, proj)
	}
	return projects, sessions, nil
}

// ReadMessages loads the displayable turns of a transcript in file order.
func ReadMessages(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Message
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var tl transcriptLine
		if err := json.Unmarshal(line, &tl); err != nil {
			continue
		}
		if tl.Type != "user" && tl.Type != "assistant" {
			continue
		}
		txt := contentText(tl.Message.Content)
		if txt == "" {
			continue
		}
		at, _ := time.Parse(time.RFC3339, tl.Timestamp)
		out = append(out, Message{Role: tl.Type, Text: txt, At: at})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PreviewMessages trims a long transcript to its head and tail. The second
// return is how many middle turns were dropped; zero means the transcript fit.
func PreviewMessages(msgs []Message, head, tail int) ([]Message, int) {
	if len(msgs) <= head+tail {
		return msgs, 0
	}
	omitted := len(msgs) - head - tail
	out := make([]Message, 0, head+tail)
	out = append(out, msgs[:head]...)
	out = append(out, msgs[len(msgs)-tail:]...)
	return out, omitted
}

func firstLine(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > max {
		s = s[:max]
	}
	return strings.TrimSpace(s)
}
