package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwren/berth/internal/database/repository"
)

// frontmatter is the YAML header carried by artifact markdown files.
type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// splitFrontmatter separates the YAML header from the markdown body. Files
// without a header are all body.
func splitFrontmatter(data []byte) (meta, body []byte) {
	const marker = "---"
	trimmed := bytes.TrimLeft(data, "\ufeff\n\r\t ")
	if !bytes.HasPrefix(trimmed, []byte(marker)) {
		return nil, data
	}
	rest := trimmed[len(marker):]
	if len(rest) > 0 && rest[0] == '\r' {
		rest = rest[1:]
	}
	if len(rest) == 0 || rest[0] != '\n' {
		return nil, data
	}
	rest = rest[1:]
	end := bytes.Index(rest, []byte("\n"+marker))
	if end < 0 {
		return nil, data
	}
	meta = rest[:end]
	body = rest[end+len(marker)+1:]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return meta, body
}

func parseArtifact(path, kind, id string) (repository.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return repository.Item{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return repository.Item{}, err
	}

	meta, body := splitFrontmatter(data)
	var fm frontmatter
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return repository.Item{}, fmt.Errorf("frontmatter %s: %w", path, err)
		}
	}
	name := fm.Name
	if name == "" {
		name = id
	}
	return repository.Item{
		Kind:        kind,
		ID:          id,
		Name:        name,
		Description: fm.Description,
		Body:        strings.TrimSpace(string(body)),
		Path:        path,
		UpdatedAt:   info.ModTime().UTC(),
	}, nil
}

// scanSkills finds <root>/skills/<dir>/SKILL.md; the directory name is the id.
func scanSkills(root string) ([]repository.Item, error) {
	dir := filepath.Join(root, "skills")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []repository.Item
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name(), "SKILL.md")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		it, err := parseArtifact(path, repository.KindSkill, e.Name())
		if err != nil {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// scanCommands walks <root>/commands for markdown files. Nested paths become
// namespaced ids: git/commit.md -> git:commit.
func scanCommands(root string) ([]repository.Item, error) {
	dir := filepath.Join(root, "commands")
	var out []repository.Item
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(rel, ".md")
		id = strings.ReplaceAll(id, string(filepath.Separator), ":")
		it, perr := parseArtifact(path, repository.KindCommand, id)
		if perr != nil {
			return nil
		}
		out = append(out, it)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return out, nil
}

// scanTemplates finds <root>/templates/*.md.
func scanTemplates(root string) ([]repository.Item, error) {
	dir := filepath.Join(root, "templates")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []repository.Item
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".md")
		it, err := parseArtifact(filepath.Join(dir, e.Name()), repository.KindTemplate, id)
		if err != nil {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
