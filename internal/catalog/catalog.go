// Package catalog indexes the workspace root: skill, command and template
// artifacts plus recorded session transcripts, mirrored into sqlite so the
// browsing surfaces query one place.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jwren/berth/internal/database"
	"github.com/jwren/berth/internal/database/repository"
)

// Service scans the workspace root and serves the mirrored index.
type Service struct {
	DB       *sql.DB
	Root     string
	Items    *repository.ItemRepo
	Projects *repository.ProjectRepo
	Sessions *repository.SessionRepo
}

// ScanStats reports what a rescan found.
type ScanStats struct {
	Skills    int
	Commands  int
	Templates int
	Projects  int
	Sessions  int
}

// Rescan walks the root, upserts everything found and prunes rows whose
// backing file is gone. Partial filesystem failures skip the file, not the
// scan.
func (s *Service) Rescan(ctx context.Context) (ScanStats, error) {
	var stats ScanStats

	skills, err := scanSkills(s.Root)
	if err != nil {
		return stats, fmt.Errorf("scan skills: %w", err)
	}
	commands, err := scanCommands(s.Root)
	if err != nil {
		return stats, fmt.Errorf("scan commands: %w", err)
	}
	templates, err := scanTemplates(s.Root)
	if err != nil {
		return stats, fmt.Errorf("scan templates: %w", err)
	}
	projects, sessions, err := scanProjects(s.Root)
	if err != nil {
		return stats, fmt.Errorf("scan projects: %w", err)
	}

	for kind, items := range map[string][]repository.Item{
		repository.KindSkill:    skills,
		repository.KindCommand:  commands,
		repository.KindTemplate: templates,
	} {
		keep := make([]string, 0, len(items))
		for _, it := range items {
			if err := s.Items.Upsert(ctx, it); err != nil {
				return stats, fmt.Errorf("upsert %s %s: %w", kind, it.ID, err)
			}
			keep = append(keep, it.ID)
		}
		if err := s.Items.PruneMissing(ctx, kind, keep); err != nil {
			return stats, fmt.Errorf("prune %s: %w", kind, err)
		}
	}

	keepProjects := make([]string, 0, len(projects))
	var keepSessions []string
	for _, p := range projects {
		if err := s.Projects.Upsert(ctx, p); err != nil {
			return stats, fmt.Errorf("upsert project %s: %w", p.ID, err)
		}
		keepProjects = append(keepProjects, p.ID)
		for _, sess := range sessions[p.ID] {
			if err := s.Sessions.Upsert(ctx, sess); err != nil {
				return stats, fmt.Errorf("upsert session %s: %w", sess.ID, err)
			}
			keepSessions = append(keepSessions, sess.ID)
			stats.Sessions++
		}
	}
	if err := s.Projects.PruneMissing(ctx, keepProjects); err != nil {
		return stats, fmt.Errorf("prune projects: %w", err)
	}
	if err := s.Sessions.PruneMissing(ctx, keepSessions); err != nil {
		return stats, fmt.Errorf("prune sessions: %w", err)
	}

	stats.Skills = len(skills)
	stats.Commands = len(commands)
	stats.Templates = len(templates)
	stats.Projects = len(projects)
	return stats, nil
}

// Reset wipes the index. The schema stays so a rescan can rebuild in place.
func (s *Service) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("catalog: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"sessions",
			"projects",
			"items",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}

func (s *Service) Skills(ctx context.Context) ([]repository.Item, error) {
	return s.Items.List(ctx, repository.KindSkill)
}

func (s *Service) Commands(ctx context.Context) ([]repository.Item, error) {
	return s.Items.List(ctx, repository.KindCommand)
}

func (s *Service) Templates(ctx context.Context) ([]repository.Item, error) {
	return s.Items.List(ctx, repository.KindTemplate)
}

func (s *Service) ProjectList(ctx context.Context) ([]repository.Project, error) {
	return s.Projects.List(ctx)
}

func (s *Service) SessionsFor(ctx context.Context, projectID string) ([]repository.Session, error) {
	return s.Sessions.ListByProject(ctx, projectID)
}

// Project returns nil when the id is unknown.
func (s *Service) Project(ctx context.Context, id string) (*repository.Project, error) {
	return s.Projects.Get(ctx, id)
}

// Session returns nil when the id is unknown.
func (s *Service) Session(ctx context.Context, id string) (*repository.Session, error) {
	return s.Sessions.Get(ctx, id)
}

// Lookup resolves one artifact by kind and id, nil when absent.
func (s *Service) Lookup(ctx context.Context, kind, id string) (*repository.Item, error) {
	return s.Items.Get(ctx, kind, id)
}

// Transcript loads the displayable turns of a recorded session.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]Message, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("catalog: unknown session %s", sessionID)
	}
	return ReadMessages(sess.Path)
}

// SearchHit pairs an artifact with its match score.
type SearchHit struct {
	Item  repository.Item
	Score float64
}

const searchThreshold = 0.4

// Search ranks artifacts against the query across every kind. Exact and
// substring matches outrank edit-distance ones; weak hits are dropped.
func (s *Service) Search(ctx context.Context, query string) ([]SearchHit, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	items, err := s.Items.All(ctx)
	if err != nil {
		return nil, err
	}
	var hits []SearchHit
	for _, it := range items {
		score := matchScore(query, it)
		if score < searchThreshold {
			continue
		}
		hits = append(hits, SearchHit{Item: it, Score: score})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits, nil
}

func matchScore(query string, it repository.Item) float64 {
	best := 0.0
	for _, field := range []string{it.Name, it.ID, it.Description} {
		if sc := fieldScore(query, field); sc > best {
			best = sc
		}
	}
	return best
}

func fieldScore(query, field string) float64 {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return 0
	}
	if field == query {
		return 1
	}
	if strings.Contains(field, query) {
		return 0.9
	}
	dist := levenshtein.ComputeDistance(query, field)
	return 1 - float64(dist)/float64(max(len(query), len(field)))
}
