package repository

import (
	"context"
	"database/sql"
	"strings"
)

// ProjectRepo handles recorded projects.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Upsert(ctx context.Context, p Project) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO projects(id, name, path, session_count, last_activity)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 path=excluded.path,
	 session_count=excluded.session_count,
	 last_activity=excluded.last_activity;
	`, p.ID, p.Name, p.Path, p.SessionCount, p.LastActivity)
	return err
}

func (r *ProjectRepo) List(ctx context.Context) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, path, session_count, last_activity FROM projects ORDER BY last_activity DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Path, &p.SessionCount, &p.LastActivity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns nil when no row matches.
func (r *ProjectRepo) Get(ctx context.Context, id string) (*Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, path, session_count, last_activity FROM projects WHERE id = ?`, id)
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Path, &p.SessionCount, &p.LastActivity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PruneMissing deletes projects not in keep; sessions cascade.
func (r *ProjectRepo) PruneMissing(ctx context.Context, keep []string) error {
	if len(keep) == 0 {
		_, err := r.db.ExecContext(ctx, `DELETE FROM projects`)
		return err
	}
	args := make([]any, 0, len(keep))
	for _, id := range keep {
		args = append(args, id)
	}
	q := `DELETE FROM projects WHERE id NOT IN (?` + strings.Repeat(",?", len(keep)-1) + `)`
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}
