package repository

import (
	"context"
	"database/sql"
	"strings"
)

// SessionRepo handles recorded sessions.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Upsert(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, project_id, title, path, message_count, last_activity)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 project_id=excluded.project_id,
	 title=excluded.title,
	 path=excluded.path,
	 message_count=excluded.message_count,
	 last_activity=excluded.last_activity;
	`, s.ID, s.ProjectID, s.Title, s.Path, s.MessageCount, s.LastActivity)
	return err
}

func (r *SessionRepo) ListByProject(ctx context.Context, projectID string) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, project_id, title, path, message_count, last_activity FROM sessions WHERE project_id = ? ORDER BY last_activity DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Title, &s.Path, &s.MessageCount, &s.LastActivity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PruneMissing deletes sessions not in keep. Project-level cascades cover
// removed projects; this covers transcripts deleted inside surviving ones.
func (r *SessionRepo) PruneMissing(ctx context.Context, keep []string) error {
	if len(keep) == 0 {
		_, err := r.db.ExecContext(ctx, `DELETE FROM sessions`)
		return err
	}
	args := make([]any, 0, len(keep))
	for _, id := range keep {
		args = append(args, id)
	}
	q := `DELETE FROM sessions WHERE id NOT IN (?` + strings.Repeat(",?", len(keep)-1) + `)`
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// Get returns nil when no row matches.
func (r *SessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, project_id, title, path, message_count, last_activity FROM sessions WHERE id = ?`, id)
	var s Session
	err := row.Scan(&s.ID, &s.ProjectID, &s.Title, &s.Path, &s.MessageCount, &s.LastActivity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
