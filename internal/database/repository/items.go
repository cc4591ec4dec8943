package repository

import (
	"context"
	"database/sql"
	"strings"
)

// ItemRepo handles catalog artifacts.
type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

func (r *ItemRepo) Upsert(ctx context.Context, it Item) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO items(kind, id, name, description, body, path, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(kind, id) DO UPDATE SET
	 name=excluded.name,
	 description=excluded.description,
	 body=excluded.body,
	 path=excluded.path,
	 updated_at=excluded.updated_at;
	`, it.Kind, it.ID, it.Name, it.Description, it.Body, it.Path, it.UpdatedAt)
	return err
}

func (r *ItemRepo) List(ctx context.Context, kind string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, id, name, description, body, path, updated_at FROM items WHERE kind = ? ORDER BY name`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// All returns every artifact regardless of kind, for search.
func (r *ItemRepo) All(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, id, name, description, body, path, updated_at FROM items ORDER BY kind, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// Get returns nil when no row matches.
func (r *ItemRepo) Get(ctx context.Context, kind, id string) (*Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT kind, id, name, description, body, path, updated_at FROM items WHERE kind = ? AND id = ?`, kind, id)
	var it Item
	err := row.Scan(&it.Kind, &it.ID, &it.Name, &it.Description, &it.Body, &it.Path, &it.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// PruneMissing deletes rows of the given kind whose id is not in keep.
// A rescan calls this after upserting everything it found.
func (r *ItemRepo) PruneMissing(ctx context.Context, kind string, keep []string) error {
	if len(keep) == 0 {
		_, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE kind = ?`, kind)
		return err
	}
	args := make([]any, 0, len(keep)+1)
	args = append(args, kind)
	for _, id := range keep {
		args = append(args, id)
	}
	q := `DELETE FROM items WHERE kind = ? AND id NOT IN (?` + strings.Repeat(",?", len(keep)-1) + `)`
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Kind, &it.ID, &it.Name, &it.Description, &it.Body, &it.Path, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
