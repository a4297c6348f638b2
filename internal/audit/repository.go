package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ID        string          `json:"id"`
	ActorID   string          `json:"actorId"`
	SubjectID *string         `json:"subjectId,omitempty"`
	Action    string          `json:"action"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert records an action inside the caller's transaction so the audit row
// commits or rolls back with the state change it describes.
func Insert(ctx context.Context, tx pgx.Tx, actorID string, subjectID *string, action string, metadata any) error {
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (actor_id, subject_id, action, metadata)
VALUES ($1, $2, $3, CAST($4 AS jsonb))
`
	_, err := tx.Exec(ctx, q, actorID, subjectID, action, s)
	return err
}

func (r *Repository) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `
SELECT id, actor_id, subject_id, action, COALESCE(metadata, 'null'::jsonb), created_at
FROM audit_logs
ORDER BY created_at DESC
LIMIT $1
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.SubjectID, &e.Action, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
