package category

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const categoryColumns = `
id, name, COALESCE(description,''), COALESCE(color,''), created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) List(ctx context.Context) ([]Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM equipment_categories ORDER BY name ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM equipment_categories WHERE id = $1`
	return scanCategory(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) Create(ctx context.Context, name, description, color string) (*Category, error) {
	const q = `
INSERT INTO equipment_categories (id, name, description, color)
VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''))
`
	id := uuid.NewString()
	if _, err := r.db.Exec(ctx, q, id, name, description, color); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id, name, description, color string) (*Category, error) {
	const q = `
UPDATE equipment_categories
SET name = $2, description = NULLIF($3,''), color = NULLIF($4,''), updated_at = NOW()
WHERE id = $1
`
	ct, err := r.db.Exec(ctx, q, id, name, description, color)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM equipment_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
