package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labkit/internal/api"
)

const userColumns = `
id, email, full_name, role, approval_status, approved_by, approved_at,
COALESCE(department,''), COALESCE(phone,''), is_active, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.Role, &u.ApprovalStatus, &u.ApprovedBy, &u.ApprovedAt,
		&u.Department, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindIdentity implements api.IdentityLoader. Unapproved or deactivated
// accounts do not resolve to an identity.
func (r *Repository) FindIdentity(ctx context.Context, userID string) (*api.Identity, error) {
	const q = `
SELECT id, email, full_name, role
FROM users
WHERE id = $1 AND approval_status = 'approved' AND is_active
`
	var id api.Identity
	if err := r.db.QueryRow(ctx, q, userID).Scan(&id.ID, &id.Email, &id.FullName, &id.Role); err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *Repository) GetByID(ctx context.Context, userID string) (*User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, q, userID))
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	return r.queryUsers(ctx, q)
}

func (r *Repository) ListPending(ctx context.Context) ([]User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE approval_status = 'pending' ORDER BY created_at DESC`
	return r.queryUsers(ctx, q)
}

func (r *Repository) queryUsers(ctx context.Context, q string, args ...any) ([]User, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// GetForUpdate locks the user row for the duration of the transaction so
// approval decisions do not race.
func GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(tx.QueryRow(ctx, q, userID))
}

func SetApproval(ctx context.Context, tx pgx.Tx, userID string, status ApprovalStatus, approvedBy *string) (*User, error) {
	var q string
	switch status {
	case ApprovalApproved:
		q = `
UPDATE users
SET approval_status = 'approved', approved_by = $2, approved_at = NOW(), updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns
	case ApprovalRejected:
		q = `
UPDATE users
SET approval_status = 'rejected', updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns
	default:
		return nil, fmt.Errorf("unsupported approval status: %s", status)
	}
	if status == ApprovalApproved {
		return scanUser(tx.QueryRow(ctx, q, userID, approvedBy))
	}
	return scanUser(tx.QueryRow(ctx, q, userID))
}

func SetRole(ctx context.Context, tx pgx.Tx, userID string, role Role) (*User, error) {
	q := `
UPDATE users
SET role = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns
	return scanUser(tx.QueryRow(ctx, q, userID, string(role)))
}

func SetActive(ctx context.Context, tx pgx.Tx, userID string, active bool) (*User, error) {
	q := `
UPDATE users
SET is_active = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns
	return scanUser(tx.QueryRow(ctx, q, userID, active))
}
