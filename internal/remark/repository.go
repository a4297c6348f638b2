package remark

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Type string

const (
	TypeDamage       Type = "damage"
	TypeMalfunction  Type = "malfunction"
	TypeDecommission Type = "decommission"
	TypeGeneral      Type = "general"
	TypeIssue        Type = "issue"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeDamage, TypeMalfunction, TypeDecommission, TypeGeneral, TypeIssue:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown remark type: %s", s)
	}
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Remark struct {
	ID             string     `json:"id"`
	EquipmentID    string     `json:"equipmentId"`
	EquipmentName  string     `json:"equipmentName,omitempty"`
	Type           Type       `json:"remarkType"`
	Description    string     `json:"description"`
	Severity       *Severity  `json:"severity,omitempty"`
	ReportedBy     *string    `json:"reportedBy,omitempty"`
	ReportedByName string     `json:"reportedByName,omitempty"`
	Resolved       bool       `json:"resolved"`
	ResolvedBy     *string    `json:"resolvedBy,omitempty"`
	ResolvedByName string     `json:"resolvedByName,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

const remarkColumns = `
r.id, r.equipment_id, e.name, r.remark_type, r.description, r.severity,
r.reported_by, COALESCE(u1.full_name,''), r.resolved, r.resolved_by,
COALESCE(u2.full_name,''), r.resolved_at, r.created_at`

const remarkFrom = `
FROM equipment_remarks r
JOIN equipment e ON r.equipment_id = e.id
LEFT JOIN users u1 ON r.reported_by = u1.id
LEFT JOIN users u2 ON r.resolved_by = u2.id`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanRemark(row pgx.Row) (*Remark, error) {
	var rm Remark
	if err := row.Scan(
		&rm.ID, &rm.EquipmentID, &rm.EquipmentName, &rm.Type, &rm.Description, &rm.Severity,
		&rm.ReportedBy, &rm.ReportedByName, &rm.Resolved, &rm.ResolvedBy,
		&rm.ResolvedByName, &rm.ResolvedAt, &rm.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rm, nil
}

type ListFilter struct {
	EquipmentID string
	Type        string
	Resolved    *bool
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Remark, error) {
	q := `SELECT ` + remarkColumns + remarkFrom + ` WHERE 1=1`
	var args []any

	if f.EquipmentID != "" {
		args = append(args, f.EquipmentID)
		q += ` AND r.equipment_id = $` + strconv.Itoa(len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		q += ` AND r.remark_type = $` + strconv.Itoa(len(args))
	}
	if f.Resolved != nil {
		args = append(args, *f.Resolved)
		q += ` AND r.resolved = $` + strconv.Itoa(len(args))
	}
	q += ` ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Remark
	for rows.Next() {
		rm, err := scanRemark(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rm)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Remark, error) {
	q := `SELECT ` + remarkColumns + remarkFrom + ` WHERE r.id = $1`
	return scanRemark(r.db.QueryRow(ctx, q, id))
}

type CreateParams struct {
	EquipmentID string
	Type        Type
	Description string
	Severity    *Severity
	ReportedBy  string
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (*Remark, error) {
	const q = `
INSERT INTO equipment_remarks (id, equipment_id, remark_type, description, severity, reported_by)
VALUES ($1, $2, $3, $4, $5, $6)
`
	id := uuid.NewString()
	var sev *string
	if p.Severity != nil {
		s := string(*p.Severity)
		sev = &s
	}
	if _, err := r.db.Exec(ctx, q, id, p.EquipmentID, string(p.Type), p.Description, sev, p.ReportedBy); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Resolve(ctx context.Context, id, resolvedBy string) (*Remark, error) {
	const q = `
UPDATE equipment_remarks
SET resolved = TRUE, resolved_by = $2, resolved_at = NOW()
WHERE id = $1
`
	ct, err := r.db.Exec(ctx, q, id, resolvedBy)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM equipment_remarks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
