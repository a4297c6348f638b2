package maintenance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeRoutine     Type = "routine"
	TypeRepair      Type = "repair"
	TypeCalibration Type = "calibration"
	TypeInspection  Type = "inspection"
	TypeOther       Type = "other"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeRoutine, TypeRepair, TypeCalibration, TypeInspection, TypeOther:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown maintenance type: %s", s)
	}
}

type Record struct {
	ID                  string     `json:"id"`
	EquipmentID         string     `json:"equipmentId"`
	EquipmentName       string     `json:"equipmentName,omitempty"`
	Type                Type       `json:"maintenanceType"`
	Description         string     `json:"description"`
	PerformedBy         *string    `json:"performedBy,omitempty"`
	PerformedByName     string     `json:"performedByName,omitempty"`
	PerformedDate       time.Time  `json:"performedDate"`
	Cost                *string    `json:"cost,omitempty"`
	NextMaintenanceDate *time.Time `json:"nextMaintenanceDate,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

const recordColumns = `
m.id, m.equipment_id, e.name, m.maintenance_type, m.description,
m.performed_by, COALESCE(u.full_name,''), m.performed_date, m.cost::text,
m.next_maintenance_date, COALESCE(m.notes,''), m.created_at`

const recordFrom = `
FROM maintenance_history m
JOIN equipment e ON m.equipment_id = e.id
LEFT JOIN users u ON m.performed_by = u.id`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	if err := row.Scan(
		&rec.ID, &rec.EquipmentID, &rec.EquipmentName, &rec.Type, &rec.Description,
		&rec.PerformedBy, &rec.PerformedByName, &rec.PerformedDate, &rec.Cost,
		&rec.NextMaintenanceDate, &rec.Notes, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

type ListFilter struct {
	EquipmentID string
	Type        string
	RangeStart  *time.Time
	RangeEnd    *time.Time
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Record, error) {
	q := `SELECT ` + recordColumns + recordFrom + ` WHERE 1=1`
	var args []any

	if f.EquipmentID != "" {
		args = append(args, f.EquipmentID)
		q += ` AND m.equipment_id = $` + strconv.Itoa(len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		q += ` AND m.maintenance_type = $` + strconv.Itoa(len(args))
	}
	if f.RangeStart != nil {
		args = append(args, *f.RangeStart)
		q += ` AND m.performed_date >= $` + strconv.Itoa(len(args))
	}
	if f.RangeEnd != nil {
		args = append(args, *f.RangeEnd)
		q += ` AND m.performed_date <= $` + strconv.Itoa(len(args))
	}
	q += ` ORDER BY m.performed_date DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Record, error) {
	q := `SELECT ` + recordColumns + recordFrom + ` WHERE m.id = $1`
	return scanRecord(r.db.QueryRow(ctx, q, id))
}

type CreateParams struct {
	EquipmentID         string
	Type                Type
	Description         string
	PerformedBy         string
	PerformedDate       time.Time
	Cost                *decimal.Decimal
	NextMaintenanceDate *time.Time
	Notes               string
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (*Record, error) {
	const q = `
INSERT INTO maintenance_history (
  id, equipment_id, maintenance_type, description, performed_by,
  performed_date, cost, next_maintenance_date, notes
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9,''))
`
	id := uuid.NewString()
	if _, err := r.db.Exec(ctx, q,
		id, p.EquipmentID, string(p.Type), p.Description, p.PerformedBy,
		p.PerformedDate, p.Cost, p.NextMaintenanceDate, p.Notes,
	); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id string, p CreateParams) (*Record, error) {
	const q = `
UPDATE maintenance_history
SET maintenance_type = $2, description = $3, performed_date = $4,
    cost = $5, next_maintenance_date = $6, notes = NULLIF($7,'')
WHERE id = $1
`
	ct, err := r.db.Exec(ctx, q, id, string(p.Type), p.Description, p.PerformedDate, p.Cost, p.NextMaintenanceDate, p.Notes)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM maintenance_history WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
