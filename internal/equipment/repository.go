package equipment

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const equipmentColumns = `
e.id, e.name, e.category_id, COALESCE(c.name,''), COALESCE(e.location,''),
COALESCE(e.model_number,''), COALESCE(e.serial_number,''), e.purchase_year,
e.purchase_cost::text, e.status, COALESCE(e.operating_notes,''), e.is_bookable,
e.requires_approval, e.created_by, e.created_at, e.updated_at`

const equipmentFrom = `
FROM equipment e
LEFT JOIN equipment_categories c ON e.category_id = c.id`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type ListFilter struct {
	CategoryID string
	Status     string
	Search     string
}

func scanEquipment(row pgx.Row) (*Equipment, error) {
	var e Equipment
	if err := row.Scan(
		&e.ID, &e.Name, &e.CategoryID, &e.CategoryName, &e.Location,
		&e.ModelNumber, &e.SerialNumber, &e.PurchaseYear, &e.PurchaseCost,
		&e.Status, &e.OperatingNotes, &e.IsBookable, &e.RequiresApproval,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Equipment, error) {
	q := `SELECT ` + equipmentColumns + equipmentFrom + ` WHERE 1=1`
	var args []any

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		q += ` AND e.category_id = $` + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND e.status = $` + strconv.Itoa(len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		q += ` AND (e.name ILIKE $` + n + ` OR e.model_number ILIKE $` + n + ` OR e.serial_number ILIKE $` + n + `)`
	}
	q += ` ORDER BY e.created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Equipment, error) {
	q := `SELECT ` + equipmentColumns + equipmentFrom + ` WHERE e.id = $1`
	return scanEquipment(r.db.QueryRow(ctx, q, id))
}

type CreateParams struct {
	Name             string
	CategoryID       *string
	Location         string
	ModelNumber      string
	SerialNumber     string
	PurchaseYear     *int
	PurchaseCost     *decimal.Decimal
	Status           Status
	OperatingNotes   string
	IsBookable       bool
	RequiresApproval bool
	CreatedBy        string
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (*Equipment, error) {
	const q = `
INSERT INTO equipment (
  id, name, category_id, location, model_number, serial_number,
  purchase_year, purchase_cost, status, operating_notes,
  is_bookable, requires_approval, created_by
)
VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), $7, $8, $9, NULLIF($10,''), $11, $12, $13)
RETURNING id
`
	id := uuid.NewString()
	if _, err := r.db.Exec(ctx, q,
		id, p.Name, p.CategoryID, p.Location, p.ModelNumber, p.SerialNumber,
		p.PurchaseYear, p.PurchaseCost, string(p.Status), p.OperatingNotes,
		p.IsBookable, p.RequiresApproval, p.CreatedBy,
	); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id string, p CreateParams) (*Equipment, error) {
	const q = `
UPDATE equipment
SET name = $2, category_id = $3, location = NULLIF($4,''), model_number = NULLIF($5,''),
    serial_number = NULLIF($6,''), purchase_year = $7, purchase_cost = $8, status = $9,
    operating_notes = NULLIF($10,''), is_bookable = $11, requires_approval = $12,
    updated_at = NOW()
WHERE id = $1
`
	ct, err := r.db.Exec(ctx, q,
		id, p.Name, p.CategoryID, p.Location, p.ModelNumber, p.SerialNumber,
		p.PurchaseYear, p.PurchaseCost, string(p.Status), p.OperatingNotes,
		p.IsBookable, p.RequiresApproval,
	)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

// ActiveBookingCount guards deletion: equipment with pending or confirmed
// bookings cannot be removed. Callers must hold the equipment row lock
// (GetForBooking) in the same transaction so a booking cannot land between
// the count and the delete.
func ActiveBookingCount(ctx context.Context, tx pgx.Tx, id string) (int, error) {
	const q = `
SELECT COUNT(*) FROM bookings
WHERE equipment_id = $1 AND status IN ('pending', 'confirmed')
`
	var n int
	if err := tx.QueryRow(ctx, q, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func Delete(ctx context.Context, tx pgx.Tx, id string) error {
	ct, err := tx.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetForBooking locks the equipment row for the duration of the transaction.
// Serializing on this row is what closes the check-then-insert window between
// two concurrent booking requests for the same equipment.
func GetForBooking(ctx context.Context, tx pgx.Tx, id string) (*BookingInfo, error) {
	const q = `
SELECT id, status, is_bookable, requires_approval
FROM equipment
WHERE id = $1
FOR UPDATE
`
	var info BookingInfo
	if err := tx.QueryRow(ctx, q, id).Scan(&info.ID, &info.Status, &info.IsBookable, &info.RequiresApproval); err != nil {
		return nil, err
	}
	return &info, nil
}
