package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `
b.id, b.equipment_id, b.user_id, b.start_time, b.end_time, b.status,
COALESCE(b.purpose,''), COALESCE(b.admin_notes,''), b.approved_by, b.approved_at,
b.cancelled_at, COALESCE(b.cancellation_reason,''), b.created_at, b.updated_at,
e.name, COALESCE(e.location,''), u.full_name, u.email, COALESCE(a.full_name,'')`

const bookingFrom = `
FROM bookings b
JOIN equipment e ON b.equipment_id = e.id
JOIN users u ON b.user_id = u.id
LEFT JOIN users a ON b.approved_by = a.id`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.EquipmentID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status,
		&b.Purpose, &b.AdminNotes, &b.ApprovedBy, &b.ApprovedAt,
		&b.CancelledAt, &b.CancellationReason, &b.CreatedAt, &b.UpdatedAt,
		&b.EquipmentName, &b.EquipmentLocation, &b.UserName, &b.UserEmail, &b.ApprovedByName,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

type ListFilter struct {
	EquipmentID string
	UserID      string
	Status      string
	RangeStart  *time.Time
	RangeEnd    *time.Time
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + bookingFrom + ` WHERE 1=1`
	var args []any

	if f.EquipmentID != "" {
		args = append(args, f.EquipmentID)
		q += ` AND b.equipment_id = $` + strconv.Itoa(len(args))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		q += ` AND b.user_id = $` + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND b.status = $` + strconv.Itoa(len(args))
	} else {
		// Cancelled bookings drop out of the default listing; they stay
		// reachable by asking for status=cancelled explicitly.
		q += ` AND b.status != 'cancelled'`
	}
	if f.RangeStart != nil {
		args = append(args, *f.RangeStart)
		q += ` AND b.end_time >= $` + strconv.Itoa(len(args))
	}
	if f.RangeEnd != nil {
		args = append(args, *f.RangeEnd)
		q += ` AND b.start_time <= $` + strconv.Itoa(len(args))
	}
	q += ` ORDER BY b.start_time ASC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	q := `SELECT ` + bookingColumns + bookingFrom + ` WHERE b.id = $1`
	return scanBooking(r.db.QueryRow(ctx, q, id))
}

// Availability returns confirmed bookings for the equipment whose interval
// intersects [rangeStart, rangeEnd), same half-open rule as the conflict
// check.
func (r *Repository) Availability(ctx context.Context, equipmentID string, rangeStart, rangeEnd time.Time) ([]Slot, error) {
	const q = `
SELECT id, start_time, end_time, status, COALESCE(purpose,'')
FROM bookings
WHERE equipment_id = $1
  AND status = 'confirmed'
  AND start_time < $3
  AND end_time > $2
ORDER BY start_time ASC
`
	rows, err := r.db.Query(ctx, q, equipmentID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.StartTime, &s.EndTime, &s.Status, &s.Purpose); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// HasConflict reports whether [start, end) intersects any pending or confirmed
// booking for the equipment. excludeID skips the booking being edited so it
// does not conflict with itself. Callers must hold the equipment row lock
// (equipment.GetForBooking) in the same transaction.
func HasConflict(ctx context.Context, tx pgx.Tx, equipmentID string, start, end time.Time, excludeID string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM bookings
  WHERE equipment_id = $1
    AND ($2::uuid IS NULL OR id <> $2::uuid)
    AND status IN ('pending', 'confirmed')
    AND start_time < $4
    AND end_time > $3
)
`
	var exclude any
	if excludeID != "" {
		exclude = excludeID
	}
	var exists bool
	if err := tx.QueryRow(ctx, q, equipmentID, exclude, start, end).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetForUpdate locks the booking row for a status transition or edit.
func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Booking, error) {
	const q = `
SELECT id, equipment_id, user_id, start_time, end_time, status,
       COALESCE(purpose,''), COALESCE(admin_notes,''), approved_by, approved_at,
       cancelled_at, COALESCE(cancellation_reason,''), created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE
`
	var b Booking
	if err := tx.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.EquipmentID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status,
		&b.Purpose, &b.AdminNotes, &b.ApprovedBy, &b.ApprovedAt,
		&b.CancelledAt, &b.CancellationReason, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func Insert(ctx context.Context, tx pgx.Tx, equipmentID, userID string, start, end time.Time, purpose string, status Status) (string, error) {
	const q = `
INSERT INTO bookings (id, equipment_id, user_id, start_time, end_time, purpose, status)
VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), $7)
`
	id := uuid.NewString()
	if _, err := tx.Exec(ctx, q, id, equipmentID, userID, start, end, purpose, string(status)); err != nil {
		return "", err
	}
	return id, nil
}

// SetDecision applies an admin confirm/reject, stamping the approver.
func SetDecision(ctx context.Context, tx pgx.Tx, id string, status Status, approvedBy, adminNotes string) error {
	const q = `
UPDATE bookings
SET status = $2, approved_by = $3, approved_at = NOW(),
    admin_notes = COALESCE(NULLIF($4,''), admin_notes), updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, string(status), approvedBy, adminNotes)
	return err
}

func SetCompleted(ctx context.Context, tx pgx.Tx, id, adminNotes string) error {
	const q = `
UPDATE bookings
SET status = 'completed', admin_notes = COALESCE(NULLIF($2,''), admin_notes), updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, adminNotes)
	return err
}

func SetCancelled(ctx context.Context, tx pgx.Tx, id, reason string) error {
	const q = `
UPDATE bookings
SET status = 'cancelled', cancelled_at = NOW(),
    cancellation_reason = NULLIF($2,''), updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, reason)
	return err
}

func UpdateInterval(ctx context.Context, tx pgx.Tx, id string, start, end time.Time, purpose *string) error {
	const q = `
UPDATE bookings
SET start_time = $2, end_time = $3,
    purpose = CASE WHEN $4::text IS NULL THEN purpose ELSE NULLIF($4,'') END,
    updated_at = NOW()
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, id, start, end, purpose)
	return err
}
