//go:build integration

package booking

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labkit/pkg/db"
)

// These tests need a migrated Postgres. Run with:
//
//	TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/booking/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	_, err := pool.Exec(ctx, `
INSERT INTO users (id, email, full_name, approval_status)
VALUES ($1, $2, 'Test User', 'approved')`, id, id+"@test.local")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func seedEquipment(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	_, err := pool.Exec(ctx, `
INSERT INTO equipment (id, name) VALUES ($1, 'Test Rig')`, id)
	if err != nil {
		t.Fatalf("seed equipment: %v", err)
	}
	t.Cleanup(func() {
		// Bookings cascade with the equipment row.
		_, _ = pool.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	})
	return id
}

func seedBooking(t *testing.T, pool *pgxpool.Pool, equipmentID, userID string, start, end time.Time, status Status) string {
	t.Helper()
	var id string
	err := db.WithTx(context.Background(), pool, func(tx pgx.Tx) error {
		var err error
		id, err = Insert(context.Background(), tx, equipmentID, userID, start, end, "", status)
		return err
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return id
}

func checkConflict(t *testing.T, pool *pgxpool.Pool, equipmentID string, start, end time.Time, excludeID string) bool {
	t.Helper()
	var conflict bool
	err := db.WithTx(context.Background(), pool, func(tx pgx.Tx) error {
		var err error
		conflict, err = HasConflict(context.Background(), tx, equipmentID, start, end, excludeID)
		return err
	})
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}
	return conflict
}

func TestHasConflictStatusSet(t *testing.T) {
	pool := testPool(t)
	userID := seedUser(t, pool)

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	start, end := base, base.Add(2*time.Hour)

	cases := []struct {
		name   string
		status Status
		want   bool
	}{
		{"pending blocks", StatusPending, true},
		{"confirmed blocks", StatusConfirmed, true},
		{"cancelled does not block", StatusCancelled, false},
		{"rejected does not block", StatusRejected, false},
		{"completed does not block", StatusCompleted, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			equipmentID := seedEquipment(t, pool)
			seedBooking(t, pool, equipmentID, userID, start, end, tc.status)
			if got := checkConflict(t, pool, equipmentID, start.Add(time.Hour), end.Add(time.Hour), ""); got != tc.want {
				t.Fatalf("status %s: conflict = %v, want %v", tc.status, got, tc.want)
			}
		})
	}
}

func TestHasConflictCrossEquipment(t *testing.T) {
	pool := testPool(t)
	userID := seedUser(t, pool)
	busy := seedEquipment(t, pool)
	free := seedEquipment(t, pool)

	start := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	seedBooking(t, pool, busy, userID, start, end, StatusConfirmed)

	if !checkConflict(t, pool, busy, start, end, "") {
		t.Fatal("expected a conflict on the booked equipment")
	}
	if checkConflict(t, pool, free, start, end, "") {
		t.Fatal("booking on one equipment must not block another")
	}
}

func TestHasConflictAdjacentSlots(t *testing.T) {
	pool := testPool(t)
	userID := seedUser(t, pool)
	equipmentID := seedEquipment(t, pool)

	start := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	seedBooking(t, pool, equipmentID, userID, start, end, StatusConfirmed)

	if checkConflict(t, pool, equipmentID, end, end.Add(time.Hour), "") {
		t.Fatal("slot starting at the previous end must not conflict")
	}
	if checkConflict(t, pool, equipmentID, start.Add(-time.Hour), start, "") {
		t.Fatal("slot ending at the next start must not conflict")
	}
}

func TestHasConflictExcludesSelf(t *testing.T) {
	pool := testPool(t)
	userID := seedUser(t, pool)
	equipmentID := seedEquipment(t, pool)

	start := time.Date(2026, 9, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	id := seedBooking(t, pool, equipmentID, userID, start, end, StatusConfirmed)

	if checkConflict(t, pool, equipmentID, start, end, id) {
		t.Fatal("a booking must not conflict with itself when edited")
	}
	other := seedBooking(t, pool, equipmentID, userID, end, end.Add(time.Hour), StatusConfirmed)
	if !checkConflict(t, pool, equipmentID, start.Add(time.Hour), end.Add(time.Hour), id) {
		t.Fatalf("other booking %s must still conflict with the moved interval", other)
	}
}
