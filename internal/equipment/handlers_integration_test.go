//go:build integration

package equipment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// These tests need a migrated Postgres. Run with:
//
//	TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/equipment/
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

func seedDeleteFixture(t *testing.T, pool *pgxpool.Pool, bookingStatus string) (equipmentID string) {
	t.Helper()
	ctx := context.Background()

	userID := uuid.NewString()
	if _, err := pool.Exec(ctx, `
INSERT INTO users (id, email, full_name, approval_status)
VALUES ($1, $2, 'Test User', 'approved')`, userID, userID+"@test.local"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	equipmentID = uuid.NewString()
	if _, err := pool.Exec(ctx, `
INSERT INTO equipment (id, name) VALUES ($1, 'Test Rig')`, equipmentID); err != nil {
		t.Fatalf("seed equipment: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, equipmentID)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	})

	if bookingStatus != "" {
		start := time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC)
		if _, err := pool.Exec(ctx, `
INSERT INTO bookings (id, equipment_id, user_id, start_time, end_time, status)
VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), equipmentID, userID, start, start.Add(2*time.Hour), bookingStatus); err != nil {
			t.Fatalf("seed booking: %v", err)
		}
	}
	return equipmentID
}

func doDelete(t *testing.T, h Handlers, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/equipment/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	return rec
}

func TestDeleteRefusedWhileBookingsActive(t *testing.T) {
	pool := testPool(t)
	h := Handlers{DB: pool, Repo: NewRepository(pool)}

	for _, status := range []string{"pending", "confirmed"} {
		id := seedDeleteFixture(t, pool, status)
		if rec := doDelete(t, h, id); rec.Code != http.StatusConflict {
			t.Fatalf("%s booking: status = %d, want %d", status, rec.Code, http.StatusConflict)
		}
		// The guard ran inside the transaction; the row must survive.
		if _, err := h.Repo.GetByID(context.Background(), id); err != nil {
			t.Fatalf("%s booking: equipment was deleted: %v", status, err)
		}
	}
}

func TestDeleteAllowedWhenBookingsInactive(t *testing.T) {
	pool := testPool(t)
	h := Handlers{DB: pool, Repo: NewRepository(pool)}

	for _, status := range []string{"", "cancelled", "completed", "rejected"} {
		id := seedDeleteFixture(t, pool, status)
		if rec := doDelete(t, h, id); rec.Code != http.StatusOK {
			t.Fatalf("booking status %q: status = %d, want %d", status, rec.Code, http.StatusOK)
		}
	}
}

func TestDeleteUnknownEquipment(t *testing.T) {
	pool := testPool(t)
	h := Handlers{DB: pool, Repo: NewRepository(pool)}

	if rec := doDelete(t, h, uuid.NewString()); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
