package booking

import "testing"

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "cancelled", "completed", "rejected"} {
		if _, err := ParseStatus(s); err != nil {
			t.Fatalf("ParseStatus(%q): %v", s, err)
		}
	}
	if _, err := ParseStatus("approved"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
	}
	for _, c := range allowed {
		if !CanTransition(c.from, c.to) {
			t.Fatalf("expected %s -> %s to be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusCancelled, StatusConfirmed},
		{StatusCompleted, StatusCancelled},
		{StatusRejected, StatusConfirmed},
		{StatusConfirmed, StatusPending},
		{StatusPending, StatusCompleted},
	}
	for _, c := range denied {
		if CanTransition(c.from, c.to) {
			t.Fatalf("expected %s -> %s to be denied", c.from, c.to)
		}
	}
}

func TestStatusIsActive(t *testing.T) {
	if !StatusPending.IsActive() || !StatusConfirmed.IsActive() {
		t.Fatalf("pending and confirmed must be active")
	}
	for _, s := range []Status{StatusCancelled, StatusCompleted, StatusRejected} {
		if s.IsActive() {
			t.Fatalf("%s must not be active", s)
		}
	}
}
