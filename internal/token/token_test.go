package token

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	secret := "test_secret"
	now := time.Unix(1700000000, 0)

	s, err := Issue("user-123", secret, 10*time.Minute, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := Verify(s, secret, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.UserID != "user-123" {
		t.Fatalf("user id mismatch: %q", got.UserID)
	}
}

func TestVerify_Expired(t *testing.T) {
	secret := "test_secret"
	now := time.Unix(1700000000, 0)

	s, err := Issue("user-123", secret, time.Minute, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Verify(s, secret, now.Add(2*time.Minute)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)

	s, err := Issue("user-123", "secret-a", time.Minute, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Verify(s, "secret-b", now); err == nil {
		t.Fatalf("expected signature error")
	}
}
