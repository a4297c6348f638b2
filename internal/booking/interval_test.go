package booking

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"candidate starts inside existing", at(10, 30), at(11, 30), at(10, 0), at(11, 0), true},
		{"existing starts inside candidate", at(9, 30), at(10, 30), at(10, 0), at(11, 0), true},
		{"candidate contains existing", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"existing contains candidate", at(10, 15), at(10, 45), at(10, 0), at(11, 0), true},
		{"back to back after", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"back to back before", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(13, 0), at(14, 0), at(10, 0), at(11, 0), false},
		{"one minute overlap at end", at(10, 59), at(12, 0), at(10, 0), at(11, 0), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Overlaps(c.s1, c.e1, c.s2, c.e2); got != c.want {
				t.Fatalf("Overlaps(%v,%v | %v,%v) = %v, want %v", c.s1, c.e1, c.s2, c.e2, got, c.want)
			}
		})
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	s1, e1 := at(10, 0), at(11, 0)
	s2, e2 := at(10, 30), at(11, 30)
	if Overlaps(s1, e1, s2, e2) != Overlaps(s2, e2, s1, e1) {
		t.Fatalf("overlap must be symmetric")
	}
}

func TestValidateInterval(t *testing.T) {
	if err := ValidateInterval(at(10, 0), at(11, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateInterval(at(11, 0), at(10, 0)); err == nil {
		t.Fatalf("expected error for inverted interval")
	}
	if err := ValidateInterval(at(10, 0), at(10, 0)); err == nil {
		t.Fatalf("expected error for zero-width interval")
	}
	if err := ValidateInterval(time.Time{}, at(10, 0)); err == nil {
		t.Fatalf("expected error for zero start")
	}
}
