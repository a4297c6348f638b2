package equipment

import "testing"

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"active", "under_maintenance", "decommissioned", "reserved"} {
		if _, err := ParseStatus(s); err != nil {
			t.Fatalf("ParseStatus(%q): %v", s, err)
		}
	}
	if _, err := ParseStatus("broken"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Fatalf("expected error for empty status")
	}
}
