package booking

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"labkit/internal/api"
)

func TestCreateRequestValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{
			"valid",
			`{"equipmentId":"a81bc81b-dead-4e5d-abff-90865d1e13b1","startTime":"2026-03-14T10:00:00Z","endTime":"2026-03-14T11:00:00Z","purpose":"PCR run"}`,
			true,
		},
		{
			"missing equipment id",
			`{"startTime":"2026-03-14T10:00:00Z","endTime":"2026-03-14T11:00:00Z"}`,
			false,
		},
		{
			"malformed equipment id",
			`{"equipmentId":"not-a-uuid","startTime":"2026-03-14T10:00:00Z","endTime":"2026-03-14T11:00:00Z"}`,
			false,
		},
		{
			"missing times",
			`{"equipmentId":"a81bc81b-dead-4e5d-abff-90865d1e13b1"}`,
			false,
		},
		{
			"unknown field",
			`{"equipmentId":"a81bc81b-dead-4e5d-abff-90865d1e13b1","startTime":"2026-03-14T10:00:00Z","endTime":"2026-03-14T11:00:00Z","extra":true}`,
			false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/v1/bookings", bytes.NewBufferString(c.body))
			var req CreateRequest
			err := api.DecodeValid(r, &req)
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestStatusRequestValidation(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/v1/bookings/x/status", bytes.NewBufferString(`{"status":"cancelled"}`))
	var req StatusRequest
	if err := api.DecodeValid(r, &req); err == nil {
		t.Fatalf("cancel must not be reachable through the status endpoint")
	}

	r = httptest.NewRequest("PATCH", "/v1/bookings/x/status", bytes.NewBufferString(`{"status":"confirmed","adminNotes":"ok"}`))
	if err := api.DecodeValid(r, &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
