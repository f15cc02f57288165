package handlers_test

import (
	"encoding/json"
	"testing"

	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
)

// statsData mirrors the stats payload.
type statsData struct {
	Bookings struct {
		Total     int64 `json:"total"`
		Pending   int64 `json:"pending"`
		Confirmed int64 `json:"confirmed"`
		Cancelled int64 `json:"cancelled"`
	} `json:"bookings"`
	Inquiries struct {
		Total   int64 `json:"total"`
		Pending int64 `json:"pending"`
	} `json:"inquiries"`
	Capsules struct {
		Total       int64 `json:"total"`
		Available   int64 `json:"available"`
		Booked      int64 `json:"booked"`
		Maintenance int64 `json:"maintenance"`
	} `json:"capsules"`
	Revenue struct {
		Total    float64 `json:"total"`
		Currency string  `json:"currency"`
	} `json:"revenue"`
}

func TestStatsRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("guest@example.com", "secret123", models.RoleUser)

	status, resp := env.do("GET", "/api/stats", nil, nil)
	if status != 401 {
		t.Fatalf("expected 401, got %d", status)
	}
	if resp.Error != auth.ReasonNoToken {
		t.Fatalf("unexpected error: %q", resp.Error)
	}

	token := env.login("guest@example.com", "secret123")
	status, resp = env.do("GET", "/api/stats", nil, bearerHeaders(token))
	if status != 403 {
		t.Fatalf("expected 403, got %d", status)
	}
	if resp.Error != auth.ReasonAdminRequired {
		t.Fatalf("unexpected error: %q", resp.Error)
	}
}

func TestStatsInvalidAPIKey(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do("GET", "/api/stats", nil, map[string]string{auth.APIKeyHeader: "wrong-key"})
	if status != 401 {
		t.Fatalf("expected 401, got %d", status)
	}
	if resp.Error != auth.ReasonInvalid {
		t.Fatalf("unexpected error: %q", resp.Error)
	}
}

func TestStatsAggregates(t *testing.T) {
	env := newTestEnv(t)

	capsule := env.seedCapsule("Capsule Unit X", 50)
	// 50 per night x 2 nights x 1 capsule = 100.
	env.seedBooking("a@example.com", models.BookingStatusConfirmed, &capsule.ID, 1, 2)
	// Confirmed but unassigned, contributes nothing.
	env.seedBooking("b@example.com", models.BookingStatusConfirmed, nil, 3, 5)
	env.seedBooking("c@example.com", models.BookingStatusPending, nil, 1, 1)
	env.seedBooking("d@example.com", models.BookingStatusCancelled, nil, 1, 1)

	status, resp := env.do("POST", "/api/partners", validInquiryPayload(), nil)
	if status != 201 {
		t.Fatalf("create inquiry: got %d (%s)", status, resp.Error)
	}

	status, resp = env.do("GET", "/api/stats", nil, adminHeaders())
	if status != 200 {
		t.Fatalf("expected 200, got %d (%s)", status, resp.Error)
	}
	var data statsData
	if errDecode := json.Unmarshal(resp.Data, &data); errDecode != nil {
		t.Fatalf("decode stats: %v", errDecode)
	}

	if data.Bookings.Total != 4 || data.Bookings.Pending != 1 || data.Bookings.Confirmed != 2 || data.Bookings.Cancelled != 1 {
		t.Fatalf("unexpected booking counts: %+v", data.Bookings)
	}
	if data.Inquiries.Total != 1 || data.Inquiries.Pending != 1 {
		t.Fatalf("unexpected inquiry counts: %+v", data.Inquiries)
	}
	// Three seeded units plus the one created here, all available.
	if data.Capsules.Total != 4 || data.Capsules.Available != 4 {
		t.Fatalf("unexpected capsule counts: %+v", data.Capsules)
	}
	if data.Revenue.Total != 100 {
		t.Fatalf("expected revenue 100, got %v", data.Revenue.Total)
	}
	if data.Revenue.Currency != "USD" {
		t.Fatalf("expected USD currency, got %q", data.Revenue.Currency)
	}
}
