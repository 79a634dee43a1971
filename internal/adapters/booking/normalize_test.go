package booking

import (
	"encoding/json"
	"testing"
)

func TestNormalizeProperty_Fallbacks(t *testing.T) {
	var raw rawProperty
	payload := `{
		"id": 101,
		"nickname": "Seaside Loft",
		"code": "SL-01",
		"address": {"street": "12 Harbor Rd", "city": "Brighton", "country": "UK"},
		"bedrooms": "2",
		"bathrooms": 1,
		"accommodates": 4,
		"checkin_time": "15:00",
		"check_out_time": "11:00",
		"active": true
	}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p := normalizeProperty(raw)

	if p.ID != "101" {
		t.Errorf("numeric id should normalize to string, got %q", p.ID)
	}
	if p.Name != "Seaside Loft" {
		t.Errorf("nickname fallback failed: %q", p.Name)
	}
	if p.Code != "SL-01" {
		t.Errorf("code fallback failed: %q", p.Code)
	}
	if p.Address != "12 Harbor Rd, Brighton, UK" {
		t.Errorf("structured address join failed: %q", p.Address)
	}
	if p.Bedrooms != 2 || p.Bathrooms != 1 || p.MaxGuests != 4 {
		t.Errorf("counts wrong: %+v", p)
	}
	if p.CheckInTime != "15:00" || p.CheckOutTime != "11:00" {
		t.Errorf("check times wrong: %+v", p)
	}
	if p.Status != "active" {
		t.Errorf("status: %q", p.Status)
	}
}

func TestNormalizeProperty_StringAddressAndInactive(t *testing.T) {
	var raw rawProperty
	payload := `{"id": "p2", "name": "City Flat", "address": "5 Main St", "active": false}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p := normalizeProperty(raw)
	if p.Address != "5 Main St" {
		t.Errorf("string address: %q", p.Address)
	}
	if p.Status != "inactive" {
		t.Errorf("status: %q", p.Status)
	}
}

func TestNormalizeReservation_GuestNameChain(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"single field", `{"id": "r1", "guest": {"name": "Ada Lovelace"}}`, "Ada Lovelace"},
		{"first plus last", `{"id": "r2", "guest": {"first_name": "Grace", "last_name": "Hopper"}}`, "Grace Hopper"},
		{"first only", `{"id": "r3", "guest": {"first_name": "Linus"}}`, "Linus"},
		{"nothing", `{"id": "r4"}`, "Guest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var raw rawReservation
			if err := json.Unmarshal([]byte(tc.payload), &raw); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := normalizeReservation(raw).GuestName; got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeReservation_Fields(t *testing.T) {
	var raw rawReservation
	payload := `{
		"id": 7,
		"listing_id": "p1",
		"confirmation_code": "HMX42",
		"Platform": "",
		"source": "AirBnB",
		"check_in": "2026-03-01T15:00:00Z",
		"check_out_date": "2026-03-05",
		"guest_count": "3",
		"total": "1250,50",
		"payout_amount": 1100,
		"currency": "eur",
		"status": "Confirmed"
	}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	r := normalizeReservation(raw)

	if r.ID != "7" || r.PropertyID != "p1" {
		t.Errorf("ids: %+v", r)
	}
	if r.ConfirmationCode != "HMX42" {
		t.Errorf("confirmation code fallback: %q", r.ConfirmationCode)
	}
	if r.Platform != "airbnb" {
		t.Errorf("platform must be lowercased: %q", r.Platform)
	}
	if r.CheckInDate != "2026-03-01" || r.CheckOutDate != "2026-03-05" {
		t.Errorf("dates: %q %q", r.CheckInDate, r.CheckOutDate)
	}
	if r.Guests != 3 {
		t.Errorf("guests: %d", r.Guests)
	}
	if r.TotalPrice != 1250.50 || r.PayoutAmount != 1100 {
		t.Errorf("money: %v %v", r.TotalPrice, r.PayoutAmount)
	}
	if r.Currency != "EUR" || r.Status != "confirmed" {
		t.Errorf("currency/status: %q %q", r.Currency, r.Status)
	}
}
