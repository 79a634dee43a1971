package booking

import (
	"bytes"
	"encoding/json"
	"strings"

	"staydash/internal/adapters/upstream"
	"staydash/internal/domain"
)

// The booking platform's schema is not contractually stable: the same
// field has shipped under different names across accounts and API
// revisions. Raw shapes below are permissive (every candidate name is an
// optional field) and the normalize functions apply a fixed fallback
// order per field.

type rawProperty struct {
	ID           upstream.FlexString `json:"id"`
	Name         string              `json:"name"`
	Nickname     string              `json:"nickname"`
	InternalCode string              `json:"internal_code"`
	Code         string              `json:"code"`
	Address      rawAddress          `json:"address"`
	Bedrooms     upstream.FlexInt    `json:"bedrooms"`
	Bathrooms    upstream.FlexInt    `json:"bathrooms"`
	MaxGuests    upstream.FlexInt    `json:"max_guests"`
	Accommodates upstream.FlexInt    `json:"accommodates"`
	CheckInTime  string              `json:"check_in_time"`
	CheckinTime  string              `json:"checkin_time"`
	CheckOutTime string              `json:"check_out_time"`
	CheckoutTime string              `json:"checkout_time"`
	Status       string              `json:"status"`
	Active       *bool               `json:"active"`
}

// rawAddress accepts either a free-text string or a structured object.
type rawAddress struct {
	Full    string
	Street  string
	Line1   string
	City    string
	State   string
	Zip     string
	Country string
}

func (a *rawAddress) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &a.Full)
	}
	var obj struct {
		Street  string `json:"street"`
		Line1   string `json:"line1"`
		City    string `json:"city"`
		State   string `json:"state"`
		Zip     string `json:"zip"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	a.Street, a.Line1, a.City, a.State, a.Zip, a.Country =
		obj.Street, obj.Line1, obj.City, obj.State, obj.Zip, obj.Country
	return nil
}

func (a rawAddress) normalized() string {
	if a.Full != "" {
		return a.Full
	}
	return joinNonEmpty(", ", a.Street, a.Line1, a.City, a.State, a.Zip, a.Country)
}

func normalizeProperty(r rawProperty) domain.Property {
	status := strings.ToLower(strings.TrimSpace(r.Status))
	if status == "" {
		status = "active"
		if r.Active != nil && !*r.Active {
			status = "inactive"
		}
	}
	return domain.Property{
		ID:           r.ID.String(),
		Name:         firstNonEmpty(r.Name, r.Nickname),
		Code:         firstNonEmpty(r.InternalCode, r.Code),
		Address:      r.Address.normalized(),
		Bedrooms:     int(r.Bedrooms),
		Bathrooms:    int(r.Bathrooms),
		MaxGuests:    firstNonZero(int(r.MaxGuests), int(r.Accommodates)),
		CheckInTime:  firstNonEmpty(r.CheckInTime, r.CheckinTime),
		CheckOutTime: firstNonEmpty(r.CheckOutTime, r.CheckoutTime),
		Status:       status,
	}
}

type rawGuest struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type rawReservation struct {
	ID               upstream.FlexString `json:"id"`
	PropertyID       upstream.FlexString `json:"property_id"`
	ListingID        upstream.FlexString `json:"listing_id"`
	Code             string              `json:"code"`
	ConfirmationCode string              `json:"confirmation_code"`
	Platform         string              `json:"platform"`
	Source           string              `json:"source"`
	Channel          string              `json:"channel"`
	CheckIn          string              `json:"check_in"`
	CheckInDate      string              `json:"check_in_date"`
	CheckOut         string              `json:"check_out"`
	CheckOutDate     string              `json:"check_out_date"`
	Guest            rawGuest            `json:"guest"`
	GuestName        string              `json:"guest_name"`
	GuestEmail       string              `json:"guest_email"`
	GuestPhone       string              `json:"guest_phone"`
	Guests           upstream.FlexInt    `json:"guests"`
	GuestCount       upstream.FlexInt    `json:"guest_count"`
	NumberOfGuests   upstream.FlexInt    `json:"number_of_guests"`
	TotalPrice       upstream.FlexFloat  `json:"total_price"`
	Total            upstream.FlexFloat  `json:"total"`
	PayoutAmount     upstream.FlexFloat  `json:"payout_amount"`
	Payout           upstream.FlexFloat  `json:"payout"`
	Currency         string              `json:"currency"`
	Status           string              `json:"status"`
	SpecialRequests  string              `json:"special_requests"`
	Notes            string              `json:"notes"`
	BookedAt         string              `json:"booked_at"`
	CreatedAt        string              `json:"created_at"`
}

func normalizeReservation(r rawReservation) domain.Reservation {
	return domain.Reservation{
		ID:               r.ID.String(),
		PropertyID:       firstNonEmpty(r.PropertyID.String(), r.ListingID.String()),
		ConfirmationCode: firstNonEmpty(r.Code, r.ConfirmationCode),
		Platform:         strings.ToLower(firstNonEmpty(r.Platform, r.Source, r.Channel)),
		CheckInDate:      isoDate(firstNonEmpty(r.CheckInDate, r.CheckIn)),
		CheckOutDate:     isoDate(firstNonEmpty(r.CheckOutDate, r.CheckOut)),
		GuestName:        guestName(r),
		GuestEmail:       firstNonEmpty(r.Guest.Email, r.GuestEmail),
		GuestPhone:       firstNonEmpty(r.Guest.Phone, r.GuestPhone),
		Guests:           firstNonZero(int(r.Guests), int(r.GuestCount), int(r.NumberOfGuests)),
		TotalPrice:       firstNonZeroF(float64(r.TotalPrice), float64(r.Total)),
		PayoutAmount:     firstNonZeroF(float64(r.PayoutAmount), float64(r.Payout)),
		Currency:         strings.ToUpper(r.Currency),
		Status:           strings.ToLower(strings.TrimSpace(r.Status)),
		SpecialRequests:  firstNonEmpty(r.SpecialRequests, r.Notes),
		BookedAt:         firstNonEmpty(r.BookedAt, r.CreatedAt),
	}
}

// guestName prefers a single name field, then first+last, then "Guest".
func guestName(r rawReservation) string {
	if s := firstNonEmpty(r.Guest.Name, r.GuestName); s != "" {
		return s
	}
	if s := joinNonEmpty(" ", r.Guest.FirstName, r.Guest.LastName); s != "" {
		return s
	}
	return "Guest"
}

// isoDate truncates timestamps to their YYYY-MM-DD prefix.
func isoDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonZeroF(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}
