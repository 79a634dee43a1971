package domain

// Property is the booking platform's unit of inventory. It is read-only
// from the gateway's perspective; we proxy and cache it, never persist it.
type Property struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"internal_code,omitempty"`
	Address      string `json:"address,omitempty"`
	Bedrooms     int    `json:"bedrooms"`
	Bathrooms    int    `json:"bathrooms"`
	MaxGuests    int    `json:"max_guests"`
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutTime string `json:"check_out_time,omitempty"`
	Status       string `json:"status"` // active|inactive
}

// Reservation as normalized from the booking upstream. Dates are ISO
// date strings (YYYY-MM-DD). Properties is a derived join attached at
// read time by the enrichment layer; absent when the referenced
// property is unknown.
type Reservation struct {
	ID               string    `json:"id"`
	PropertyID       string    `json:"property_id"`
	ConfirmationCode string    `json:"confirmation_code,omitempty"`
	Platform         string    `json:"platform"` // lowercased: airbnb, booking, direct, ...
	CheckInDate      string    `json:"check_in_date"`
	CheckOutDate     string    `json:"check_out_date"`
	GuestName        string    `json:"guest_name"`
	GuestEmail       string    `json:"guest_email,omitempty"`
	GuestPhone       string    `json:"guest_phone,omitempty"`
	Guests           int       `json:"guests"`
	TotalPrice       float64   `json:"total_price"`
	PayoutAmount     float64   `json:"payout_amount"`
	Currency         string    `json:"currency,omitempty"`
	Status           string    `json:"status"` // free-form; "cancelled" is special
	SpecialRequests  string    `json:"special_requests,omitempty"`
	BookedAt         string    `json:"booked_at,omitempty"`
	Properties       *Property `json:"properties,omitempty"`
}

type ReservationQuery struct {
	From       string
	To         string
	PropertyID string
}
