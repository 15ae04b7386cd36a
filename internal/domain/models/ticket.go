package models

import "time"

// Ticket is a booked journey. Fare is fixed at booking time and never
// recomputed; the only mutation a ticket ever sees is the one-way
// cancelled flip.
type Ticket struct {
	ID          int64     `json:"ticketId"`
	AccountID   int64     `json:"-"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Passengers  int       `json:"passengers"`
	Fare        int64     `json:"-"` // paise
	TravelDate  time.Time `json:"-"`
	BookingTime time.Time `json:"-"`
	Cancelled   bool      `json:"cancelled"`
	DistanceKm  float64   `json:"distance"`
}

// FareQuote is the FareCalculator output. SingleFare is per passenger;
// Fare is the charged total.
type FareQuote struct {
	Fare       int64   `json:"-"` // paise, total
	SingleFare int64   `json:"-"` // paise, per passenger
	DistanceKm float64 `json:"distance"`
	ETAMinutes int     `json:"time"`
	Peak       bool    `json:"is_peak"`
	Passengers int     `json:"passengers"`
}

// RefundResult reports a completed cancellation.
type RefundResult struct {
	TicketID   int64
	Refund     int64 // paise
	NewBalance int64 // paise
}
