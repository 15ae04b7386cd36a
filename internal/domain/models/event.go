package models

import "time"

// Outbox event lifecycle: new -> processing -> processed. Failed batches
// are requeued as new.
const (
	OutboxStatusNew        = "new"
	OutboxStatusProcessing = "processing"
	OutboxStatusProcessed  = "processed"

	EventTicketBooked = "ticket.booked"
)

// OutboxEvent is written in the same best-effort step as a successful
// booking and drained by the worker poller. Loyalty points and
// notifications ride on it so their failures never touch the money path.
type OutboxEvent struct {
	ID        string
	EventType string
	Payload   []byte
	Status    string
	CreatedAt time.Time
}

// TicketBookedPayload is the EventTicketBooked body.
type TicketBookedPayload struct {
	TicketID  int64 `json:"ticket_id"`
	AccountID int64 `json:"account_id"`
	FarePaise int64 `json:"fare_paise"`
	Points    int64 `json:"points"`
}

// Notification is a user-visible message produced by the outbox consumer.
type Notification struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"-"`
	Message   string    `json:"message"`
	Date      time.Time `json:"date"`
}

// WalletEntry is one row of the wallet audit trail.
type WalletEntry struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"-"`
	Amount      int64     `json:"-"` // paise, always positive; Type carries direction
	Type        string    `json:"type"` // CREDIT / DEBIT
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}
