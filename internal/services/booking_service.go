package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/metrics"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// Bounded retries for the optimistic balance swap. After this many lost
// races the operation reports a transient failure instead of spinning.
const maxBalanceRetries = 3

const (
	minPassengers = 1
	maxPassengers = 6
)

// BookingService orchestrates fare computation, the wallet debit and
// ticket creation. The debit and the insert form one logical transaction:
// if the insert fails after the debit succeeded, a compensating credit
// restores the balance before the error is returned.
type BookingService struct {
	Accounts repositories.AccountRepository
	Tickets  repositories.TicketRepository
	Outbox   repositories.OutboxRepository
	History  repositories.HistoryRepository
	Fare     FareService
	DB       *sql.DB

	RequestID string
	Now       func() time.Time
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Book validates, charges and persists a ticket. Validation order is
// fixed: route, passenger count, travel date, then funds.
func (s BookingService) Book(accountID int64, source, destination string, passengers int, travelDate string) (models.Ticket, error) {
	source = utils.NormalizeStation(source)
	destination = utils.NormalizeStation(destination)

	if source == "" || destination == "" {
		return models.Ticket{}, domain.ValidationError{Field: "route", Msg: "source and destination required"}
	}
	if source == destination {
		return models.Ticket{}, domain.ValidationError{Field: "route", Msg: "source and destination must be different"}
	}
	if passengers < minPassengers || passengers > maxPassengers {
		return models.Ticket{}, domain.ValidationError{Field: "passengers", Msg: "must be between 1 and 6"}
	}

	now := s.now()
	travel, err := utils.ParseDate(travelDate)
	if err != nil {
		return models.Ticket{}, domain.ValidationError{Field: "travelDate", Msg: "invalid date format (use YYYY-MM-DD)", Err: err}
	}
	if travel.Before(utils.StartOfDay(now)) {
		return models.Ticket{}, domain.ValidationError{Field: "travelDate", Msg: "travel date must not be in the past"}
	}

	quote, err := s.Fare.Quote(source, destination, passengers, now)
	if err != nil {
		return models.Ticket{}, domain.InternalError{Msg: "failed to resolve route", Err: err}
	}

	if err := s.debit(accountID, quote.Fare); err != nil {
		return models.Ticket{}, err
	}

	ticket := models.Ticket{
		AccountID:   accountID,
		Source:      source,
		Destination: destination,
		Passengers:  passengers,
		Fare:        quote.Fare,
		TravelDate:  travel,
		BookingTime: now,
		DistanceKm:  quote.DistanceKm,
	}

	id, err := s.Tickets.Insert(ticket)
	if err != nil {
		s.compensate(accountID, quote.Fare)
		metrics.BookingFailuresTotal.Inc()
		return models.Ticket{}, domain.InternalError{Msg: "failed to create ticket", Err: err}
	}
	ticket.ID = id

	s.afterCommit(ticket)
	metrics.BookingsTotal.Inc()
	return ticket, nil
}

// debit charges the fare through the balance CAS, retrying lost races.
// The funds check repeats on every attempt against the fresh balance.
func (s BookingService) debit(accountID, fare int64) error {
	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		acct, err := s.Accounts.GetByID(accountID)
		if err != nil {
			return err
		}
		if fare > acct.WalletBalance {
			return domain.InsufficientFundsError{RequiredPaise: fare, AvailablePaise: acct.WalletBalance}
		}
		ok, err := s.Accounts.UpdateBalance(accountID, acct.WalletBalance, acct.WalletBalance-fare)
		if err != nil {
			return domain.InternalError{Msg: "failed to update wallet balance", Err: err}
		}
		if ok {
			return nil
		}
	}
	return domain.InternalError{Msg: "wallet busy, please retry"}
}

// compensate credits the fare back after a failed insert. The account must
// never be left short silently, so exhausting the retries here is logged
// loudly as a ledger inconsistency.
func (s BookingService) compensate(accountID, fare int64) {
	for attempt := 0; attempt < maxBalanceRetries*2; attempt++ {
		acct, err := s.Accounts.GetByID(accountID)
		if err != nil {
			continue
		}
		ok, err := s.Accounts.UpdateBalance(accountID, acct.WalletBalance, acct.WalletBalance+fare)
		if err == nil && ok {
			utils.LogEvent(s.RequestID, "booking", "compensate",
				fmt.Sprintf("account_id=%d credited back %s after failed ticket insert", accountID, utils.FormatRs(fare)))
			return
		}
	}
	utils.LogEvent(s.RequestID, "booking", "compensate",
		fmt.Sprintf("LEDGER INCONSISTENCY account_id=%d short by %s, manual correction required", accountID, utils.FormatRs(fare)))
}

// afterCommit records the audit row and the outbox event. Both are
// best-effort: a failure is logged and swallowed, never surfaced as a
// booking failure.
func (s BookingService) afterCommit(t models.Ticket) {
	desc := fmt.Sprintf("Ticket #%d %s -> %s", t.ID, t.Source, t.Destination)
	if err := s.History.Insert(s.DB, t.AccountID, t.Fare, repositories.EntryDebit, desc); err != nil {
		utils.LogEvent(s.RequestID, "booking", "history", "wallet history warning: "+err.Error())
	}

	payload, err := json.Marshal(models.TicketBookedPayload{
		TicketID:  t.ID,
		AccountID: t.AccountID,
		FarePaise: t.Fare,
		Points:    t.Fare / 200, // 1 point per Rs 2 spent
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "booking", "outbox", "payload marshal warning: "+err.Error())
		return
	}
	ev := models.OutboxEvent{
		ID:        uuid.NewString(),
		EventType: models.EventTicketBooked,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Outbox.Insert(s.DB, ev); err != nil {
		utils.LogEvent(s.RequestID, "booking", "outbox", "event insert warning: "+err.Error())
	}
}
