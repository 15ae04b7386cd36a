package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/metrics"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

// Refund cutoff relative to midnight of the travel date. Tickets carry no
// travel time, so the tier boundary is always midnight-based.
const refundCutoff = 24 * time.Hour

// CancellationService flips a ticket to cancelled and credits the refund
// inside one SQL transaction. The conditional cancelled update gates the
// commit, so two concurrent cancels yield exactly one refund.
type CancellationService struct {
	Accounts repositories.AccountRepository
	Tickets  repositories.TicketRepository
	History  repositories.HistoryRepository
	DB       *sql.DB

	RequestID string
	Now       func() time.Time
}

func (s CancellationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Cancel refunds 80% of the fare when cancelled 24h or more before
// midnight of the travel date, 50% otherwise.
func (s CancellationService) Cancel(ticketID, accountID int64) (models.RefundResult, error) {
	ticket, err := s.Tickets.GetByID(ticketID)
	if err != nil {
		return models.RefundResult{}, err
	}
	if ticket.AccountID != accountID {
		return models.RefundResult{}, domain.ForbiddenError{Resource: "ticket"}
	}
	if ticket.Cancelled {
		return models.RefundResult{}, domain.ConflictError{Resource: "ticket", Msg: "already cancelled"}
	}

	refund := refundAmount(ticket.Fare, ticket.TravelDate, s.now())

	tx, err := s.DB.Begin()
	if err != nil {
		return models.RefundResult{}, domain.InternalError{Msg: "failed to cancel ticket", Err: err}
	}

	flipped, err := s.Tickets.MarkCancelled(tx, ticketID)
	if err != nil {
		_ = tx.Rollback()
		return models.RefundResult{}, domain.InternalError{Msg: "failed to cancel ticket", Err: err}
	}
	if !flipped {
		_ = tx.Rollback()
		return models.RefundResult{}, domain.ConflictError{Resource: "ticket", Msg: "already cancelled"}
	}

	if err := s.Accounts.Credit(tx, accountID, refund); err != nil {
		_ = tx.Rollback()
		return models.RefundResult{}, domain.InternalError{Msg: "failed to credit refund", Err: err}
	}

	var newBalance int64
	if err := tx.QueryRow(`SELECT wallet_balance FROM accounts WHERE id = ?`, accountID).Scan(&newBalance); err != nil {
		_ = tx.Rollback()
		return models.RefundResult{}, domain.InternalError{Msg: "failed to credit refund", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return models.RefundResult{}, domain.InternalError{Msg: "failed to cancel ticket", Err: err}
	}

	// audit row outside the money transaction, best-effort
	desc := fmt.Sprintf("Ticket #%d refund", ticketID)
	if err := s.History.Insert(s.DB, accountID, refund, repositories.EntryCredit, desc); err != nil {
		utils.LogEvent(s.RequestID, "cancel", "history", "wallet history warning: "+err.Error())
	}

	metrics.CancellationsTotal.Inc()
	metrics.RefundPaiseTotal.Add(float64(refund))

	return models.RefundResult{TicketID: ticketID, Refund: refund, NewBalance: newBalance}, nil
}

// refundAmount applies the 0.8/0.5 tier. Fares are multiples of 500
// paise, so both rates are exact in integer math.
func refundAmount(fare int64, travelDate, now time.Time) int64 {
	if utils.StartOfDay(travelDate).Sub(now) >= refundCutoff {
		return fare * 4 / 5
	}
	return fare / 2
}
