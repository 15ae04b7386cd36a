package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
)

func cancelFixture(t *testing.T, now func() time.Time) (CancellationService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := CancellationService{
		Accounts: repositories.AccountRepository{DB: db},
		Tickets:  repositories.TicketRepository{DB: db},
		History:  repositories.HistoryRepository{DB: db},
		DB:       db,
		Now:      now,
	}
	return svc, mock, func() { db.Close() }
}

func ticketRow(accountID, fare int64, travel time.Time, cancelled bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"ticket_id", "account_id", "source", "destination", "passengers",
		"fare", "travel_date", "booking_date", "cancelled", "distance_km",
	}).AddRow(7, accountID, "alpha", "gamma", 1, fare, travel, travel.Add(-48*time.Hour), cancelled, 7.0)
}

func TestRefundAmountTiers(t *testing.T) {
	travel := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)

	// exactly 24h before midnight of the travel date still earns 80%
	atCutoff := time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local)
	if got := refundAmount(4500, travel, atCutoff); got != 3600 {
		t.Fatalf("refund at cutoff = %d, want 3600", got)
	}

	// one second inside the window drops to 50%
	inside := atCutoff.Add(time.Second)
	if got := refundAmount(4500, travel, inside); got != 2250 {
		t.Fatalf("refund inside window = %d, want 2250", got)
	}

	wellBefore := atCutoff.Add(-72 * time.Hour)
	if got := refundAmount(4500, travel, wellBefore); got != 3600 {
		t.Fatalf("early refund = %d, want 3600", got)
	}
}

func TestCancelCreditsRefundInOneTransaction(t *testing.T) {
	travel := time.Date(2026, 3, 20, 0, 0, 0, 0, time.Local)
	now := func() time.Time { return travel.Add(-48 * time.Hour) }
	svc, mock, closeDB := cancelFixture(t, now)
	defer closeDB()

	mock.ExpectQuery("SELECT ticket_id, account_id").
		WithArgs(int64(7)).WillReturnRows(ticketRow(1, 4500, travel, false))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tickets SET cancelled").
		WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts SET wallet_balance = wallet_balance").
		WithArgs(int64(3600), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT wallet_balance FROM accounts").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(9100))
	mock.ExpectCommit()
	mock.ExpectExec("INSERT INTO wallet_history").
		WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := svc.Cancel(7, 1)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if res.Refund != 3600 {
		t.Fatalf("refund = %d paise, want 3600", res.Refund)
	}
	if res.NewBalance != 9100 {
		t.Fatalf("new balance = %d paise, want 9100", res.NewBalance)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	travel := time.Date(2026, 3, 20, 0, 0, 0, 0, time.Local)
	svc, mock, closeDB := cancelFixture(t, func() time.Time { return travel.Add(-48 * time.Hour) })
	defer closeDB()

	mock.ExpectQuery("SELECT ticket_id, account_id").
		WithArgs(int64(7)).WillReturnRows(ticketRow(1, 4500, travel, true))

	_, err := svc.Cancel(7, 1)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCancelRaceYieldsSingleRefund(t *testing.T) {
	travel := time.Date(2026, 3, 20, 0, 0, 0, 0, time.Local)
	svc, mock, closeDB := cancelFixture(t, func() time.Time { return travel.Add(-48 * time.Hour) })
	defer closeDB()

	// another cancel won between the read and the flip
	mock.ExpectQuery("SELECT ticket_id, account_id").
		WithArgs(int64(7)).WillReturnRows(ticketRow(1, 4500, travel, false))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tickets SET cancelled").
		WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Cancel(7, 1)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on lost race, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelForbiddenForOtherAccount(t *testing.T) {
	travel := time.Date(2026, 3, 20, 0, 0, 0, 0, time.Local)
	svc, mock, closeDB := cancelFixture(t, func() time.Time { return travel.Add(-48 * time.Hour) })
	defer closeDB()

	mock.ExpectQuery("SELECT ticket_id, account_id").
		WithArgs(int64(7)).WillReturnRows(ticketRow(2, 4500, travel, false))

	_, err := svc.Cancel(7, 1)
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCancelUnknownTicket(t *testing.T) {
	svc, mock, closeDB := cancelFixture(t, offPeak)
	defer closeDB()

	empty := sqlmock.NewRows([]string{
		"ticket_id", "account_id", "source", "destination", "passengers",
		"fare", "travel_date", "booking_date", "cancelled", "distance_km",
	})
	mock.ExpectQuery("SELECT ticket_id, account_id").
		WithArgs(int64(99)).WillReturnRows(empty)

	_, err := svc.Cancel(99, 1)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
