package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
)

func walletFixture(t *testing.T) (WalletService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := WalletService{
		Accounts:      repositories.AccountRepository{DB: db},
		History:       repositories.HistoryRepository{DB: db},
		Notifications: repositories.NotificationRepository{DB: db},
		DB:            db,
	}
	return svc, mock, func() { db.Close() }
}

func TestRechargeAddsToBalance(t *testing.T) {
	svc, mock, closeDB := walletFixture(t)
	defer closeDB()

	mock.ExpectQuery("SELECT id, username, role, wallet_balance, loyalty_points").
		WithArgs(int64(1)).WillReturnRows(accountRow(2500, 0))
	mock.ExpectExec("UPDATE accounts SET wallet_balance").
		WithArgs(int64(52500), int64(1), int64(2500)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO wallet_history").
		WillReturnResult(sqlmock.NewResult(1, 1))

	balance, err := svc.Recharge(1, 50000)
	if err != nil {
		t.Fatalf("Recharge returned error: %v", err)
	}
	if balance != 52500 {
		t.Fatalf("balance = %d paise, want 52500", balance)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRechargeValidation(t *testing.T) {
	svc, _, closeDB := walletFixture(t)
	defer closeDB()

	if _, err := svc.Recharge(1, 0); !domain.IsValidation(err) {
		t.Fatalf("zero amount: expected validation error, got %v", err)
	}
	if _, err := svc.Recharge(1, -100); !domain.IsValidation(err) {
		t.Fatalf("negative amount: expected validation error, got %v", err)
	}
	// Rs 5000 is the per-recharge ceiling
	if _, err := svc.Recharge(1, 500001); !domain.IsValidation(err) {
		t.Fatalf("over cap: expected validation error, got %v", err)
	}
}

func TestRechargeAtCap(t *testing.T) {
	svc, mock, closeDB := walletFixture(t)
	defer closeDB()

	mock.ExpectQuery("SELECT id, username, role, wallet_balance, loyalty_points").
		WithArgs(int64(1)).WillReturnRows(accountRow(0, 0))
	mock.ExpectExec("UPDATE accounts SET wallet_balance").
		WithArgs(int64(500000), int64(1), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO wallet_history").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := svc.Recharge(1, 500000); err != nil {
		t.Fatalf("recharge at the Rs 5000 cap rejected: %v", err)
	}
}

func TestRedeemPointsCreditsWallet(t *testing.T) {
	svc, mock, closeDB := walletFixture(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET loyalty_points = loyalty_points -").
		WithArgs(int64(50), int64(1), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts SET wallet_balance = wallet_balance").
		WithArgs(int64(2000), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT wallet_balance FROM accounts").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(7000))
	mock.ExpectCommit()
	mock.ExpectExec("INSERT INTO wallet_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	balance, err := svc.RedeemPoints(1)
	if err != nil {
		t.Fatalf("RedeemPoints returned error: %v", err)
	}
	if balance != 7000 {
		t.Fatalf("balance = %d paise, want 7000", balance)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRedeemPointsRequiresFiftyPoints(t *testing.T) {
	svc, mock, closeDB := walletFixture(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET loyalty_points = loyalty_points -").
		WithArgs(int64(50), int64(1), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.RedeemPoints(1)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
