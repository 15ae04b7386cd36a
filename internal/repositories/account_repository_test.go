package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpdateBalanceReportsLostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := AccountRepository{DB: db}

	mock.ExpectExec("UPDATE accounts SET wallet_balance").
		WithArgs(int64(9000), int64(1), int64(10000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts SET wallet_balance").
		WithArgs(int64(8000), int64(1), int64(10000)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateBalance(1, 10000, 9000)
	if err != nil || !ok {
		t.Fatalf("first swap: ok=%v err=%v, want success", ok, err)
	}

	// stale expected balance affects zero rows
	ok, err = repo.UpdateBalance(1, 10000, 8000)
	if err != nil {
		t.Fatalf("second swap error: %v", err)
	}
	if ok {
		t.Fatalf("swap against stale balance reported success")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSpendLoyaltyPointsConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := AccountRepository{DB: db}

	mock.ExpectExec("UPDATE accounts SET loyalty_points").
		WithArgs(int64(50), int64(1), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.SpendLoyaltyPoints(db, 1, 50)
	if err != nil {
		t.Fatalf("SpendLoyaltyPoints error: %v", err)
	}
	if ok {
		t.Fatalf("spend reported success with insufficient points")
	}
}
