package repositories

import (
	"database/sql"
	"errors"

	intdb "github.com/ronitparmar24/metro-ticket-booking-system/internal/db"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
)

type AccountRepository struct {
	DB *sql.DB
}

func (r AccountRepository) Create(username, passwordHash, role string, openingBalance int64) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO accounts (username, password_hash, role, wallet_balance, loyalty_points)
		VALUES (?, ?, ?, ?, 0)
	`, username, passwordHash, role, openingBalance)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r AccountRepository) GetByID(id int64) (models.Account, error) {
	var a models.Account
	err := r.DB.QueryRow(`
		SELECT id, username, role, wallet_balance, loyalty_points
		FROM accounts WHERE id = ? LIMIT 1
	`, id).Scan(&a.ID, &a.Username, &a.Role, &a.WalletBalance, &a.LoyaltyPoints)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, domain.NotFoundError{Resource: "account", Err: err}
	}
	if err != nil {
		return models.Account{}, err
	}
	return a, nil
}

// GetByUsername also returns the stored password hash for login checks.
func (r AccountRepository) GetByUsername(username string) (models.Account, string, error) {
	var (
		a    models.Account
		hash string
	)
	err := r.DB.QueryRow(`
		SELECT id, username, role, wallet_balance, loyalty_points, password_hash
		FROM accounts WHERE username = ? LIMIT 1
	`, username).Scan(&a.ID, &a.Username, &a.Role, &a.WalletBalance, &a.LoyaltyPoints, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, "", domain.NotFoundError{Resource: "account", Err: err}
	}
	if err != nil {
		return models.Account{}, "", err
	}
	return a, hash, nil
}

func (r AccountRepository) UsernameExists(username string) (bool, error) {
	var n int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM accounts WHERE username = ?`, username).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateBalance is the optimistic compare-and-swap every wallet mutation
// goes through. Zero rows affected means another writer won; callers
// reload and retry a bounded number of times. This is what makes
// concurrent operations on one account serializable without row locks.
func (r AccountRepository) UpdateBalance(id, oldBalance, newBalance int64) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE accounts SET wallet_balance = ? WHERE id = ? AND wallet_balance = ?
	`, newBalance, id, oldBalance)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Credit increments the balance unconditionally. Only safe inside a
// transaction whose commit is gated on a conditional update (the
// cancellation flow); everything else uses UpdateBalance.
func (r AccountRepository) Credit(ex intdb.Execer, id, amount int64) error {
	_, err := ex.Exec(`UPDATE accounts SET wallet_balance = wallet_balance + ? WHERE id = ?`, amount, id)
	return err
}

func (r AccountRepository) AddLoyaltyPoints(ex intdb.Execer, id, points int64) error {
	_, err := ex.Exec(`UPDATE accounts SET loyalty_points = loyalty_points + ? WHERE id = ?`, points, id)
	return err
}

// SpendLoyaltyPoints deducts conditionally so a concurrent redeem cannot
// push points negative.
func (r AccountRepository) SpendLoyaltyPoints(ex intdb.Execer, id, points int64) (bool, error) {
	res, err := ex.Exec(`
		UPDATE accounts SET loyalty_points = loyalty_points - ?
		WHERE id = ? AND loyalty_points >= ?
	`, points, id, points)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r AccountRepository) UpdatePassword(id int64, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE accounts SET password_hash = ? WHERE id = ?`, passwordHash, id)
	return err
}
