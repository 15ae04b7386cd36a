package repositories

import (
	"database/sql"
	"errors"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
)

type CardRepository struct {
	DB *sql.DB
}

func (r CardRepository) GetByAccountID(accountID int64) (models.MetroCard, error) {
	var c models.MetroCard
	err := r.DB.QueryRow(`
		SELECT card_number, account_id, balance, auto_recharge_enabled, min_balance_threshold
		FROM metro_cards WHERE account_id = ? LIMIT 1
	`, accountID).Scan(&c.CardNumber, &c.AccountID, &c.Balance, &c.AutoRechargeEnabled, &c.MinBalanceThreshold)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MetroCard{}, domain.NotFoundError{Resource: "metro card", Err: err}
	}
	if err != nil {
		return models.MetroCard{}, err
	}
	return c, nil
}

func (r CardRepository) Create(accountID, balance, threshold int64) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO metro_cards (account_id, balance, auto_recharge_enabled, min_balance_threshold)
		VALUES (?, ?, FALSE, ?)
	`, accountID, balance, threshold)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetAutoRecharge writes the flag and threshold in one statement, so an
// enabled flag can never be persisted against a stale threshold. The
// balance is deliberately not written here; only the CAS path mutates it,
// which keeps a concurrent debit from being overwritten by a stale read.
func (r CardRepository) SetAutoRecharge(cardNumber int64, autoRecharge bool, threshold int64) error {
	_, err := r.DB.Exec(`
		UPDATE metro_cards
		SET auto_recharge_enabled = ?, min_balance_threshold = ?
		WHERE card_number = ?
	`, autoRecharge, threshold, cardNumber)
	return err
}

// UpdateBalanceCAS swaps the card balance optimistically, mirroring the
// wallet CAS so concurrent card debits cannot lose an update.
func (r CardRepository) UpdateBalanceCAS(cardNumber, oldBalance, newBalance int64) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE metro_cards SET balance = ? WHERE card_number = ? AND balance = ?
	`, newBalance, cardNumber, oldBalance)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
