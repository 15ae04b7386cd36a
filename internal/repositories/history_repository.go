package repositories

import (
	"database/sql"

	intdb "github.com/ronitparmar24/metro-ticket-booking-system/internal/db"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
)

// Wallet entry types.
const (
	EntryCredit = "CREDIT"
	EntryDebit  = "DEBIT"
)

// HistoryRepository is the wallet audit trail. Rows are best-effort
// companions to the balance updates; balances are the source of truth.
type HistoryRepository struct {
	DB *sql.DB
}

func (r HistoryRepository) Insert(ex intdb.Execer, accountID, amount int64, entryType, description string) error {
	_, err := ex.Exec(`
		INSERT INTO wallet_history (account_id, amount, type, description)
		VALUES (?, ?, ?, ?)
	`, accountID, amount, entryType, description)
	return err
}

func (r HistoryRepository) ListByAccount(accountID int64, limit int) ([]models.WalletEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(`
		SELECT id, account_id, amount, type, description, created_at
		FROM wallet_history
		WHERE account_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.WalletEntry{}
	for rows.Next() {
		var e models.WalletEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Amount, &e.Type, &e.Description, &e.Date); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
