package repositories

import (
	"database/sql"

	intdb "github.com/ronitparmar24/metro-ticket-booking-system/internal/db"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r NotificationRepository) Insert(ex intdb.Execer, accountID int64, message string) error {
	_, err := ex.Exec(`
		INSERT INTO notifications (account_id, message) VALUES (?, ?)
	`, accountID, message)
	return err
}

// Latest returns the newest n notifications for an account.
func (r NotificationRepository) Latest(accountID int64, n int) ([]models.Notification, error) {
	if n <= 0 {
		n = 5
	}
	rows, err := r.DB.Query(`
		SELECT id, account_id, message, created_at
		FROM notifications
		WHERE account_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, accountID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var m models.Notification
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Message, &m.Date); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
