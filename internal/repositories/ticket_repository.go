package repositories

import (
	"database/sql"
	"errors"

	intdb "github.com/ronitparmar24/metro-ticket-booking-system/internal/db"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
)

// Ticket list filters, matching the source behavior.
const (
	TicketFilterAll      = "all"
	TicketFilterUpcoming = "upcoming"
	TicketFilterPast     = "past"
)

type TicketRepository struct {
	DB *sql.DB
}

func (r TicketRepository) Insert(t models.Ticket) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO tickets (account_id, source, destination, passengers, fare, travel_date, booking_date, cancelled, distance_km)
		VALUES (?, ?, ?, ?, ?, ?, ?, FALSE, ?)
	`, t.AccountID, t.Source, t.Destination, t.Passengers, t.Fare, t.TravelDate, t.BookingTime, t.DistanceKm)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TicketRepository) GetByID(id int64) (models.Ticket, error) {
	var t models.Ticket
	err := r.DB.QueryRow(`
		SELECT ticket_id, account_id, source, destination, passengers, fare, travel_date, booking_date, cancelled, distance_km
		FROM tickets WHERE ticket_id = ? LIMIT 1
	`, id).Scan(&t.ID, &t.AccountID, &t.Source, &t.Destination, &t.Passengers, &t.Fare,
		&t.TravelDate, &t.BookingTime, &t.Cancelled, &t.DistanceKm)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ticket{}, domain.NotFoundError{Resource: "ticket", Err: err}
	}
	if err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

func (r TicketRepository) ListByAccount(accountID int64, filter string) ([]models.Ticket, error) {
	query := `
		SELECT ticket_id, account_id, source, destination, passengers, fare, travel_date, booking_date, cancelled, distance_km
		FROM tickets WHERE account_id = ?`
	switch filter {
	case TicketFilterUpcoming:
		query += ` AND travel_date >= CURDATE() AND cancelled = FALSE`
	case TicketFilterPast:
		query += ` AND travel_date < CURDATE()`
	}
	query += ` ORDER BY booking_date DESC`

	rows, err := r.DB.Query(query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Source, &t.Destination, &t.Passengers, &t.Fare,
			&t.TravelDate, &t.BookingTime, &t.Cancelled, &t.DistanceKm); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// MarkCancelled flips the cancelled flag conditionally. Zero rows affected
// means the ticket was already cancelled (or raced with another cancel);
// the caller treats that as AlreadyCancelled, which is what guarantees at
// most one refund per ticket.
func (r TicketRepository) MarkCancelled(ex intdb.Execer, id int64) (bool, error) {
	res, err := ex.Exec(`UPDATE tickets SET cancelled = TRUE WHERE ticket_id = ? AND cancelled = FALSE`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
