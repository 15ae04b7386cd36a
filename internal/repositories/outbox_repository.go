package repositories

import (
	"database/sql"
	"strings"

	intdb "github.com/ronitparmar24/metro-ticket-booking-system/internal/db"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
)

// OutboxRepository stores domain events the booking engine emits after a
// successful commit. The worker poller drains them; the money path never
// waits on a consumer.
type OutboxRepository struct {
	DB *sql.DB
}

func (r OutboxRepository) Insert(ex intdb.Execer, e models.OutboxEvent) error {
	_, err := ex.Exec(`
		INSERT INTO outbox_events (id, event_type, payload, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.EventType, e.Payload, models.OutboxStatusNew, e.CreatedAt)
	return err
}

// FetchBatch claims up to limit new events by flipping them to processing.
// A single poller runs per process, so claim and read can be two
// statements without a locking clause.
func (r OutboxRepository) FetchBatch(limit int) ([]models.OutboxEvent, error) {
	rows, err := r.DB.Query(`
		SELECT id, event_type, payload, status, created_at
		FROM outbox_events
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT ?
	`, models.OutboxStatusNew, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.OutboxEvent
	for rows.Next() {
		var e models.OutboxEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(events) > 0 {
		if err := r.setStatus(eventIDs(events), models.OutboxStatusProcessing); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (r OutboxRepository) MarkProcessed(ids []string) error {
	return r.setStatus(ids, models.OutboxStatusProcessed)
}

// Requeue returns failed events to new so the next tick retries them.
func (r OutboxRepository) Requeue(ids []string) error {
	return r.setStatus(ids, models.OutboxStatusNew)
}

// RequeueStale flips every processing event back to new. A crash between
// the claim and the ack leaves events in processing with no owner; the
// poller runs this once at start so they are retried instead of stranded.
func (r OutboxRepository) RequeueStale() (int64, error) {
	res, err := r.DB.Exec(`UPDATE outbox_events SET status = ? WHERE status = ?`,
		models.OutboxStatusNew, models.OutboxStatusProcessing)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r OutboxRepository) setStatus(ids []string, status string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, status)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := r.DB.Exec(`UPDATE outbox_events SET status = ? WHERE id IN (`+placeholders+`)`, args...)
	return err
}

func eventIDs(events []models.OutboxEvent) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}
