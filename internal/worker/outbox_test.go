package worker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
)

func pollerFixture(t *testing.T) (OutboxPoller, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	p := OutboxPoller{
		Outbox:        repositories.OutboxRepository{DB: db},
		Accounts:      repositories.AccountRepository{DB: db},
		Notifications: repositories.NotificationRepository{DB: db},
		DB:            db,
	}
	return p, mock, func() { db.Close() }
}

func bookedEventRow(t *testing.T, id string, payload models.TicketBookedPayload) *sqlmock.Rows {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return sqlmock.NewRows([]string{"id", "event_type", "payload", "status", "created_at"}).
		AddRow(id, models.EventTicketBooked, body, models.OutboxStatusNew, time.Now().UTC())
}

func TestDrainAppliesBookedEvent(t *testing.T) {
	p, mock, closeDB := pollerFixture(t)
	defer closeDB()

	payload := models.TicketBookedPayload{TicketID: 7, AccountID: 1, FarePaise: 4500, Points: 22}
	mock.ExpectQuery("FROM outbox_events").
		WithArgs(models.OutboxStatusNew, defaultBatchSize).
		WillReturnRows(bookedEventRow(t, "ev-1", payload))
	mock.ExpectExec("UPDATE outbox_events SET status").
		WithArgs(models.OutboxStatusProcessing, "ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec("UPDATE accounts SET loyalty_points").
		WithArgs(int64(22), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec("UPDATE outbox_events SET status").
		WithArgs(models.OutboxStatusProcessed, "ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p.drain()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDrainRequeuesFailedEvent(t *testing.T) {
	p, mock, closeDB := pollerFixture(t)
	defer closeDB()

	payload := models.TicketBookedPayload{TicketID: 7, AccountID: 1, FarePaise: 4500, Points: 22}
	mock.ExpectQuery("FROM outbox_events").
		WithArgs(models.OutboxStatusNew, defaultBatchSize).
		WillReturnRows(bookedEventRow(t, "ev-1", payload))
	mock.ExpectExec("UPDATE outbox_events SET status").
		WithArgs(models.OutboxStatusProcessing, "ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec("UPDATE accounts SET loyalty_points").
		WithArgs(int64(22), int64(1)).
		WillReturnError(sqlErrClosed{})

	mock.ExpectExec("UPDATE outbox_events SET status").
		WithArgs(models.OutboxStatusNew, "ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p.drain()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDrainAcksUnknownEventType(t *testing.T) {
	p, mock, closeDB := pollerFixture(t)
	defer closeDB()

	rows := sqlmock.NewRows([]string{"id", "event_type", "payload", "status", "created_at"}).
		AddRow("ev-9", "ticket.legacy", []byte(`{}`), models.OutboxStatusNew, time.Now().UTC())
	mock.ExpectQuery("FROM outbox_events").
		WithArgs(models.OutboxStatusNew, defaultBatchSize).
		WillReturnRows(rows)
	mock.ExpectExec("UPDATE outbox_events SET status").
		WithArgs(models.OutboxStatusProcessing, "ev-9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE outbox_events SET status").
		WithArgs(models.OutboxStatusProcessed, "ev-9").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p.drain()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecoverStaleRequeuesClaimedEvents(t *testing.T) {
	p, mock, closeDB := pollerFixture(t)
	defer closeDB()

	mock.ExpectExec("UPDATE outbox_events SET status").
		WithArgs(models.OutboxStatusNew, models.OutboxStatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 2))

	p.recoverStale()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

type sqlErrClosed struct{}

func (sqlErrClosed) Error() string { return "connection closed" }
