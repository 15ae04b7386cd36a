package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/metrics"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 20
)

// OutboxPoller drains the outbox table and applies post-booking side
// effects (loyalty points, notifications). Run exactly one poller per
// process; FetchBatch claims rows without row locks.
type OutboxPoller struct {
	Outbox        repositories.OutboxRepository
	Accounts      repositories.AccountRepository
	Notifications repositories.NotificationRepository
	DB            *sql.DB

	Interval  time.Duration
	BatchSize int
}

func (p OutboxPoller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.recoverStale()

	utils.LogEvent("", "outbox", "start", fmt.Sprintf("interval=%s", interval))
	for {
		select {
		case <-ctx.Done():
			utils.LogEvent("", "outbox", "stop", "context cancelled")
			return
		case <-ticker.C:
			p.drain()
		}
	}
}

// recoverStale requeues events a previous run claimed but never acked,
// so a crash mid-batch cannot silently drop their side effects.
func (p OutboxPoller) recoverStale() {
	n, err := p.Outbox.RequeueStale()
	if err != nil {
		utils.LogEvent("", "outbox", "recover_failed", err.Error())
		return
	}
	if n > 0 {
		utils.LogEvent("", "outbox", "recover", fmt.Sprintf("requeued %d stale events", n))
	}
}

func (p OutboxPoller) drain() {
	batch := p.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	events, err := p.Outbox.FetchBatch(batch)
	if err != nil {
		utils.LogEvent("", "outbox", "fetch_failed", err.Error())
		return
	}
	if len(events) == 0 {
		return
	}

	var done, failed []string
	for _, ev := range events {
		if err := p.apply(ev); err != nil {
			utils.LogEvent("", "outbox", "apply_failed", fmt.Sprintf("event_id=%s: %v", ev.ID, err))
			failed = append(failed, ev.ID)
			continue
		}
		done = append(done, ev.ID)
	}

	if len(done) > 0 {
		if err := p.Outbox.MarkProcessed(done); err != nil {
			utils.LogEvent("", "outbox", "mark_failed", err.Error())
		} else {
			metrics.OutboxEventsProcessed.Add(float64(len(done)))
		}
	}
	if len(failed) > 0 {
		if err := p.Outbox.Requeue(failed); err != nil {
			utils.LogEvent("", "outbox", "requeue_failed", err.Error())
		}
		metrics.OutboxEventsFailed.Add(float64(len(failed)))
	}
}

func (p OutboxPoller) apply(ev models.OutboxEvent) error {
	switch ev.EventType {
	case models.EventTicketBooked:
		var payload models.TicketBookedPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return p.applyTicketBooked(payload)
	default:
		// Unknown events are acked, not retried forever.
		utils.LogEvent("", "outbox", "skip", fmt.Sprintf("unknown event type %q", ev.EventType))
		return nil
	}
}

func (p OutboxPoller) applyTicketBooked(payload models.TicketBookedPayload) error {
	if payload.Points > 0 {
		if err := p.Accounts.AddLoyaltyPoints(p.DB, payload.AccountID, payload.Points); err != nil {
			return fmt.Errorf("add loyalty points: %w", err)
		}
	}
	msg := fmt.Sprintf("Booking confirmed! You earned %d Green Points.", payload.Points)
	if err := p.Notifications.Insert(p.DB, payload.AccountID, msg); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
