package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metro_bookings_total",
		Help: "The total number of tickets booked",
	})
	BookingFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metro_booking_failures_total",
		Help: "The total number of booking attempts rejected or rolled back",
	})
	CancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metro_cancellations_total",
		Help: "The total number of tickets cancelled",
	})
	RefundPaiseTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metro_refund_paise_total",
		Help: "The total amount refunded to wallets, in paise",
	})
	OutboxEventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metro_outbox_events_processed_total",
		Help: "The total number of outbox events applied by the worker",
	})
	OutboxEventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metro_outbox_events_failed_total",
		Help: "The total number of outbox events that failed and were requeued",
	})
)
