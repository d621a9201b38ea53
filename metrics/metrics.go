package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResetAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_password_reset_attempts_total",
		Help: "Password reset attempts by outcome",
	}, []string{"outcome"})

	TrackingRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_tracking_requests_total",
		Help: "Shipment tracking lookups by outcome",
	}, []string{"outcome"})

	ChangesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_db_changes_processed_total",
		Help: "Rows from db_changes published to realtime subscribers",
	}, []string{"table"})

	RealtimeSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_realtime_subscribers",
		Help: "Open realtime subscriptions",
	})

	RealtimeDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_realtime_dropped_total",
		Help: "Messages dropped because a subscriber buffer was full",
	})

	StatusEventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_status_events_published_total",
		Help: "Order status events written to the broker",
	}, []string{"result"})

	PaymentReconciledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_payment_reconciled_total",
		Help: "Checkout submissions reconciled with the payment gateway",
	}, []string{"status"})
)
