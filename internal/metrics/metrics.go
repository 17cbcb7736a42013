package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormeet_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ormeet_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormeet_order_transitions_total",
			Help: "Order status transitions",
		},
		[]string{"to"},
	)

	TicketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ormeet_tickets_issued_total",
			Help: "Tickets issued by payment capture or manual creation",
		},
	)

	CheckIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormeet_checkins_total",
			Help: "Successful check-ins by method",
		},
		[]string{"method"},
	)

	PromotionRedemptions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ormeet_promotion_redemptions_total",
			Help: "Promotion uses taken",
		},
	)

	Reminders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormeet_reminder_emails_total",
			Help: "Event reminder emails by outcome",
		},
		[]string{"lead_hours", "outcome"},
	)

	NotificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ormeet_notifications_dropped_total",
			Help: "Notification emails dropped because the queue was full or closed",
		},
	)

	NotificationQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ormeet_notification_queue_length",
			Help: "Notification emails waiting to be sent",
		},
	)
)
