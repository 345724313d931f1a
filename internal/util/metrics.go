package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "page_sessions_active",
		Help: "Number of live page sessions",
	})

	SessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "page_sessions_expired_total",
		Help: "Total number of page sessions dropped by the idle sweeper",
	})

	CartAddsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_adds_total",
		Help: "Total number of add-to-cart operations",
	})

	CartRemovalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_removals_total",
		Help: "Total number of cart line items removed",
	}, []string{"reason"})

	CategorySelectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "category_selections_total",
		Help: "Total number of category filter selections",
	}, []string{"page"})

	FormSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "form_submissions_total",
		Help: "Total number of form submissions",
	}, []string{"form", "result"})

	CheckoutAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_amount_rubles",
		Help:    "Cart total of accepted checkouts",
		Buckets: prometheus.ExponentialBuckets(1000, 2, 10),
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Total number of notifications emitted",
	}, []string{"severity"})

	EventsPublishFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "events_publish_failed_total",
		Help: "Total number of events that could not be published",
	})

	SubmissionsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_recorded_total",
		Help: "Total number of form submissions written to the inbox",
	}, []string{"kind"})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_clients",
		Help: "Number of connected notification websocket clients",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
