package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	StatusUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_status_updates_total",
		Help: "Total number of successful order status updates.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_http_requests_total",
		Help: "Total number of handled HTTP requests by method, path and status code.",
	},
		[]string{"method", "path", "code"},
	)

	IntakeSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orders_intake_sessions_active",
		Help: "Current number of in-progress intake conversations.",
	})

	OutboxTasksPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_outbox_tasks_published_total",
		Help: "Total number of outbox tasks delivered to the broker.",
	})
)
