package outbox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_messages_published_total",
		Help: "Outbox messages published to the broker, by routing key.",
	}, []string{"routing_key"})

	publishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_publish_failures_total",
		Help: "Publish attempts that failed and will be retried.",
	})

	dispatchBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "outbox_dispatch_batch_size",
		Help:    "Number of pending messages picked up per dispatch tick.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})

	stalePaymentsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_stale_swept_total",
		Help: "Pending payments without a checkout id failed by the reconciler.",
	})
)
