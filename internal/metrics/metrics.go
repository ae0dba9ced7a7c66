package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_operations_total",
			Help: "Total applied wallet operations",
		},
		[]string{"type"}, // topup|reward|debit
	)
	OperationsReplayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_operations_replayed_total",
			Help: "Total idempotent replays served from the record store",
		},
	)
	OperationsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_operations_failed_total",
			Help: "Total rejected wallet operations",
		},
		[]string{"reason"}, // insufficient_funds|invalid_operation
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(OperationsTotal)
	prometheus.MustRegister(OperationsReplayed)
	prometheus.MustRegister(OperationsFailed)
	prometheus.MustRegister(WorkerQueueDepth)
}
