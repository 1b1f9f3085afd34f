package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counters exposed on /metrics. Registered once at package init;
// services increment them outside any transaction.
var (
	SalesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kreasipos_sales_total",
		Help: "Number of sales registered.",
	})

	RefundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kreasipos_refunds_processed_total",
		Help: "Number of refunds processed to completion.",
	})

	BOMDeductionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kreasipos_bom_deductions_total",
		Help: "Number of successful BOM raw-material deductions.",
	})

	InsufficientMaterialsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kreasipos_bom_insufficient_total",
		Help: "Number of sales rejected for insufficient raw materials.",
	})

	RestockFulfilledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kreasipos_restock_orders_fulfilled_total",
		Help: "Number of restock orders verified and fulfilled into inventory.",
	})

	JobsDeadLetteredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kreasipos_jobs_dead_lettered_total",
		Help: "Number of async jobs parked after exhausting retries, by queue.",
	}, []string{"queue"})
)
