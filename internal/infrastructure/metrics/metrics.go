package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the ledger service.
type Metrics struct {
	// Expense metrics
	ExpensesCreated prometheus.Counter
	ExpensesDeleted prometheus.Counter
	SplitsReplaced  prometheus.Counter
	ExpenseAmount   prometheus.Histogram
	ExpenseErrors   *prometheus.CounterVec

	// Settlement metrics
	SettlementsRecorded prometheus.Counter
	SettlementAmount    prometheus.Histogram
	SettlementRejected  *prometheus.CounterVec

	// Derivation metrics
	BalanceComputations prometheus.Counter
	DebtPlanSize        prometheus.Histogram

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ExpensesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_expenses_created_total",
			Help: "Total number of expenses created",
		}),
		ExpensesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_expenses_deleted_total",
			Help: "Total number of expenses deleted",
		}),
		SplitsReplaced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_splits_replaced_total",
			Help: "Total number of split replace operations",
		}),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_expense_amount",
			Help:    "Expense amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		ExpenseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_expense_errors_total",
				Help: "Total number of expense errors by type",
			},
			[]string{"error_type"},
		),

		SettlementsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_settlements_recorded_total",
			Help: "Total number of settlements recorded",
		}),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_settlement_amount",
			Help:    "Settlement amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		SettlementRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_settlements_rejected_total",
				Help: "Total number of rejected settlements by reason",
			},
			[]string{"reason"},
		),

		BalanceComputations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_balance_computations_total",
			Help: "Total number of balance recomputations",
		}),
		DebtPlanSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_debt_plan_size",
			Help:    "Number of transactions in resolved settlement plans",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),

		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_outbox_published_total",
			Help: "Total number of outbox events published",
		}),
		OutboxFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_outbox_failures_total",
			Help: "Total number of outbox publish failures",
		}),
	}
}
