package importer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values of budget_import_runs_total.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds the importer's prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	transactions *prometheus.CounterVec
	skipped      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "budget_import_runs_total",
			Help: "Statement imports by institution and outcome.",
		}, []string{"institution", "outcome"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "budget_import_transactions_total",
			Help: "Transactions persisted by institution.",
		}, []string{"institution"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "budget_import_skipped_total",
			Help: "Parsed transactions that were not persisted, by reason.",
		}, []string{"institution", "reason"}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.transactions, m.skipped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeRun(institution, outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(institution, outcome).Inc()
}

func (m *Metrics) addTransactions(institution string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.transactions.WithLabelValues(institution).Add(float64(n))
}

func (m *Metrics) addSkipped(institution, reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.skipped.WithLabelValues(institution, reason).Add(float64(n))
}
