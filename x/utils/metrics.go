package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// their processing time, labeled by the message path.
type Metrics struct {
	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var _ aidchain.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator. Collectors are registered with
// given registerer unless it is nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aidchain",
			Name:      "tx_total",
			Help:      "Total number of processed transactions by path, phase and result code.",
		}, []string{"path", "phase", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aidchain",
			Name:      "tx_duration_seconds",
			Help:      "Transaction processing latency by path and phase.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"path", "phase"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.processed, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, errors.Wrapf(errors.ErrDuplicate, "register collector: %s", err)
			}
		}
	}
	return m, nil
}

// Check counts the transaction check.
func (m *Metrics) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Checker) (*aidchain.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe(tx, "check", start, err)
	return res, err
}

// Deliver counts the transaction execution.
func (m *Metrics) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Deliverer) (*aidchain.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe(tx, "deliver", start, err)
	return res, err
}

func (m *Metrics) observe(tx aidchain.Tx, phase string, start time.Time, err error) {
	path := "(missing)"
	if tx != nil {
		path = aidchain.GetPath(tx)
	}
	code := strconv.FormatUint(uint64(errors.ABCICode(err)), 10)
	m.processed.WithLabelValues(path, phase, code).Inc()
	m.duration.WithLabelValues(path, phase).Observe(time.Since(start).Seconds())
}
