package utils

import (
	"context"
	"strconv"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// their duration, labeled with the message path and the result code.
type Metrics struct {
	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var _ custody.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer. It panics if the collectors are already registered.
func NewMetrics(reg prometheus.Registerer) Metrics {
	m := Metrics{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "tx_processed_total",
			Help:      "Number of processed transactions.",
		}, []string{"phase", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "custody",
			Name:      "tx_duration_seconds",
			Help:      "Time spent processing a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase", "path"}),
	}
	reg.MustRegister(m.processed, m.duration)
	return m
}

// Check records the result of the check.
func (m Metrics) Check(ctx context.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records the result of the delivery.
func (m Metrics) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m Metrics) observe(phase string, tx custody.Tx, start time.Time, err error) {
	path := txPath(tx)
	// Unregistered errors collapse into the internal error code. A
	// recovered panic keeps its own code.
	code := errors.ABCICode(err)
	m.processed.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
