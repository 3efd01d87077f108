package core

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"tokenomics-kernel/core/model"
)

// Metrics counts what the indexer applied. A nil *Metrics records nothing.
type Metrics struct {
	operations   *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	inscriptions prometheus.Counter
	latestBlock  prometheus.Gauge
}

func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brc100",
			Name:      "operations",
			Help:      "number of applied operations",
		}, []string{"op"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brc100",
			Name:      "rejected_operations",
			Help:      "number of operations rejected by validity code",
		}, []string{"op", "code"}),
		inscriptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brc100",
			Name:      "inscriptions",
			Help:      "number of data inscriptions seen",
		}),
		latestBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "brc100",
			Name:      "latest_block",
			Help:      "last block handled by the indexer",
		}),
	}
	err := errors.Join(
		r.Register(m.operations),
		r.Register(m.rejected),
		r.Register(m.inscriptions),
		r.Register(m.latestBlock),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) record(op model.Operation, code model.ValideCode) {
	if m == nil {
		return
	}
	if code == model.ValidCodeOK {
		m.operations.WithLabelValues(string(op)).Inc()
		return
	}
	m.rejected.WithLabelValues(string(op), code.String()).Inc()
}

func (m *Metrics) inscription() {
	if m == nil {
		return
	}
	m.inscriptions.Inc()
}

func (m *Metrics) block(number uint64) {
	if m == nil {
		return
	}
	m.latestBlock.Set(float64(number))
}
