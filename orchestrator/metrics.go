package orchestrator

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxSignLabels bounds the sign label on confirmed_total. Signs come from the
// recognizer's vocabulary; any beyond the first MaxSignLabels seen are
// counted under OtherSign.
const MaxSignLabels = 128

const OtherSign = "other"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	observations   *prometheus.CounterVec
	confirmedTotal *prometheus.CounterVec
	sessions       prometheus.Counter
	sessionSeconds prometheus.Histogram
	sinkErrors     *prometheus.CounterVec

	mu    sync.Mutex
	signs map[string]struct{}
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		observations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signstream",
			Name:      "observations_total",
			Help:      "Frames observed, by whether a sign was present",
		}, []string{"kind"}),
		confirmedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signstream",
			Name:      "confirmed_total",
			Help:      "Confirmed sign events, by sign (bounded, overflow as \"other\")",
		}, []string{"sign"}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "signstream",
			Name:      "sessions_total",
			Help:      "Completed detection sessions",
		}),
		sessionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "signstream",
			Name:      "session_seconds",
			Help:      "Session length in seconds",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		sinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signstream",
			Name:      "sink_errors_total",
			Help:      "Failed attempts to persist a session record",
		}, []string{"sink"}),
		signs: make(map[string]struct{}),
	}
	reg.MustRegister(m.observations, m.confirmedTotal, m.sessions, m.sessionSeconds, m.sinkErrors)
	return m
}

func (m *Metrics) observed(hasSign bool) {
	if m == nil {
		return
	}
	kind := "empty"
	if hasSign {
		kind = "sign"
	}
	m.observations.WithLabelValues(kind).Inc()
}

func (m *Metrics) confirmed(sign string) {
	if m == nil {
		return
	}
	m.confirmedTotal.WithLabelValues(m.signLabel(sign)).Inc()
}

func (m *Metrics) signLabel(sign string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.signs[sign]; ok {
		return sign
	}
	if len(m.signs) >= MaxSignLabels {
		return OtherSign
	}
	m.signs[sign] = struct{}{}
	return sign
}

func (m *Metrics) sessionDone(seconds float64) {
	if m == nil {
		return
	}
	m.sessions.Inc()
	m.sessionSeconds.Observe(seconds)
}

func (m *Metrics) sinkFailed(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}

// Handler serves /metrics from g and a trivial /healthz.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
