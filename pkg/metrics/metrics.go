// Package metrics, Prometheus counter'larını tanımlar.
//
// Counter'lar çağıranın verdiği registry'ye kaydedilir (global default
// registry kullanılmaz); testler kendi registry'sini açabilir.
// Record* method'ları nil receiver'da no-op'tur, metrics kapalıyken
// çağıranlar nil kontrolü yapmak zorunda kalmaz.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tohum"

// Metrics, uygulamanın counter'larını tutar.
type Metrics struct {
	guardDecisions *prometheus.CounterVec
	signIns        *prometheus.CounterVec
	migrations     *prometheus.CounterVec
}

// Label değerleri. Başlangıçta 0 ile oluşturulurlar ki scrape'te görünsünler.
var (
	GuardReasons     = []string{"authenticated", "absent", "malformed", "tampered", "expired"}
	SignInResults    = []string{"success", "invalid_credentials", "rate_limited", "error"}
	MigrationResults = []string{"applied", "unchanged", "failed"}
)

// New, counter'ları oluşturup reg'e kaydeder.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_guard_decisions_total",
			Help:      "Session guard decisions by internal reason.",
		}, []string{"reason"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signin_attempts_total",
			Help:      "Sign-in attempts by result.",
		}, []string{"result"}),
		migrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_migrations_total",
			Help:      "Schema migration gate runs by outcome.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.guardDecisions, m.signIns, m.migrations)

	for _, r := range GuardReasons {
		m.guardDecisions.WithLabelValues(r)
	}
	for _, r := range SignInResults {
		m.signIns.WithLabelValues(r)
	}
	for _, r := range MigrationResults {
		m.migrations.WithLabelValues(r)
	}

	return m
}

// RecordGuardDecision, middleware.DecisionRecorder'ı karşılar.
func (m *Metrics) RecordGuardDecision(reason string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(reason).Inc()
}

// RecordSignIn, bir giriş denemesinin sonucunu sayar.
func (m *Metrics) RecordSignIn(result string) {
	if m == nil {
		return
	}
	m.signIns.WithLabelValues(result).Inc()
}

// RecordMigration, database.OutcomeRecorder'ı karşılar.
func (m *Metrics) RecordMigration(result string) {
	if m == nil {
		return
	}
	m.migrations.WithLabelValues(result).Inc()
}

// Handler, registry'yi Prometheus text formatında sunan /metrics handler'ı.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
