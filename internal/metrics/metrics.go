package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// lowConfidenceThreshold mirrors the reporting cutoff used by the
// processing pipeline.
const lowConfidenceThreshold = 50

// TriageMetrics exposes counters for the triage flows on a dedicated
// registry.
type TriageMetrics struct {
	registry *prometheus.Registry

	emailsReceived  prometheus.Counter
	emailsForwarded *prometheus.CounterVec
	emailsCancelled prometheus.Counter
	classifications *prometheus.CounterVec
	lowConfidence   prometheus.Counter
	toProcessEmails prometheus.Gauge
	automationTicks prometheus.Counter
}

func New() *TriageMetrics {
	registry := prometheus.NewRegistry()

	emailsReceived := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "triage",
		Name:      "emails_received_total",
		Help:      "Total emails fetched into the triage queue.",
	})
	emailsForwarded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "triage",
		Name:      "emails_forwarded_total",
		Help:      "Total emails forwarded, by department and routing mode.",
	}, []string{"department", "mode"})
	emailsCancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "triage",
		Name:      "emails_cancelled_total",
		Help:      "Total emails whose suggestion was rejected.",
	})
	classifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "triage",
		Name:      "classifications_total",
		Help:      "Total classification attempts by outcome.",
	}, []string{"outcome"})
	lowConfidence := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "triage",
		Name:      "low_confidence_total",
		Help:      "Total classifications below the confidence threshold.",
	})
	toProcessEmails := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "triage",
		Name:      "to_process_emails",
		Help:      "Emails currently awaiting a triage decision.",
	})
	automationTicks := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "triage",
		Name:      "automation_ticks_total",
		Help:      "Total automatic-routing timer ticks handled.",
	})

	registry.MustRegister(
		emailsReceived,
		emailsForwarded,
		emailsCancelled,
		classifications,
		lowConfidence,
		toProcessEmails,
		automationTicks,
	)

	return &TriageMetrics{
		registry:        registry,
		emailsReceived:  emailsReceived,
		emailsForwarded: emailsForwarded,
		emailsCancelled: emailsCancelled,
		classifications: classifications,
		lowConfidence:   lowConfidence,
		toProcessEmails: toProcessEmails,
		automationTicks: automationTicks,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *TriageMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *TriageMetrics) RecordReceived(count int) {
	m.emailsReceived.Add(float64(count))
}

func (m *TriageMetrics) RecordForwarded(department, mode string) {
	m.emailsForwarded.WithLabelValues(department, mode).Inc()
}

func (m *TriageMetrics) RecordCancelled(count int) {
	m.emailsCancelled.Add(float64(count))
}

func (m *TriageMetrics) RecordClassification(ok bool, confidence int) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.classifications.WithLabelValues(outcome).Inc()
	if ok && confidence < lowConfidenceThreshold {
		m.lowConfidence.Inc()
	}
}

func (m *TriageMetrics) SetToProcess(count int) {
	m.toProcessEmails.Set(float64(count))
}

func (m *TriageMetrics) RecordAutomationTick() {
	m.automationTicks.Inc()
}
