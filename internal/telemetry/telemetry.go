// Package telemetry makes tool and model activity observable without giving
// the orchestration loop any I/O dependency of its own.
package telemetry

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentagent/config"
)

// Telemetry records tool invocations and model calls. A nil *Telemetry is
// safe to use everywhere and records nothing.
type Telemetry struct {
	cfg    config.TelemetryConfig
	logger *log.Logger

	toolInvocations *prometheus.CounterVec
	toolPayloadSize *prometheus.CounterVec
	modelCalls      *prometheus.CounterVec
}

// New builds a Telemetry wired to the given logger and a fresh prometheus
// registry.
func New(cfg config.TelemetryConfig, logger *log.Logger) *Telemetry {
	t := &Telemetry{
		cfg:    cfg,
		logger: logger,
		toolInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentagent_tool_invocations_total",
			Help: "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		toolPayloadSize: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentagent_tool_payload_chars_total",
			Help: "Characters returned by tools, by tool name.",
		}, []string{"tool"}),
		modelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentagent_model_calls_total",
			Help: "Model backend calls by outcome.",
		}, []string{"outcome"}),
	}
	return t
}

// Logger exposes the underlying logger for collaborators that only log.
func (t *Telemetry) Logger() *log.Logger {
	if t == nil || t.logger == nil {
		return log.Default()
	}
	return t.logger
}

// RecordToolInvocation notes one tool call outcome and the size of its
// payload.
func (t *Telemetry) RecordToolInvocation(tool string, ok bool, payloadChars int) {
	if t == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	t.toolInvocations.WithLabelValues(tool, outcome).Inc()
	t.toolPayloadSize.WithLabelValues(tool).Add(float64(payloadChars))
	t.Logger().Printf("tool %s: %s (%d chars)", tool, outcome, payloadChars)
}

// RecordModelCall notes one model backend round trip.
func (t *Telemetry) RecordModelCall(err error) {
	if t == nil {
		return
	}
	if err != nil {
		t.modelCalls.WithLabelValues("failure").Inc()
		t.Logger().Printf("model call failed: %v", err)
		return
	}
	t.modelCalls.WithLabelValues("success").Inc()
}

// Debugf logs only when verbose diagnostics are requested by the caller.
func (t *Telemetry) Debugf(enabled bool, format string, args ...any) {
	if t == nil || !enabled {
		return
	}
	t.Logger().Printf("[debug] "+format, args...)
}

// Serve exposes the metrics endpoint when telemetry is enabled. It blocks,
// so callers run it in a goroutine.
func (t *Telemetry) Serve() error {
	if t == nil || !t.cfg.Enabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(t.toolInvocations, t.toolPayloadSize, t.modelCalls)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	addr := fmt.Sprintf(":%d", t.cfg.MetricsPort)
	t.Logger().Printf("metrics listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
