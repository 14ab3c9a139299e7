// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status labels for command metrics.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusNotFound    = "not_found"
	StatusInvalidArgs = "invalid_args"
)

// CommandExecutions counts dispatched commands.
var CommandExecutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "neonreach_command_executions_total",
		Help: "Total number of command executions",
	},
	[]string{"command", "source", "status"},
)

// CommandDuration observes handler run time.
var CommandDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "neonreach_command_duration_seconds",
		Help:    "Command execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"command", "source"},
)

// RegisterMetrics registers command metrics with reg. Panics on duplicate
// registration, following prometheus convention.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(CommandExecutions)
	reg.MustRegister(CommandDuration)
}

// metricsRecorder collects labels over one dispatch.
type metricsRecorder struct {
	start   time.Time
	command string
	source  string
	status  string
}

func newMetricsRecorder(command string) *metricsRecorder {
	return &metricsRecorder{start: time.Now(), command: command, status: StatusError}
}

func (m *metricsRecorder) record() {
	if m.command == "" {
		return
	}
	CommandExecutions.WithLabelValues(m.command, m.source, m.status).Inc()
	if m.source != "" {
		CommandDuration.WithLabelValues(m.command, m.source).Observe(time.Since(m.start).Seconds())
	}
}
