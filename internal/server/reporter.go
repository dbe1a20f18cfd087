package server

import (
	"log/slog"
	"secure-auth-app/internal/boundary"
	"secure-auth-app/internal/metrics"
	"strconv"

	"github.com/google/uuid"
)

// NewBoundaryReporter logs a tripped error boundary and counts it. Each report gets
// its own incident id so the entry can be told apart from repeated log lines.
func NewBoundaryReporter(logger *slog.Logger) boundary.Reporter {
	return func(err error, info boundary.Info) {
		panicked := boundary.IsPanic(err)

		metrics.RenderFailures.WithLabelValues(info.Component, strconv.FormatBool(panicked)).Inc()

		logger.Error("Render failed, serving error fallback",
			"incident_id", uuid.NewString(),
			"component", info.Component,
			"panic", panicked,
			"error", err,
			"stack", string(info.Stack),
		)
	}
}
