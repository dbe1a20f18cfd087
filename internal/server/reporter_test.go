package server

import (
	"errors"
	"log/slog"
	"secure-auth-app/internal/boundary"
	"secure-auth-app/internal/metrics"
	"secure-auth-app/internal/testutil"
	"testing"

	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundaryReporter_LogsIncident(t *testing.T) {
	logs := testutil.NewTestLogHandler()
	report := NewBoundaryReporter(slog.New(logs))

	counter := metrics.RenderFailures.WithLabelValues("/reporter-test", "true")
	before := promtestutil.ToFloat64(counter)

	report(&boundary.PanicError{Value: errors.New("boom")}, boundary.Info{Component: "/reporter-test", Stack: []byte("goroutine 1")})

	assert.Equal(t, before+1, promtestutil.ToFloat64(counter))

	records := logs.GetRecordsByLevel(slog.LevelError)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "Render failed, serving error fallback", record.Message)
	assert.Equal(t, "/reporter-test", record.Attrs["component"])
	assert.Equal(t, true, record.Attrs["panic"])
	assert.Equal(t, "goroutine 1", record.Attrs["stack"])

	incidentID, ok := record.Attrs["incident_id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(incidentID)
	assert.NoError(t, err)
}

func TestBoundaryReporter_CountsPlainErrors(t *testing.T) {
	report := NewBoundaryReporter(slog.New(testutil.NewTestLogHandler()))

	counter := metrics.RenderFailures.WithLabelValues("/reporter-test", "false")
	before := promtestutil.ToFloat64(counter)

	report(errors.New("template: bad field"), boundary.Info{Component: "/reporter-test"})

	assert.Equal(t, before+1, promtestutil.ToFloat64(counter))
}
