package version

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	assert.Contains(t, Print(), Program)
	assert.Contains(t, GetFullVersion(), GetVersion())
}

func TestNewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(NewCollector()))

	count, err := testutil.GatherAndCount(registry, Program+"_build_info")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
