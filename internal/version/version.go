package version

import (
	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/common/version"
)

// Program names the binary in version output and the build_info metric. Build
// metadata is injected with -ldflags into github.com/prometheus/common/version.
const Program = "secure_auth_app"

func GetVersion() string {
	return version.Version
}

func GetFullVersion() string {
	return version.Info()
}

// Print returns the multi line version banner shown by -version.
func Print() string {
	return version.Print(Program)
}

// NewCollector exposes the build metadata as a Prometheus build_info gauge.
func NewCollector() prometheus.Collector {
	return versioncollector.NewCollector(Program)
}
