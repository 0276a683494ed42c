package config

import (
	"time"

	"github.com/papercomputeco/similicana/pkg/weights"
)

const (
	defaultBackendTarget = "http://localhost:10000"
	defaultClientTimeout = 30 * time.Second

	defaultResultCount = 5
	defaultDebounce    = 300 * time.Millisecond

	defaultPollInterval = time.Second

	defaultWebListen = ":8090"
	defaultMCPListen = ":8091"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			BackendTarget: defaultBackendTarget,
			Timeout:       Duration(defaultClientTimeout),
		},
		Search: SearchConfig{
			ResultCount: defaultResultCount,
			Debounce:    Duration(defaultDebounce),
		},
		Poll: PollConfig{
			Interval: Duration(defaultPollInterval),
		},
		Web: WebConfig{
			Listen: defaultWebListen,
		},
		MCP: MCPConfig{
			Listen: defaultMCPListen,
		},
		Weights: WeightsConfig(weights.Defaults().Map()),
	}
}
