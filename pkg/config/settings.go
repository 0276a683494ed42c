package config

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/client"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// Settings is the effective configuration of one command run, read from
// viper after flags are bound.
type Settings struct {
	BackendTarget string
	Timeout       time.Duration
	RateLimit     float64
	ResultCount   int
	Debounce      time.Duration
	PollInterval  time.Duration
	WebListen     string
	MCPListen     string
	Weights       weights.Vector
}

// Resolve reads Settings from v.
func Resolve(v *viper.Viper) Settings {
	w := make(weights.Vector, len(card.Factors))
	for _, f := range card.Factors {
		w[f] = v.GetFloat64("weights." + string(f))
	}

	return Settings{
		BackendTarget: v.GetString("client.backend_target"),
		Timeout:       v.GetDuration("client.timeout"),
		RateLimit:     v.GetFloat64("client.rate_limit"),
		ResultCount:   v.GetInt("search.result_count"),
		Debounce:      v.GetDuration("search.debounce"),
		PollInterval:  v.GetDuration("poll.interval"),
		WebListen:     v.GetString("web.listen"),
		MCPListen:     v.GetString("mcp.listen"),
		Weights:       w,
	}
}

// LoadSettings resolves Settings for cmd. The persistent --config-dir flag
// selects the config directory and the registry flags named by keys take
// precedence over it once set.
func LoadSettings(cmd *cobra.Command, keys ...string) (Settings, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	v, err := InitViper(configDir)
	if err != nil {
		return Settings{}, err
	}
	BindRegisteredFlags(v, cmd, ClientFlags, keys)
	return Resolve(v), nil
}

// NewClient returns a backend client configured from s.
func (s Settings) NewClient(logger *slog.Logger) (*client.Client, error) {
	return client.New(s.BackendTarget,
		client.WithTimeout(s.Timeout),
		client.WithRateLimit(s.RateLimit),
		client.WithLogger(logger),
	)
}
