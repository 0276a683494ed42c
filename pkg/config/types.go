package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/papercomputeco/similicana/pkg/card"
)

// Config represents the persistent similicana configuration stored as
// config.toml in the .similicana/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Client  ClientConfig  `toml:"client"`
	Search  SearchConfig  `toml:"search"`
	Poll    PollConfig    `toml:"poll"`
	Web     WebConfig     `toml:"web"`
	MCP     MCPConfig     `toml:"mcp"`
	Weights WeightsConfig `toml:"weights"`
}

// ClientConfig holds settings for reaching the similarity backend.
// BackendTarget is a full URL (scheme + host + port).
type ClientConfig struct {
	BackendTarget string   `toml:"backend_target,omitempty"`
	Timeout       Duration `toml:"timeout,omitempty"`

	// RateLimit is the maximum number of backend requests per second.
	// Zero disables client-side pacing.
	RateLimit float64 `toml:"rate_limit,omitempty"`
}

// SearchConfig holds single-card search and typeahead settings.
type SearchConfig struct {
	ResultCount int      `toml:"result_count,omitempty"`
	Debounce    Duration `toml:"debounce,omitempty"`
}

// PollConfig holds readiness polling settings.
type PollConfig struct {
	Interval Duration `toml:"interval,omitempty"`
}

// WebConfig holds settings for the local web front end.
type WebConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// MCPConfig holds settings for the standalone MCP server.
type MCPConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// WeightsConfig holds the last applied weight of each similarity factor.
// Factors missing from the file fall back to the default weights.
type WeightsConfig map[string]float64

// Duration is a time.Duration that encodes as a Go duration string in TOML.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = buildConfigKeys()

func buildConfigKeys() map[string]configKeyInfo {
	keys := map[string]configKeyInfo{
		"client.backend_target": {
			get: func(c *Config) string { return c.Client.BackendTarget },
			set: func(c *Config, v string) error { c.Client.BackendTarget = v; return nil },
		},
		"client.timeout": durationKey("client.timeout", func(c *Config) *Duration { return &c.Client.Timeout }),
		"client.rate_limit": {
			get: func(c *Config) string { return formatFloat(c.Client.RateLimit) },
			set: func(c *Config, v string) error {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("invalid value for client.rate_limit: %w", err)
				}
				if f < 0 {
					return fmt.Errorf("invalid value for client.rate_limit: must not be negative")
				}
				c.Client.RateLimit = f
				return nil
			},
		},
		"search.result_count": {
			get: func(c *Config) string {
				if c.Search.ResultCount == 0 {
					return ""
				}
				return strconv.Itoa(c.Search.ResultCount)
			},
			set: func(c *Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return fmt.Errorf("invalid value for search.result_count: %w", err)
				}
				if n < 1 {
					return fmt.Errorf("invalid value for search.result_count: must be at least 1")
				}
				c.Search.ResultCount = n
				return nil
			},
		},
		"search.debounce": durationKey("search.debounce", func(c *Config) *Duration { return &c.Search.Debounce }),
		"poll.interval":   durationKey("poll.interval", func(c *Config) *Duration { return &c.Poll.Interval }),
		"web.listen": {
			get: func(c *Config) string { return c.Web.Listen },
			set: func(c *Config, v string) error { c.Web.Listen = v; return nil },
		},
		"mcp.listen": {
			get: func(c *Config) string { return c.MCP.Listen },
			set: func(c *Config, v string) error { c.MCP.Listen = v; return nil },
		},
	}

	for _, factor := range card.Factors {
		key := "weights." + string(factor)
		keys[key] = configKeyInfo{
			get: func(c *Config) string {
				w, ok := c.Weights[string(factor)]
				if !ok {
					return ""
				}
				return formatFloat(w)
			},
			set: func(c *Config, v string) error {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("invalid value for %s: %w", key, err)
				}
				if f < 0 || f > 1 {
					return fmt.Errorf("invalid value for %s: must be between 0 and 1", key)
				}
				if c.Weights == nil {
					c.Weights = WeightsConfig{}
				}
				c.Weights[string(factor)] = f
				return nil
			},
		}
	}

	return keys
}

func durationKey(name string, field func(c *Config) *Duration) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			d := *field(c)
			if d == 0 {
				return ""
			}
			return time.Duration(d).String()
		},
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			if d <= 0 {
				return fmt.Errorf("invalid value for %s: must be positive", name)
			}
			*field(c) = Duration(d)
			return nil
		},
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
