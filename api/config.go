// Package api provides the local web front end: server rendered single
// card, batch and deck pages plus relays to the similarity backend.
package api

import (
	"time"

	"github.com/papercomputeco/similicana/pkg/weights"
)

// Config is the web server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// ResultCount is the default number of similar cards per search
	ResultCount int

	// Debounce is the typeahead delay used by the pages
	Debounce time.Duration

	// PollInterval is the delay between backend status checks
	PollInterval time.Duration

	// Keepalive is the delay between comments sent on an idle progress
	// stream (default 15s)
	Keepalive time.Duration

	// Weights are the sliders' starting positions
	Weights weights.Vector

	// MCP mounts the MCP server at /mcp
	MCP bool
}
