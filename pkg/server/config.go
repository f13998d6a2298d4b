package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/docroutes/pkg/component"
	"github.com/vango-dev/docroutes/pkg/source"
)

// Config configures the resolution server.
type Config struct {
	// Address is the listen address (default ":8080").
	Address string

	// ShutdownTimeout bounds graceful shutdown (default 30s).
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers (default 5s).
	ReadHeaderTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a notification
	// to one WebSocket client (default 10s). Clients that miss it are dropped.
	WriteTimeout time.Duration

	// Loader reloads the table for POST /_routes/reload. When nil the
	// endpoint responds 501.
	Loader source.Loader

	// AdminSecret is the HS256 key for bearer tokens on admin endpoints.
	// When empty the admin endpoints are open.
	AdminSecret string

	// Components renders preview pages. Default: a registry that renders
	// placeholders for every handle.
	Components *component.Registry

	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// CheckOrigin validates WebSocket origins. Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// Logger is the server logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ShutdownTimeout:   30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		CheckOrigin:       SameOriginCheck,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		c = defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.Components == nil {
		out.Components = component.NewRegistry()
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header (e.g., curl or a server-side client)
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}
	return originURL.Host == host
}
