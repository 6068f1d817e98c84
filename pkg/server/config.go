package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config configures the preview server.
type Config struct {
	// Address is the listen address (default ":8080").
	Address string

	// MaxBodyBytes limits request and WebSocket message size.
	// Default: 4 MiB
	MaxBodyBytes int64

	// AllowedOrigins lists the origins accepted for WebSocket upgrades.
	// An entry "*" accepts any origin. When empty only same-origin
	// requests are accepted.
	AllowedOrigins []string

	// PagesDir is the directory served under /pages. Empty disables
	// the route.
	PagesDir string

	// StyleSheets are linked from every page served under /pages.
	StyleSheets []string

	// StaticDir is the directory served under /static. Empty disables
	// the route.
	StaticDir string

	// Reloader enables live reload for pages when set.
	Reloader Reloader

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout is passed to http.Server.
	ReadHeaderTimeout time.Duration

	// IdleTimeout is passed to http.Server.
	IdleTimeout time.Duration

	// WSWriteTimeout is the deadline for a single WebSocket write.
	WSWriteTimeout time.Duration

	// Logger receives server logs. Nil means slog.Default().
	Logger *slog.Logger
}

// Reloader serves the live reload socket and its client script.
type Reloader interface {
	http.Handler

	// Script returns the JavaScript that connects to the socket.
	Script(socketPath string) string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		MaxBodyBytes:      4 << 20,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		WSWriteTimeout:    10 * time.Second,
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	cfg := *c
	if cfg.Address == "" {
		cfg.Address = defaults.Address
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = defaults.IdleTimeout
	}
	if cfg.WSWriteTimeout == 0 {
		cfg.WSWriteTimeout = defaults.WSWriteTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &cfg
}

// CheckOrigin reports whether a WebSocket upgrade from r is allowed.
func (c *Config) CheckOrigin(r *http.Request) bool {
	if len(c.AllowedOrigins) == 0 {
		return SameOriginCheck(r)
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

// SameOriginCheck validates that the request origin matches the host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header (e.g., curl)
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
