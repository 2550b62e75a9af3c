package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reactive/pkg/source"
)

// Config holds configuration for the state server.
type Config struct {
	// Address is the host:port to listen on.
	// Default: "localhost:7070".
	Address string

	// WatchBuffer is the number of snapshots queued per watcher. When a
	// slow watcher falls behind, the oldest queued snapshot is dropped.
	// Default: 16.
	WatchBuffer int

	// WriteTimeout is the maximum time to wait when sending a WebSocket
	// message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the time between WebSocket pings. Watchers that miss
	// two pings are closed.
	// Default: 30 seconds.
	PingInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// MaxBodyBytes limits PUT bodies.
	// Default: 1MB.
	MaxBodyBytes int64

	// CheckOrigin validates WebSocket origins. Nil accepts same-origin
	// requests only, as gorilla/websocket does.
	CheckOrigin func(r *http.Request) bool

	// Registry receives the HTTP metrics and backs /metrics. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry

	// Store, when set, is saved with the whole state after every
	// successful write.
	Store source.Store

	// TracerName is the OpenTelemetry tracer name.
	// Default: "reactive/server".
	TracerName string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:         "localhost:7070",
		WatchBuffer:     16,
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
		TracerName:      "reactive/server",
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.WatchBuffer <= 0 {
		out.WatchBuffer = d.WatchBuffer
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.PingInterval <= 0 {
		out.PingInterval = d.PingInterval
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.MaxBodyBytes <= 0 {
		out.MaxBodyBytes = d.MaxBodyBytes
	}
	if out.TracerName == "" {
		out.TracerName = d.TracerName
	}
	if out.Registry == nil {
		out.Registry = prometheus.NewRegistry()
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
