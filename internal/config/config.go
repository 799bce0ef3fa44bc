package config

import "time"

// Config is the root configuration for the overlay host.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Control ControlConfig `yaml:"control"`
	Events  EventsConfig  `yaml:"events"`
	Overlay OverlayConfig `yaml:"overlay"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds danmaku server settings.
type ServerConfig struct {
	URL              string            `yaml:"url"`               // Connect at startup when set
	HandshakeTimeout time.Duration     `yaml:"handshake_timeout"` // 0 = wait indefinitely
	ReadLimit        int64             `yaml:"read_limit"`        // Max message size in bytes (-1 = no limit)
	Headers          map[string]string `yaml:"headers"`           // Extra handshake headers
}

// ControlConfig holds the host command HTTP surface settings.
type ControlConfig struct {
	Addr string `yaml:"addr"` // Must be a loopback host
}

// EventsConfig holds lifecycle event queue settings.
type EventsConfig struct {
	QueueCapacity int `yaml:"queue_capacity"` // Initial capacity
	QueueLimit    int `yaml:"queue_limit"`    // Growth cap (-1 = unbounded)
}

// OverlayConfig identifies the overlay window.
type OverlayConfig struct {
	Window string `yaml:"window"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
