package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil {
			return fmt.Errorf("server.url: %w", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("server.url scheme must be ws or wss, got %q", u.Scheme)
		}
	}
	if c.Server.HandshakeTimeout < 0 {
		return errors.New("server.handshake_timeout must be >= 0")
	}
	if c.Server.ReadLimit < Unlimited {
		return errors.New("server.read_limit must be >= 0, or -1 for no limit")
	}

	for name := range c.Server.Headers {
		if name == "" {
			return errors.New("server.headers contains an empty header name")
		}
	}

	if c.Control.Addr == "" {
		return errors.New("control.addr is required")
	}
	if err := validateLoopback(c.Control.Addr); err != nil {
		return err
	}

	if c.Events.QueueCapacity < 1 {
		return errors.New("events.queue_capacity must be >= 1")
	}
	if c.Events.QueueLimit < Unlimited {
		return errors.New("events.queue_limit must be >= 0, or -1 for unbounded")
	}
	if c.Events.QueueLimit > 0 && c.Events.QueueLimit < c.Events.QueueCapacity {
		return fmt.Errorf("events.queue_limit (%d) cannot be below queue_capacity (%d)",
			c.Events.QueueLimit, c.Events.QueueCapacity)
	}

	if c.Overlay.Window == "" {
		return errors.New("overlay.window is required")
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	return nil
}

// validateLoopback keeps the control API off the network.
func validateLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("control.addr: %w", err)
	}
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("control.addr must be a loopback address, got %q", addr)
	}
	return nil
}

// ParseLevel maps a log.level value to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", level)
	}
}
