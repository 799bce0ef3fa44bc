package config

// Unlimited disables server.read_limit or events.queue_limit. Zero means
// "use the default" for both.
const Unlimited = -1

// Default values for optional configuration fields.
const (
	DefaultControlAddr   = "127.0.0.1:7878"
	DefaultReadLimit     = 16 << 20
	DefaultQueueCapacity = 64
	DefaultQueueLimit    = 65536
	DefaultOverlayWindow = "overlay"
	DefaultLogLevel      = "info"
	DefaultMetricsPath   = "/metrics"
)

func (c *Config) applyDefaults() {
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}

	if c.Control.Addr == "" {
		c.Control.Addr = DefaultControlAddr
	}

	if c.Events.QueueCapacity == 0 {
		c.Events.QueueCapacity = DefaultQueueCapacity
	}
	if c.Events.QueueLimit == 0 {
		c.Events.QueueLimit = DefaultQueueLimit
	}

	if c.Overlay.Window == "" {
		c.Overlay.Window = DefaultOverlayWindow
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

// FrameLimit returns the read limit in the form connection.Config takes, where
// 0 means no limit.
func (s ServerConfig) FrameLimit() int64 {
	if s.ReadLimit == Unlimited {
		return 0
	}
	return s.ReadLimit
}

// GrowthLimit returns the queue limit in the form event.NewQueue takes, where
// 0 means unbounded.
func (e EventsConfig) GrowthLimit() int {
	if e.QueueLimit == Unlimited {
		return 0
	}
	return e.QueueLimit
}
