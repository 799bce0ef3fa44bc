package connection

import (
	"errors"
	"net/http"
	"time"
)

// Errors
var (
	ErrNoActiveConnection = errors.New("no active connection")
	ErrEmptyURL           = errors.New("connection url is empty")
	ErrHandshakeFailed    = errors.New("handshake failed")
	ErrSupervisorClosed   = errors.New("supervisor is shut down")
)

// Config configures the supervisor and the pumps it launches.
type Config struct {
	HandshakeTimeout time.Duration // Zero waits indefinitely
	ReadLimit        int64         // Max inbound frame size in bytes (0 = no limit)
	Header           http.Header   // Extra handshake headers
	WriteTimeout     time.Duration // Deadline for the close frame sent on cancellation
}

// DefaultReadLimit caps a single inbound message at 16 MiB.
const DefaultReadLimit = 16 << 20

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 0,
		ReadLimit:        DefaultReadLimit,
		WriteTimeout:     time.Second,
	}
}

// Status describes the contents of the connection slot.
type Status struct {
	Active bool
	ConnID string
	URL    string
}

// frame is one result of a blocking read.
type frame struct {
	messageType int
	data        []byte
	err         error
}
