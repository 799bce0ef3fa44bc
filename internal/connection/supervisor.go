package connection

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/danmaku-overlay/internal/event"
)

// Supervisor guarantees at most one live danmaku connection.
type Supervisor interface {
	// Start cancels the current connection, if any, and launches a new one.
	// It returns the new connection ID without waiting for the handshake;
	// the outcome arrives as a lifecycle event.
	Start(url string) (string, error)

	// Stop cancels the current connection. Returns ErrNoActiveConnection if
	// the slot is empty.
	Stop() error

	// Status reports what the slot currently holds.
	Status() Status

	// Shutdown cancels the current connection and waits for every launched
	// pump to exit, or for ctx to be done. Later Start calls are rejected.
	Shutdown(ctx context.Context) error
}

// supervisor implements the Supervisor interface.
type supervisor struct {
	cfg    Config
	sink   event.Sink
	logger *slog.Logger
	dialer *websocket.Dialer

	// Guards slot and closed. Held only for the swap.
	mu     sync.Mutex
	slot   *Token
	closed bool

	wg sync.WaitGroup
}

// NewSupervisor creates a supervisor that reports lifecycle events to sink.
func NewSupervisor(cfg Config, sink event.Sink, logger *slog.Logger) Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = event.Discard
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = time.Second
	}

	return &supervisor{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}
}

// Start launches a new pump, superseding the current one.
func (s *supervisor) Start(url string) (string, error) {
	if url == "" {
		return "", ErrEmptyURL
	}

	token := newToken(url)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrSupervisorClosed
	}
	prev := s.slot
	if prev != nil {
		prev.Cancel()
	}
	s.slot = token
	// Add under mu so it cannot race with the Wait in Shutdown.
	s.wg.Add(1)
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info("superseding connection", "prev_conn_id", prev.ID(), "conn_id", token.ID())
	}

	p := newPump(token, s.cfg, s.dialer, s.sink, s.logger)
	go func() {
		defer s.wg.Done()
		p.run()
	}()

	s.logger.Debug("connection started", "conn_id", token.ID(), "url", url)
	return token.ID(), nil
}

// Stop cancels the current pump and empties the slot.
func (s *supervisor) Stop() error {
	s.mu.Lock()
	token := s.slot
	s.slot = nil
	s.mu.Unlock()

	if token == nil {
		return ErrNoActiveConnection
	}

	token.Cancel()
	s.logger.Info("connection stopped", "conn_id", token.ID())
	return nil
}

// Status reports the slot contents. A token whose pump already exited on its
// own still counts as active until the next Start or Stop.
func (s *supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot == nil {
		return Status{}
	}
	return Status{
		Active: true,
		ConnID: s.slot.ID(),
		URL:    s.slot.URL(),
	}
}

// Shutdown stops the current pump and waits for all pumps to exit. Start
// fails with ErrSupervisorClosed from then on.
func (s *supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	token := s.slot
	s.slot = nil
	s.mu.Unlock()

	if token != nil {
		token.Cancel()
		s.logger.Info("connection stopped", "conn_id", token.ID())
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("shutdown timeout, pumps still running")
		return ctx.Err()
	}
}
