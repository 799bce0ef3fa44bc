package host

import (
	"context"
	"log/slog"

	"github.com/rickgao/danmaku-overlay/internal/event"
)

// DeliveryObserver is told about signals the window rejected.
type DeliveryObserver interface {
	DeliveryFailed(signal string)
}

// Forwarder drains an event queue into a window. Delivery is best-effort:
// a rejected signal is logged and skipped.
type Forwarder struct {
	queue    *event.Queue
	target   Window
	observer DeliveryObserver
	logger   *slog.Logger
}

// NewForwarder creates a forwarder. observer may be nil.
func NewForwarder(queue *event.Queue, target Window, observer DeliveryObserver, logger *slog.Logger) *Forwarder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Forwarder{
		queue:    queue,
		target:   target,
		observer: observer,
		logger:   logger,
	}
}

// Run delivers events until ctx is done or the queue is closed and drained.
func (f *Forwarder) Run(ctx context.Context) error {
	for {
		e, ok := f.queue.ReceiveContext(ctx)
		if !ok {
			return nil
		}
		f.deliver(e)
	}
}

func (f *Forwarder) deliver(e event.Event) {
	signal := e.Kind.Signal()
	if signal == "" {
		f.logger.Warn("dropping event of unknown kind", "kind", int(e.Kind))
		return
	}

	if err := f.target.Emit(signal, e.Payload()); err != nil {
		f.logger.Warn("signal delivery failed",
			"signal", signal,
			"conn_id", e.ConnID,
			"error", err,
		)
		if f.observer != nil {
			f.observer.DeliveryFailed(signal)
		}
	}
}
