package event

import (
	"time"

	"github.com/rickgao/danmaku-overlay/internal/danmaku"
)

// Signal names understood by the host window.
const (
	SignalSucceeded = "connection-succeed"
	SignalFailed    = "connection-failed"
	SignalMessage   = "new-danmaku"
	SignalClosed    = "connection-closed"
)

// Kind tags a lifecycle event.
type Kind int

const (
	KindSucceeded Kind = iota + 1
	KindFailed
	KindMessage
	KindClosed
)

// String returns a short lowercase label, used for logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindSucceeded:
		return "succeeded"
	case KindFailed:
		return "failed"
	case KindMessage:
		return "message"
	case KindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Signal returns the host signal name for the kind.
func (k Kind) Signal() string {
	switch k {
	case KindSucceeded:
		return SignalSucceeded
	case KindFailed:
		return SignalFailed
	case KindMessage:
		return SignalMessage
	case KindClosed:
		return SignalClosed
	default:
		return ""
	}
}

// Event is a lifecycle notification for one connection.
type Event struct {
	Kind    Kind
	ConnID  string          // Token ID of the emitting connection
	URL     string          // Server URL the connection was started with
	Reason  string          // Failure description (KindFailed only)
	Danmaku danmaku.Danmaku // Decoded comment (KindMessage only)
	At      time.Time       // Local emission time
}

// Payload returns the value delivered with the host signal.
func (e Event) Payload() any {
	switch e.Kind {
	case KindSucceeded:
		return "connected to " + e.URL
	case KindFailed:
		return e.Reason
	case KindMessage:
		return e.Danmaku
	case KindClosed:
		return "connection closed"
	default:
		return nil
	}
}

// Succeeded reports a completed handshake.
func Succeeded(connID, url string) Event {
	return Event{Kind: KindSucceeded, ConnID: connID, URL: url, At: time.Now()}
}

// Failed reports a handshake failure.
func Failed(connID, url string, err error) Event {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return Event{Kind: KindFailed, ConnID: connID, URL: url, Reason: reason, At: time.Now()}
}

// Message reports a decoded comment.
func Message(connID, url string, d danmaku.Danmaku) Event {
	return Event{Kind: KindMessage, ConnID: connID, URL: url, Danmaku: d, At: time.Now()}
}

// Closed reports the end of a connection.
func Closed(connID, url string) Event {
	return Event{Kind: KindClosed, ConnID: connID, URL: url, At: time.Now()}
}

// Sink receives lifecycle events. Emit must not block.
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Discard is a Sink that drops everything.
var Discard Sink = SinkFunc(func(Event) {})
