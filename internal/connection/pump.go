package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"github.com/rickgao/danmaku-overlay/internal/danmaku"
	"github.com/rickgao/danmaku-overlay/internal/event"
)

// pump owns one connection from handshake to termination.
type pump struct {
	token  *Token
	cfg    Config
	dialer *websocket.Dialer
	sink   event.Sink
	logger *slog.Logger

	netDialer net.Dialer
	unwatch   func() bool // Detaches the handshake cancellation watch
}

func newPump(token *Token, cfg Config, dialer *websocket.Dialer, sink event.Sink, logger *slog.Logger) *pump {
	return &pump{
		token:  token,
		cfg:    cfg,
		dialer: dialer,
		sink:   sink,
		logger: logger.With("conn_id", token.ID(), "url", token.URL()),
	}
}

// run performs the handshake and streams until cancellation or stream end.
func (p *pump) run() {
	id, url := p.token.ID(), p.token.URL()

	conn, resp, err := p.dial()
	if err != nil {
		if p.token.Cancelled() {
			p.logger.Debug("handshake abandoned after cancel")
			p.sink.Emit(event.Closed(id, url))
			return
		}
		err = handshakeError(err, resp)
		p.logger.Warn("websocket handshake failed", "error", err)
		p.sink.Emit(event.Failed(id, url, err))
		return
	}
	defer conn.Close()

	if p.cfg.ReadLimit > 0 {
		conn.SetReadLimit(p.cfg.ReadLimit)
	}

	p.logger.Info("websocket connected")
	p.sink.Emit(event.Succeeded(id, url))

	frames := make(chan frame)
	go p.readLoop(conn, frames)

	for {
		select {
		case <-p.token.Done():
			p.sendClose(conn, websocket.CloseNormalClosure, "")
			p.logger.Info("connection cancelled")
			p.sink.Emit(event.Closed(id, url))
			return

		case f := <-frames:
			if f.err != nil {
				if websocket.IsUnexpectedCloseError(f.err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					p.logger.Warn("websocket read error", "error", f.err)
				} else {
					p.logger.Info("server closed stream", "reason", f.err)
				}
				p.sink.Emit(event.Closed(id, url))
				return
			}

			if f.messageType != websocket.TextMessage {
				p.logger.Debug("ignoring non-text frame", "type", f.messageType, "bytes", len(f.data))
				continue
			}

			// Text frames must be UTF-8; anything else fails the connection.
			if !utf8.Valid(f.data) {
				p.logger.Warn("invalid utf-8 in text frame", "bytes", len(f.data))
				p.sendClose(conn, websocket.CloseInvalidFramePayloadData, "invalid utf-8")
				p.sink.Emit(event.Closed(id, url))
				return
			}

			d, err := danmaku.Decode(f.data)
			if err != nil {
				p.logger.Debug("dropping malformed frame", "error", err)
				continue
			}
			p.sink.Emit(event.Message(id, url, d))
		}
	}
}

// dial performs the handshake. Cancelling the token closes the socket so a
// stalled handshake returns immediately.
func (p *pump) dial() (*websocket.Conn, *http.Response, error) {
	d := *p.dialer
	d.NetDialContext = p.netDial

	conn, resp, err := d.DialContext(p.token.Context(), p.token.URL(), p.cfg.Header)
	if p.unwatch != nil && !p.unwatch() && err == nil {
		conn.Close()
		return nil, nil, context.Canceled
	}
	return conn, resp, err
}

func (p *pump) netDial(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := p.netDialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	p.unwatch = context.AfterFunc(p.token.Context(), func() {
		conn.Close()
	})
	return conn, nil
}

// readLoop hands one frame at a time to run. It exits after delivering a read
// error or once the token is cancelled.
func (p *pump) readLoop(conn *websocket.Conn, frames chan<- frame) {
	for {
		messageType, data, err := conn.ReadMessage()

		select {
		case frames <- frame{messageType: messageType, data: data, err: err}:
		case <-p.token.Done():
			return
		}

		if err != nil {
			return
		}
	}
}

// sendClose tells the server we are leaving. Errors are irrelevant here; the
// deferred Close tears the socket down regardless.
func (p *pump) sendClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(p.cfg.WriteTimeout)
	if err := conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		deadline,
	); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		p.logger.Debug("failed to send close frame", "error", err)
	}
}

func handshakeError(err error, resp *http.Response) error {
	if resp != nil {
		return fmt.Errorf("%w: %w (status %d)", ErrHandshakeFailed, err, resp.StatusCode)
	}
	return fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
}
