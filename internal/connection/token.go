package connection

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// Token is the cancellation capability shared by the supervisor and one pump.
// Cancel is idempotent.
type Token struct {
	id        string
	url       string
	ctx       context.Context
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

func newToken(url string) *Token {
	ctx, cancel := context.WithCancel(context.Background())
	return &Token{
		id:     uuid.NewString(),
		url:    url,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the connection ID this token was issued for.
func (t *Token) ID() string {
	return t.id
}

// URL returns the server URL the connection was started with.
func (t *Token) URL() string {
	return t.url
}

// Cancel signals the pump to stop. Reports whether this call did the cancelling.
func (t *Token) Cancel() bool {
	if !t.cancelled.CompareAndSwap(false, true) {
		return false
	}
	t.cancel()
	return true
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}

// Done is closed once the token is cancelled.
func (t *Token) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Context returns a context cancelled together with the token.
func (t *Token) Context() context.Context {
	return t.ctx
}
