// Package connection implements the danmaku stream connection supervisor.
//
// The Supervisor:
//   - Owns a single connection slot holding at most one Token
//   - Start cancels the token in the slot (without waiting) and launches a new pump
//   - Stop cancels the token in the slot, or fails with ErrNoActiveConnection
//   - Never holds its lock across network I/O
//
// Each pump is single-use: it dials, emits Succeeded or Failed, then races
// token cancellation against the next inbound frame until one of them ends
// the stream, emitting Closed. There is no reconnection.
package connection
