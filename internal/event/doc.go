// Package event carries connection lifecycle notifications from the stream
// pump to the host.
//
// Each connection emits, in order:
//   - Succeeded or Failed (exactly one, unless cancelled mid-handshake)
//   - zero or more MessageReceived
//   - Closed (at most once, never after Failed)
//
// Sinks must not block the emitter. Queue is the default sink: a growable
// FIFO drained by a single consumer.
package event
