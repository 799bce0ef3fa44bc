// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Lifecycle events by kind
//   - Connections currently streaming
//   - Host signal delivery failures
//   - Events dropped by the event queue
package metrics
