package xm

// TransportState is the lifecycle state of one transport instance, owned
// exclusively by that transport.
type TransportState string

const (
	StateIdle       TransportState = "idle"
	StateConnecting TransportState = "connecting"
	StateConnected  TransportState = "connected"
	StateClosing    TransportState = "closing"
	StateClosed     TransportState = "closed"

	// StateError is reached on unrecoverable connect failure.
	StateError TransportState = "error"

	// StateUnknown is the sentinel returned when no transport is registered
	// for a channel. Transports never enter this state themselves.
	StateUnknown TransportState = "unknown"
)
