package transport

// Handler receives inbound payloads and lifecycle events from a transport.
// All callbacks for one transport are invoked from a single goroutine, in
// delivery order.
type Handler interface {
	// HandleMessage delivers one inbound payload.
	HandleMessage(payload []byte)
	// HandleError reports a transport failure. HandleClose follows.
	HandleError(err error)
	// HandleClose reports that the transport is gone. It fires exactly once.
	HandleClose()
}

// Transport is a persistent bidirectional message connection to an agent.
// The connection is established before the Transport is handed out; Start
// begins inbound delivery so the owner can finish its own bookkeeping first.
type Transport interface {
	// Start begins the read loop. Call it exactly once.
	Start()
	// Send transmits one payload.
	Send(payload []byte) error
	// Close tears the connection down. HandleClose still fires.
	Close() error
}
