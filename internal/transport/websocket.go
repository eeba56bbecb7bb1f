package transport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// webSocketTransport speaks JSON-RPC over a websocket connection. Messages
// are UTF-8 text frames, one JSON-RPC envelope per frame.
type webSocketTransport struct {
	conn    *websocket.Conn
	handler Handler

	// writeLock serializes writers; the websocket package allows only one
	// concurrent writer per connection.
	writeLock sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// DialWebSocket connects to an agent endpoint such as
// ws://127.0.0.1:8137/acp. The returned transport delivers nothing until
// Start is called.
func DialWebSocket(url string, handler Handler) (Transport, error) {
	if handler == nil {
		return nil, errors.New("transport handler required")
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &webSocketTransport{
		conn:    conn,
		handler: handler,
		closed:  make(chan struct{}),
	}, nil
}

// Start launches the read pump.
func (t *webSocketTransport) Start() {
	go t.readLoop()
}

// readLoop delivers inbound frames until the connection dies.
func (t *webSocketTransport) readLoop() {
	for {
		_, payload, err := t.conn.ReadMessage()
		if err != nil {
			select {
			case <-t.closed:
				// Locally initiated close; not an error.
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					t.handler.HandleError(fmt.Errorf("websocket read: %w", err))
				}
			}
			t.handler.HandleClose()
			return
		}
		t.handler.HandleMessage(payload)
	}
}

// Send writes one payload as a text frame.
func (t *webSocketTransport) Send(payload []byte) error {
	t.writeLock.Lock()
	defer t.writeLock.Unlock()
	if err := t.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}
	return nil
}

// Close tears the connection down and unblocks the read pump.
func (t *webSocketTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closed)
		t.writeLock.Lock()
		_ = t.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		t.writeLock.Unlock()
		err = t.conn.Close()
	})
	return err
}
