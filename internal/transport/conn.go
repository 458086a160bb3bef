package transport

import (
	"context"

	"nhooyr.io/websocket"
)

// Conn is the minimal send/receive/close surface package match and the
// registry depend on. It is satisfied by *wsConn (the nhooyr.io/websocket
// binding below) and by an in-memory fake in tests, so orchestration logic
// never imports the websocket package directly.
type Conn interface {
	Send(ctx context.Context, data []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// wsConn adapts a nhooyr.io/websocket connection to Conn, framing every
// message as MessageText per spec.md §6 ("framed text messages").
type wsConn struct {
	ws *websocket.Conn
}

// NewWSConn wraps an accepted websocket connection (see
// nhooyr.io/websocket's ws.Accept(w, r, nil) idiom) for use by the
// Connection Registry.
func NewWSConn(ws *websocket.Conn) Conn {
	return &wsConn{ws: ws}
}

func (c *wsConn) Send(ctx context.Context, data []byte) error {
	return c.ws.Write(ctx, websocket.MessageText, data)
}

func (c *wsConn) Receive(ctx context.Context) ([]byte, error) {
	_, data, err := c.ws.Read(ctx)
	return data, err
}

func (c *wsConn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "done")
}
