package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// MaxFrameBytes bounds a client frame; attachments travel inline.
	MaxFrameBytes = 4 << 20
)

// Conn wraps a websocket connection. Writes may come from several
// goroutines; reads from one.
type Conn struct {
	conn *websocket.Conn
	mu   sync.Mutex

	onActivity func()
}

// NewConn configures read limits and pong handling on c.
func NewConn(c *websocket.Conn) *Conn {
	wc := &Conn{conn: c}
	c.SetReadLimit(MaxFrameBytes)
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		wc.activity()
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})
	return wc
}

// OnActivity registers fn to run on every frame or pong received from the
// peer. It must be called before the first Read.
func (c *Conn) OnActivity(fn func()) {
	c.onActivity = fn
}

func (c *Conn) activity() {
	if c.onActivity != nil {
		c.onActivity()
	}
}

// Read decodes the next client frame. Any frame extends the read deadline.
func (c *Conn) Read(v *ClientFrame) error {
	if err := c.conn.ReadJSON(v); err != nil {
		return err
	}
	c.activity()
	return c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// Write sends v as a JSON text frame.
func (c *Conn) Write(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// WriteError sends an ErrorFrame.
func (c *Conn) WriteError(msg string) error {
	return c.Write(ErrorFrame{Type: EventError, Error: msg})
}

// KeepAlive pings the peer until ctx is done or a ping fails.
func (c *Conn) KeepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Close sends a normal close frame and closes the connection.
func (c *Conn) Close() error {
	c.mu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.mu.Unlock()
	return c.conn.Close()
}
