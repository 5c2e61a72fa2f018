package chat

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readDeadline = 30 * time.Second
	pingEvery    = 10 * time.Second
)

// dialAndSetup opens the socket, installs the pong handler and deadlines,
// and starts the ping loop.
func (c *Client) dialAndSetup() (*websocket.Conn, error) {
	hdr := http.Header{}
	if c.token != "" {
		hdr.Set("Authorization", "Bot "+c.token)
	}
	conn, _, err := websocket.DefaultDialer.Dial(c.url, hdr)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(1 << 20)

	c.touchActivity()

	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		c.touchActivity()
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})
	c.startPing(conn)
	return conn, nil
}

func (c *Client) closeConn() {
	c.stopPing()
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(500*time.Millisecond))
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) startPing(conn *websocket.Conn) {
	c.stopPing() // belt and braces: never two ping loops
	c.pingStop = make(chan struct{})

	go func() {
		t := time.NewTicker(pingEvery)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				c.wmu.Lock()
				_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
				c.wmu.Unlock()
			case <-c.pingStop:
				return
			}
		}
	}()
}

func (c *Client) stopPing() {
	if c.pingStop != nil {
		close(c.pingStop)
		c.pingStop = nil
	}
}

func (c *Client) touchActivity() {
	c.lastActivity.Store(time.Now().UnixNano())
}
