package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

func (c *Client) readLoop(ctx context.Context) {
	defer func() {
		c.closed.Store(true)
		c.closeConn()
		if c.OnDisconnected != nil {
			c.OnDisconnected()
		}
	}()

	// close the socket on context cancel to unblock ReadMessage
	go func() {
		<-ctx.Done()
		c.closeConn()
	}()

	backoff := time.Second

	for {
		if c.conn != nil {
			_, data, err := c.conn.ReadMessage()
			if err == nil {
				var f frame
				if uerr := json.Unmarshal(data, &f); uerr != nil {
					if c.OnError != nil {
						c.OnError(uerr)
					}
					continue
				}
				c.touchActivity()
				c.handleFrame(&f)
				backoff = time.Second
				continue
			}

			if c.OnError != nil && !c.closed.Load() {
				c.OnError(err)
			}
			if c.closed.Load() {
				return
			}
		}

		// connection gone: fail waiters, then reconnect with backoff
		c.closeConn()
		c.failPendingCallbacks("connection lost")

		for !c.closed.Load() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			conn, derr := c.dialAndSetup()
			if derr != nil {
				if c.OnError != nil {
					c.OnError(fmt.Errorf("reconnect failed (wait %v): %w", backoff, derr))
				}
				if backoff < 30*time.Second {
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
				}
				continue
			}
			c.conn = conn
			c.touchActivity()
			if c.OnConnected != nil {
				c.OnConnected()
			}
			backoff = time.Second
			break
		}
		if c.closed.Load() {
			return
		}
	}
}

func (c *Client) handleFrame(f *frame) {
	switch f.Op {
	case opHello:
		var h helloData
		if err := json.Unmarshal(f.Data, &h); err == nil {
			c.selfID.Store(h.SelfID)
		}

	case opResponse:
		c.mu.Lock()
		cb, ok := c.cbs[f.Nonce]
		if ok {
			delete(c.cbs, f.Nonce)
		}
		c.mu.Unlock()
		if ok && cb(f) {
			return
		}

	case opDispatch:
		switch f.Type {
		case evMessageCreate:
			var ev MessageEvent
			if err := json.Unmarshal(f.Data, &ev); err != nil {
				if c.OnError != nil {
					c.OnError(err)
				}
				return
			}
			if c.OnMessage != nil {
				c.OnMessage(ev)
			}
		case evReactionAdd:
			var ev ReactionEvent
			if err := json.Unmarshal(f.Data, &ev); err != nil {
				if c.OnError != nil {
					c.OnError(err)
				}
				return
			}
			if c.OnReaction != nil {
				c.OnReaction(ev)
			}
		}
	}
}

// failPendingCallbacks hands every waiter a synthetic error response so no
// request blocks across a reconnect.
func (c *Client) failPendingCallbacks(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for nonce, cb := range c.cbs {
		if cb != nil {
			cb(&frame{Op: opResponse, Nonce: nonce, Error: reason})
		}
		delete(c.cbs, nonce)
	}
}
