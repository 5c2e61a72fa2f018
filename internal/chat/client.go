package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Config is the gateway connection configuration.
type Config struct {
	URL   string `yaml:"url"`
	Token string `yaml:"-"`
	// MessagesPerSecond caps outbound requests; 0 means the default.
	MessagesPerSecond float64 `yaml:"messages_per_second"`
}

const defaultMessagesPerSecond = 2

// Client is the websocket gateway client. It dials, keeps the socket alive
// with pings, reconnects with capped backoff, and correlates responses to
// requests by nonce.
type Client struct {
	url   string
	token string

	conn   *websocket.Conn
	mu     sync.Mutex
	cbs    map[string]func(*frame) bool
	closed atomic.Bool

	wmu          sync.Mutex // serializes websocket writes
	limiter      *rate.Limiter
	pingStop     chan struct{}
	lastActivity atomic.Int64 // unix nanos of the last successful read

	selfID atomic.Value // string, set by the hello frame

	// event hooks
	OnConnecting   func()
	OnConnected    func()
	OnMessage      func(MessageEvent)
	OnReaction     func(ReactionEvent)
	OnDisconnected func()
	OnError        func(error)
}

func New(cfg Config) *Client {
	mps := cfg.MessagesPerSecond
	if mps <= 0 {
		mps = defaultMessagesPerSecond
	}
	return &Client{
		url:     cfg.URL,
		token:   cfg.Token,
		cbs:     make(map[string]func(*frame) bool),
		limiter: rate.NewLimiter(rate.Limit(mps), 5),
	}
}

// Connect dials the gateway and starts the read loop. Cancel ctx for a soft
// shutdown of the loop.
func (c *Client) Connect(ctx context.Context) error {
	if c.OnConnecting != nil {
		c.OnConnecting()
	}
	conn, err := c.dialAndSetup()
	if err != nil {
		return err
	}
	c.conn = conn
	c.closed.Store(false)

	if c.OnConnected != nil {
		c.OnConnected()
	}

	go c.readLoop(ctx)
	return nil
}

func (c *Client) Disconnect() {
	c.closed.Store(true)
	c.closeConn()
	if c.OnDisconnected != nil {
		c.OnDisconnected()
	}
}

func (c *Client) IsConnected() bool {
	return c.conn != nil && !c.closed.Load()
}

// SelfID returns the bot's own user id, or "" before the hello frame.
func (c *Client) SelfID() string {
	if v, ok := c.selfID.Load().(string); ok {
		return v
	}
	return ""
}

// sendRequest writes one request frame; cb is invoked with the response
// frame carrying the same nonce. cb returning true consumes the frame.
func (c *Client) sendRequest(ctx context.Context, action string, data any, cb func(*frame) bool) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	nonce := uuid.NewString()
	req := frame{Op: opRequest, Type: action, Nonce: nonce, Data: raw}
	buf, err := json.Marshal(&req)
	if err != nil {
		return err
	}

	if cb != nil {
		c.mu.Lock()
		c.cbs[nonce] = cb
		c.mu.Unlock()
	}

	// the platform rate-limits hard; wait our turn before writing
	if err := c.limiter.Wait(ctx); err != nil {
		c.dropCallback(nonce)
		return err
	}

	c.wmu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	werr := c.conn.WriteMessage(websocket.TextMessage, buf)
	c.wmu.Unlock()

	if werr != nil {
		// socket died between prepare and write, clean up the callback
		c.dropCallback(nonce)
		return werr
	}
	return nil
}

func (c *Client) dropCallback(nonce string) {
	c.mu.Lock()
	delete(c.cbs, nonce)
	c.mu.Unlock()
}

// request is the synchronous form: send, then wait for the correlated
// response or ctx expiry. Every caller passes a bounded ctx so a hung
// gateway call cannot stall the process.
func (c *Client) request(ctx context.Context, action string, data, out any) error {
	respCh := make(chan *frame, 1)
	err := c.sendRequest(ctx, action, data, func(f *frame) bool {
		respCh <- f
		return true
	})
	if err != nil {
		return err
	}
	select {
	case f := <-respCh:
		if f.Error != "" {
			if f.Error == errUserNotFound {
				return ErrUserNotFound
			}
			return errors.New(f.Error)
		}
		if out == nil || len(f.Data) == 0 {
			return nil
		}
		return json.Unmarshal(f.Data, out)
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", action, ctx.Err())
	}
}
