package lanyard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/Krex381/krexdll/internal/logging"
	"github.com/Krex381/krexdll/internal/metrics"
)

// ErrClosed is returned when the gateway ends the connection.
var ErrClosed = errors.New("gateway closed the connection")

// Sink receives the state a Client observes. Implementations must be safe
// for concurrent use.
type Sink interface {
	SetPresence(Presence)
	SetConnected(bool)
}

type Config struct {
	URL            string
	Origin         string
	UserID         string
	ReconnectDelay time.Duration
}

// Client keeps a subscription to one user's presence open.
type Client struct {
	cfg     Config
	sink    Sink
	log     logging.Logger
	metrics *metrics.Metrics
}

func New(cfg Config, sink Sink, log logging.Logger, m *metrics.Metrics) *Client {
	if cfg.Origin == "" {
		cfg.Origin = "http://localhost/"
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 3 * time.Second
	}
	return &Client{
		cfg:     cfg,
		sink:    sink,
		log:     log.With("component", "lanyard", "user_id", cfg.UserID),
		metrics: m,
	}
}

// Run holds a gateway connection until ctx is done, dialing again after
// ReconnectDelay whenever the connection fails or is closed.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx, c.sink)
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn(ctx, "gateway disconnected", "error", err, "retry_in", c.cfg.ReconnectDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectDelay):
		}
		c.metrics.GatewayReconnect()
	}
}

// Once connects a single time and returns the first presence received for
// the user.
func (c *Client) Once(ctx context.Context) (*Presence, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sink := &onceSink{got: make(chan Presence, 1), done: cancel}
	errc := make(chan error, 1)
	go func() { errc <- c.session(ctx, sink) }()

	select {
	case p := <-sink.got:
		return &p, nil
	case err := <-errc:
		select {
		case p := <-sink.got:
			return &p, nil
		default:
		}
		if err == nil {
			err = ErrClosed
		}
		return nil, err
	}
}

type onceSink struct {
	got  chan Presence
	done context.CancelFunc
}

func (s *onceSink) SetPresence(p Presence) {
	select {
	case s.got <- p:
	default:
	}
	s.done()
}

func (s *onceSink) SetConnected(bool) {}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	wsCfg, err := websocket.NewConfig(c.cfg.URL, c.cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("gateway config: %w", err)
	}
	ws, err := wsCfg.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial gateway: %w", err)
	}
	return ws, nil
}

// conn is the state of one gateway connection.
type conn struct {
	ws            *websocket.Conn
	sink          Sink
	wg            sync.WaitGroup
	stopHeartbeat context.CancelFunc
}

func (c *Client) session(ctx context.Context, sink Sink) error {
	ws, err := c.dial(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	cn := &conn{ws: ws, sink: sink, stopHeartbeat: func() {}}

	// Closing the socket is the only way to unblock a pending read.
	cn.wg.Add(1)
	go func() {
		defer cn.wg.Done()
		<-ctx.Done()
		ws.Close()
	}()

	defer func() {
		cancel()
		cn.wg.Wait()
		sink.SetConnected(false)
		c.metrics.GatewayConnected(false)
	}()

	sink.SetConnected(true)
	c.metrics.GatewayConnected(true)
	c.log.Info(ctx, "gateway connected", "url", c.cfg.URL)

	for {
		var raw []byte
		if err := websocket.Message.Receive(ws, &raw); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrClosed
			}
			return fmt.Errorf("gateway receive: %w", err)
		}
		if err := c.handle(ctx, cn, raw); err != nil {
			return err
		}
	}
}

// handle dispatches one frame. Only write failures are returned; malformed
// frames are logged and skipped.
func (c *Client) handle(ctx context.Context, cn *conn, raw []byte) error {
	msg, err := Decode(raw)
	if err != nil {
		c.log.Warn(ctx, "skipping gateway frame", "error", err)
		return nil
	}
	c.metrics.GatewayMessage(int(msg.Op))

	switch msg.Op {
	case OpHello:
		every, err := msg.HeartbeatInterval()
		if err != nil {
			c.log.Warn(ctx, "skipping hello", "error", err)
			return nil
		}

		cn.stopHeartbeat()
		hbCtx, hbCancel := context.WithCancel(ctx)
		cn.stopHeartbeat = hbCancel
		cn.wg.Add(1)
		go func() {
			defer cn.wg.Done()
			c.heartbeat(hbCtx, cn.ws, every)
		}()

		if err := websocket.JSON.Send(cn.ws, subscribeFrame(c.cfg.UserID)); err != nil {
			return fmt.Errorf("send subscribe: %w", err)
		}
		c.log.Debug(ctx, "subscribed", "heartbeat_interval", every)

	case OpEvent:
		p, ok, err := msg.PresenceFor(c.cfg.UserID)
		if err != nil {
			c.log.Warn(ctx, "skipping presence", "event", msg.Type, "error", err)
			return nil
		}
		if !ok {
			return nil
		}
		cn.sink.SetPresence(p)
		c.metrics.PresenceUpdate()

	default:
		c.log.Debug(ctx, "ignoring gateway op", "op", msg.Op)
	}
	return nil
}

func (c *Client) heartbeat(ctx context.Context, ws *websocket.Conn, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := websocket.JSON.Send(ws, heartbeatFrame()); err != nil {
				if ctx.Err() == nil {
					c.log.Warn(ctx, "heartbeat failed", "error", err)
				}
				return
			}
			c.metrics.HeartbeatSent()
		}
	}
}
