package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mailru/easyjson"
	"github.com/rs/zerolog"
	"github.com/soulgarden/bfx-postonly/conf"
	"github.com/soulgarden/bfx-postonly/dictionary"
	"github.com/soulgarden/bfx-postonly/request"
	"github.com/soulgarden/bfx-postonly/response"
	"github.com/tevino/abool"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

const pingInterval = 15 * time.Second
const readChSize = 1024
const writeChSize = 1024
const readDeadline = 20 * time.Second
const eventSize = 1 << 20

const authPrefix = "AUTH"

// WS is an authenticated websocket connection. Reads land on ReadCh,
// writes are serialized through a single writer goroutine.
type WS struct {
	cfg      *conf.Bot
	conn     *websocket.Conn
	sendCh   chan request.Msg
	ReadCh   chan []byte
	logger   *zerolog.Logger
	isClosed *abool.AtomicBool
	mu       sync.Mutex
	cid      atomic.Int64
	nonce    nonce
}

func (c *WS) read(ctx context.Context) error {
	defer close(c.ReadCh)

	c.conn.SetReadLimit(eventSize)

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		if err := c.conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
			c.logger.Err(err).Msg("set read deadline")

			return err
		}

		msgType, sourceMessage, err := c.conn.ReadMessage()
		c.logger.Debug().
			Int("type", msgType).
			Bytes("payload", sourceMessage).
			Msg("got message")

		if err != nil {
			if c.isClosed.IsSet() || websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}

			c.logger.Warn().Err(err).Msg("unexpected close error")

			return err
		}

		select {
		case c.ReadCh <- sourceMessage:
		case <-ctx.Done():
			c.logger.Warn().Bytes("payload", sourceMessage).Msg("got message, but reader is stopping")

			return nil
		}
	}
}

func (c *WS) write() error {
	defer c.conn.Close()

	for msg := range c.sendCh {
		err := c.conn.WriteMessage(msg.Type, msg.Payload)
		if err == nil {
			continue
		}

		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			c.logger.Warn().Err(err).Msg("unexpected close error")
		}

		if c.isClosed.IsNotSet() {
			c.logger.Err(err).
				Int("type", msg.Type).
				Bytes("body", msg.Payload).
				Msg("write failed")

			return err
		}
	}

	return nil
}

func (c *WS) pinger(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if c.isClosed.IsSet() {
				return nil
			}

			c.send(request.Msg{Type: websocket.PingMessage})
		case <-ctx.Done():
			c.Close()

			return nil
		}
	}
}

func (c *WS) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed.IsSet() {
		return
	}

	c.isClosed.Set()

	select {
	case c.sendCh <- request.Msg{
		Type:    websocket.CloseMessage,
		Payload: websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	}:
	default:
		c.logger.Warn().Msg("write channel full, close frame dropped")
	}

	close(c.sendCh)
}

// Auth sends the auth event and waits for its answer, skipping the info
// event the exchange sends on connect.
func (c *WS) Auth(ctx context.Context) error {
	n := c.nonce.Next()
	payload := authPrefix + n

	body, err := easyjson.Marshal(&request.Auth{
		APIKey:  c.cfg.APIKey,
		Sig:     sign(c.cfg.APISecret, payload),
		Payload: payload,
		Nonce:   n,
		Filter:  []string{"trading", "notify"},
	})
	if err != nil {
		return err
	}

	if err := c.sendMessage(body); err != nil {
		return err
	}

	for {
		select {
		case msg, ok := <-c.ReadCh:
			if !ok {
				return dictionary.ErrWsReadChannelClosed
			}

			e, ok := response.ParseEvent(msg)
			if !ok || e.Event != dictionary.AuthEvent {
				continue
			}

			c.logger.Debug().Bytes("body", msg).Msg("got auth message")

			if e.Status != "OK" {
				err = fmt.Errorf("%w: %s", dictionary.ErrResponse, e.Msg)
				c.logger.Err(err).Bytes("response", msg).Msg("auth error")

				return err
			}

			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// NextCID returns a client order id unique for this connection.
func (c *WS) NextCID() int64 {
	now := time.Now().UnixNano() / int64(time.Millisecond)

	for {
		last := c.cid.Load()

		next := now
		if next <= last {
			next = last + 1
		}

		if c.cid.CompareAndSwap(last, next) {
			return next
		}
	}
}

// SubmitOrder sends a new-order input frame and returns the cid it was sent
// with. When o has no cid, a copy is sent with a fresh one; o is untouched.
func (c *WS) SubmitOrder(o *request.Order) (int64, error) {
	sent := *o
	if sent.CID == 0 {
		sent.CID = c.NextCID()
	}

	body, err := easyjson.Marshal(&request.Input{Event: dictionary.NewOrder, Payload: &sent})
	if err != nil {
		return sent.CID, err
	}

	return sent.CID, c.sendMessage(body)
}

func (c *WS) sendMessage(body []byte) error {
	c.logger.Debug().Int("type", websocket.TextMessage).Bytes("body", body).Msg("send message")

	if !c.send(request.Msg{Type: websocket.TextMessage, Payload: body}) {
		return dictionary.ErrWsClosed
	}

	return nil
}

func (c *WS) send(msg request.Msg) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed.IsSet() {
		c.logger.Warn().
			Int("type", msg.Type).
			Bytes("body", msg.Payload).
			Msg("got message for sent, but write channel closed")

		return false
	}

	c.sendCh <- msg

	return true
}

func newConnection(ctx context.Context, cfg *conf.Bot, logger *zerolog.Logger) (*WS, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(
		ctx,
		(&url.URL{Scheme: cfg.Scheme, Host: cfg.WSHost, Path: cfg.WSPath}).String(),
		nil,
	)
	if err != nil {
		logger.Err(err).Msg("dial error")

		return nil, err
	}

	logger.Debug().Msg("new connection established")

	return &WS{
		cfg:      cfg,
		conn:     conn,
		sendCh:   make(chan request.Msg, writeChSize),
		ReadCh:   make(chan []byte, readChSize),
		logger:   logger,
		isClosed: abool.New(),
	}, nil
}

// NewWS dials the exchange and runs the reader, writer and pinger on g.
// Cancelling ctx closes the connection.
func NewWS(ctx context.Context, cfg *conf.Bot, g *errgroup.Group, logger *zerolog.Logger) (*WS, error) {
	cli, err := newConnection(ctx, cfg, logger)
	if err != nil {
		logger.Err(err).Msg("connection error")

		return nil, err
	}

	g.Go(func() error { return cli.read(ctx) })
	g.Go(cli.write)
	g.Go(func() error { return cli.pinger(ctx) })

	return cli, nil
}
