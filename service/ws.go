package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/soulgarden/bfx-postonly/broker"
	"github.com/soulgarden/bfx-postonly/client"
	"github.com/soulgarden/bfx-postonly/conf"
	"github.com/soulgarden/bfx-postonly/dictionary"
	"github.com/soulgarden/bfx-postonly/request"
	"github.com/soulgarden/bfx-postonly/response"
	"golang.org/x/sync/errgroup"
)

type sender interface {
	SubmitOrder(o *request.Order) (int64, error)
	Close()
}

// WS turns the fire and forget websocket input into a request/response call
// by waiting for the notification carrying the order's cid.
type WS struct {
	cfg         *conf.Bot
	logger      *zerolog.Logger
	eventBroker *broker.Broker
	cli         sender
	readCh      <-chan []byte
}

func NewWS(cfg *conf.Bot, eventBroker *broker.Broker, logger *zerolog.Logger) *WS {
	return &WS{cfg: cfg, eventBroker: eventBroker, logger: logger}
}

func (s *WS) Connect(ctx context.Context, g *errgroup.Group) error {
	cli, err := client.NewWS(ctx, s.cfg, g, s.logger)
	if err != nil {
		s.logger.Err(err).Msg("connection error")

		return err
	}

	err = cli.Auth(ctx)
	if err != nil {
		s.logger.Err(err).Msg("auth error")

		cli.Close()

		return err
	}

	s.cli = cli
	s.readCh = cli.ReadCh

	return nil
}

func (s *WS) Start(ctx context.Context) error {
	s.logger.Warn().Msg("start listen ws")
	defer s.logger.Warn().Msg("stop listen ws")

	for {
		select {
		case msg, ok := <-s.readCh:
			if !ok {
				s.logger.Err(dictionary.ErrWsReadChannelClosed).Msg("read channel closed")

				return dictionary.ErrWsReadChannelClosed
			}

			s.eventBroker.Publish(msg)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// SubmitOrder sends o and blocks until the exchange confirms or refuses it.
// The notification is returned as received, an ERROR status included.
func (s *WS) SubmitOrder(ctx context.Context, o *request.Order) (*response.Notification, error) {
	if s.cli == nil {
		return nil, dictionary.ErrWsClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout())
	defer cancel()

	eventsCh := s.eventBroker.Subscribe()
	defer s.eventBroker.Unsubscribe(eventsCh)

	cid, err := s.cli.SubmitOrder(o)
	if err != nil {
		s.logger.Err(err).Msg("submit order")

		return nil, err
	}

	for {
		select {
		case msg, ok := <-eventsCh:
			if !ok {
				return nil, dictionary.ErrWsReadChannelClosed
			}

			n, ok := matchNotification(msg, cid)
			if !ok {
				continue
			}

			s.logger.Debug().Int64("cid", cid).Str("status", n.Status).Msg("got order notification")

			return n, nil

		case <-ctx.Done():
			return nil, fmt.Errorf("wait notification for cid %d: %w", cid, ctx.Err())
		}
	}
}

func matchNotification(msg []byte, cid int64) (*response.Notification, bool) {
	if len(msg) == 0 || msg[0] != '[' {
		return nil, false
	}

	f, err := response.ParseFrame(msg)
	if err != nil || f.ChanID != 0 || f.Event != dictionary.Notification {
		return nil, false
	}

	n, err := response.ParseNotification(f.Payload)
	if err != nil || n.Type != dictionary.NewOrderRequest {
		return nil, false
	}

	for _, o := range n.Orders {
		if o.CID == cid {
			return n, true
		}
	}

	return nil, false
}

func (s *WS) Close() {
	if s.cli != nil {
		s.cli.Close()
	}
}
