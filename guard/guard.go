// Package guard wraps an exchange's order transports so that every order
// passes policy.Evaluate before it can reach the network.
package guard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/soulgarden/bfx-postonly/dictionary"
	"github.com/soulgarden/bfx-postonly/policy"
	"github.com/soulgarden/bfx-postonly/request"
	"github.com/soulgarden/bfx-postonly/response"
	"github.com/tevino/abool"
	"go.uber.org/atomic"
)

const Version = "1.0.0"

// Mode is the enforcement strategy: orders without POST_ONLY are rejected,
// never amended.
const Mode = "reject"

type Guard struct {
	exchange Exchange
	logger   *zerolog.Logger

	submitREST guarded[*request.Order, *response.Notification]
	submitWS   guarded[*request.Order, *response.Notification]
	update     guarded[*request.Update, *response.Notification]

	active   abool.AtomicBool
	accepted atomic.Int64
	rejected atomic.Int64
}

// Info describes what a Guard enforces and which capabilities it found.
type Info struct {
	PostOnlyEnforced bool   `json:"post_only_enforced"`
	Mode             string `json:"mode"`
	WSAvailable      bool   `json:"ws_available"`
	UpdateAvailable  bool   `json:"update_available"`
	Accepted         int64  `json:"accepted"`
	Rejected         int64  `json:"rejected"`
	Version          string `json:"version"`
}

// New installs the guard on every submission capability of exchange. The
// REST submitter is mandatory; a missing WS submitter only disables the
// async entry points.
func New(exchange Exchange, logger *zerolog.Logger) (*Guard, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	if isNil(exchange) {
		err := fmt.Errorf("%w: exchange is nil", dictionary.ErrInitialization)
		logger.Err(err).Msg("new guard")

		return nil, err
	}

	rest := exchange.RESTSubmitter()
	if isNil(rest) {
		err := fmt.Errorf("%w: rest submitter is missing", dictionary.ErrInitialization)
		logger.Err(err).Msg("new guard")

		return nil, err
	}

	g := &Guard{exchange: exchange, logger: logger}

	g.submitREST = wrap(g, "rest submit", policy.Evaluate, describeOrder, rest.SubmitOrder)

	if ws := exchange.WSSubmitter(); !isNil(ws) {
		g.submitWS = wrap(g, "ws submit", policy.Evaluate, describeOrder, ws.SubmitOrder)
	} else {
		logger.Warn().Msg("ws submitter is missing, async submissions are unavailable")
	}

	if u, ok := rest.(Updater); ok && !isNil(u) {
		g.update = wrap(g, "rest update", policy.CheckUpdate, describeUpdate, u.UpdateOrder)
	}

	g.active.Set()

	logger.Info().
		Bool("ws", g.submitWS != nil).
		Bool("update", g.update != nil).
		Str("mode", Mode).
		Msg("order guard active")

	return g, nil
}

func (g *Guard) ready() error {
	if g == nil || !g.active.IsSet() {
		return fmt.Errorf("%w: guard is not active", dictionary.ErrInitialization)
	}

	return nil
}

// SubmitOrder checks o and, when accepted, sends the same order over REST
// and returns the exchange notification as is.
func (g *Guard) SubmitOrder(ctx context.Context, o *request.Order) (*response.Notification, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}

	c, err := g.submitREST(o)
	if err != nil {
		return nil, err
	}

	return c(ctx)
}

// SubmitOrderAsync checks o in the calling goroutine and only then starts the
// WS submission. A rejected order returns before any I/O is started.
func (g *Guard) SubmitOrderAsync(ctx context.Context, o *request.Order) (*Pending, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}

	if g.submitWS == nil {
		return nil, fmt.Errorf("%w: ws submitter", dictionary.ErrCapabilityUnavailable)
	}

	c, err := g.submitWS(o)
	if err != nil {
		return nil, err
	}

	return start(ctx, c), nil
}

// SubmitLimitOrder builds an EXCHANGE LIMIT order, applies opts and submits
// it through SubmitOrder. Flags are taken from opts only.
func (g *Guard) SubmitLimitOrder(
	ctx context.Context,
	symbol string,
	amount, price decimal.Decimal,
	opts ...request.Option,
) (*response.Notification, error) {
	return g.SubmitOrder(ctx, request.NewLimitOrder(symbol, amount, price, opts...))
}

func (g *Guard) SubmitLimitOrderAsync(
	ctx context.Context,
	symbol string,
	amount, price decimal.Decimal,
	opts ...request.Option,
) (*Pending, error) {
	return g.SubmitOrderAsync(ctx, request.NewLimitOrder(symbol, amount, price, opts...))
}

// UpdateOrder amends a resting order. Updates that send flags must keep
// POST_ONLY.
func (g *Guard) UpdateOrder(ctx context.Context, u *request.Update) (*response.Notification, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}

	if g.update == nil {
		return nil, fmt.Errorf("%w: order update", dictionary.ErrCapabilityUnavailable)
	}

	c, err := g.update(u)
	if err != nil {
		return nil, err
	}

	return c(ctx)
}

// REST returns the guarded REST submitter.
func (g *Guard) REST() Submitter {
	return SubmitFunc(g.SubmitOrder)
}

// WS returns the guarded WS submitter. It blocks until the exchange answers.
func (g *Guard) WS() Submitter {
	return SubmitFunc(func(ctx context.Context, o *request.Order) (*response.Notification, error) {
		p, err := g.SubmitOrderAsync(ctx, o)
		if err != nil {
			return nil, err
		}

		return p.Wait(ctx)
	})
}

// Underlying returns the wrapped exchange for capabilities the guard does
// not cover. Orders sent through it bypass the policy.
func (g *Guard) Underlying() Exchange {
	if g == nil {
		return nil
	}

	return g.exchange
}

func (g *Guard) Active() bool {
	return g != nil && g.active.IsSet()
}

func (g *Guard) Info() Info {
	if !g.Active() {
		return Info{Mode: Mode, Version: Version}
	}

	return Info{
		PostOnlyEnforced: true,
		Mode:             Mode,
		WSAvailable:      g.submitWS != nil,
		UpdateAvailable:  g.update != nil,
		Accepted:         g.accepted.Load(),
		Rejected:         g.rejected.Load(),
		Version:          Version,
	}
}
