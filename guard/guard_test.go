package guard

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/soulgarden/bfx-postonly/dictionary"
	"github.com/soulgarden/bfx-postonly/flags"
	"github.com/soulgarden/bfx-postonly/policy"
	"github.com/soulgarden/bfx-postonly/request"
	"github.com/soulgarden/bfx-postonly/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	orders   []*request.Order
	updates  []*request.Update
	result   *response.Notification
	err      error
	release  chan struct{}
	received chan struct{}
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{
		result:   &response.Notification{Type: dictionary.NewOrderRequest, Status: dictionary.SuccessStatus},
		received: make(chan struct{}, 16),
	}
}

func (f *fakeSubmitter) SubmitOrder(ctx context.Context, o *request.Order) (*response.Notification, error) {
	f.mu.Lock()
	f.orders = append(f.orders, o)
	f.mu.Unlock()

	f.received <- struct{}{}

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return f.result, f.err
}

func (f *fakeSubmitter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.orders)
}

func (f *fakeSubmitter) last() *request.Order {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.orders[len(f.orders)-1]
}

type fakeUpdater struct {
	*fakeSubmitter
}

func (f *fakeUpdater) UpdateOrder(_ context.Context, u *request.Update) (*response.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates = append(f.updates, u)

	return f.result, f.err
}

type fakeExchange struct {
	rest Submitter
	ws   Submitter
}

func (e *fakeExchange) RESTSubmitter() Submitter { return e.rest }

func (e *fakeExchange) WSSubmitter() Submitter { return e.ws }

func newTestGuard(t *testing.T) (*Guard, *fakeSubmitter, *fakeSubmitter) {
	t.Helper()

	rest, ws := newFakeSubmitter(), newFakeSubmitter()

	g, err := New(&fakeExchange{rest: &fakeUpdater{rest}, ws: ws}, nil)
	require.NoError(t, err)

	return g, rest, ws
}

func limitOrder(f int64) *request.Order {
	return &request.Order{
		Type:   dictionary.ExchangeLimit,
		Symbol: "tBTCUSD",
		Amount: decimal.RequireFromString("0.001"),
		Price:  decimal.RequireFromString("30000"),
		Flags:  f,
	}
}

func TestGuard_SubmitOrder_PostOnlyLimit(t *testing.T) {
	t.Parallel()

	g, rest, ws := newTestGuard(t)
	o := limitOrder(flags.PostOnly)
	before := *o

	n, err := g.SubmitOrder(context.Background(), o)
	require.NoError(t, err)

	assert.Same(t, rest.result, n)
	require.Equal(t, 1, rest.calls())
	assert.Equal(t, o, rest.last())
	assert.NotSame(t, o, rest.last())
	assert.Equal(t, before, *o)
	assert.Zero(t, ws.calls())
}

func TestGuard_SubmitOrderAsync_ChangedAfterAccept(t *testing.T) {
	t.Parallel()

	g, _, ws := newTestGuard(t)
	ws.release = make(chan struct{})

	o := limitOrder(flags.PostOnly)
	o.Type = dictionary.StopLimit
	o.Extra = map[string]interface{}{"price_aux_limit": "29500"}

	p, err := g.SubmitOrderAsync(context.Background(), o)
	require.NoError(t, err)

	o.Type = dictionary.ExchangeMarket
	o.Flags = 0
	o.Extra["price_aux_limit"] = "1"
	o.Extra["type"] = dictionary.ExchangeMarket

	<-ws.received
	close(ws.release)

	_, err = p.Wait(context.Background())
	require.NoError(t, err)

	sent := ws.last()
	assert.Equal(t, dictionary.StopLimit, sent.Type)
	assert.Equal(t, flags.PostOnly, sent.Flags)
	assert.Equal(t, map[string]interface{}{"price_aux_limit": "29500"}, sent.Extra)
	assert.NoError(t, policy.Evaluate(sent))
}

func TestGuard_UpdateOrder_ChangedAfterAccept(t *testing.T) {
	t.Parallel()

	g, rest, _ := newTestGuard(t)

	keep := flags.PostOnly
	u := &request.Update{ID: 3, Flags: &keep}

	_, err := g.UpdateOrder(context.Background(), u)
	require.NoError(t, err)

	keep = 0

	rest.mu.Lock()
	defer rest.mu.Unlock()

	require.Len(t, rest.updates, 1)
	assert.NotSame(t, u, rest.updates[0])
	assert.Equal(t, flags.PostOnly, *rest.updates[0].Flags)
}

func TestGuard_SubmitOrder_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		order   *request.Order
		wantErr error
	}{
		{name: "limit without flags", order: limitOrder(0), wantErr: dictionary.ErrPostOnlyMissing},
		{name: "limit hidden only", order: limitOrder(flags.Hidden), wantErr: dictionary.ErrPostOnlyMissing},
		{
			name: "market",
			order: &request.Order{
				Type:   dictionary.ExchangeMarket,
				Symbol: "tBTCUSD",
				Amount: decimal.RequireFromString("0.001"),
			},
			wantErr: dictionary.ErrOrderTypeNotPermitted,
		},
		{
			name: "market with post only",
			order: &request.Order{
				Type:   dictionary.ExchangeMarket,
				Symbol: "tBTCUSD",
				Amount: decimal.RequireFromString("0.001"),
				Flags:  flags.PostOnly,
			},
			wantErr: dictionary.ErrOrderTypeNotPermitted,
		},
		{name: "missing type", order: &request.Order{Symbol: "tBTCUSD", Flags: flags.PostOnly}, wantErr: dictionary.ErrStructuralViolation},
		{name: "nil", order: nil, wantErr: dictionary.ErrStructuralViolation},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, rest, ws := newTestGuard(t)

			n, err := g.SubmitOrder(context.Background(), tt.order)
			assert.Nil(t, n)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, rest.calls())

			p, err := g.SubmitOrderAsync(context.Background(), tt.order)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, ws.calls())

			assert.Equal(t, int64(2), g.Info().Rejected)
		})
	}
}

func TestGuard_SubmitOrder_RejectionMessages(t *testing.T) {
	t.Parallel()

	g, _, _ := newTestGuard(t)

	_, err := g.SubmitOrder(context.Background(), &request.Order{
		Type:   dictionary.ExchangeMarket,
		Symbol: "tBTCUSD",
		Amount: decimal.RequireFromString("0.001"),
	})

	var typeErr *policy.OrderTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Contains(t, err.Error(), dictionary.ExchangeMarket)

	_, err = g.SubmitOrder(context.Background(), limitOrder(0))

	var postOnlyErr *policy.PostOnlyError
	require.True(t, errors.As(err, &postOnlyErr))
	assert.Contains(t, err.Error(), "4096")
}

func TestGuard_SubmitLimitOrder(t *testing.T) {
	t.Parallel()

	g, rest, _ := newTestGuard(t)

	n, err := g.SubmitLimitOrder(context.Background(), "tBTCUSD",
		decimal.RequireFromString("0.001"), decimal.RequireFromString("30000"),
		request.WithFlags(flags.PostOnly),
	)
	require.NoError(t, err)
	assert.Same(t, rest.result, n)

	require.Equal(t, 1, rest.calls())
	assert.Equal(t, limitOrder(flags.PostOnly), rest.last())

	_, err = g.SubmitLimitOrder(context.Background(), "tBTCUSD",
		decimal.RequireFromString("0.001"), decimal.RequireFromString("30000"),
	)
	assert.ErrorIs(t, err, dictionary.ErrPostOnlyMissing)
	assert.Equal(t, 1, rest.calls())
}

func TestGuard_SubmitOrderAsync_StopLimit(t *testing.T) {
	t.Parallel()

	g, rest, ws := newTestGuard(t)

	p, err := g.SubmitLimitOrderAsync(context.Background(), "tBTCUSD",
		decimal.RequireFromString("0.001"), decimal.RequireFromString("30000"),
		request.WithType(dictionary.StopLimit),
		request.WithField("price_aux_limit", "29500"),
		request.WithFlags(flags.PostOnly),
	)
	require.NoError(t, err)

	n, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, ws.result, n)

	select {
	case <-p.Done():
	default:
		t.Error("pending is not done after wait")
	}

	require.Equal(t, 1, ws.calls())
	assert.Equal(t, dictionary.StopLimit, ws.last().Type)
	assert.Equal(t, "29500", ws.last().Extra["price_aux_limit"])
	assert.Zero(t, rest.calls())
}

func TestGuard_SubmitOrderAsync_TransportError(t *testing.T) {
	t.Parallel()

	g, _, ws := newTestGuard(t)
	ws.err = dictionary.ErrWsClosed
	ws.result = nil

	p, err := g.SubmitOrderAsync(context.Background(), limitOrder(flags.PostOnly))
	require.NoError(t, err)

	_, err = p.Wait(context.Background())
	assert.ErrorIs(t, err, dictionary.ErrWsClosed)
}

func TestGuard_SubmitOrderAsync_WaitCancelled(t *testing.T) {
	t.Parallel()

	g, _, ws := newTestGuard(t)
	ws.release = make(chan struct{})

	p, err := g.SubmitOrderAsync(context.Background(), limitOrder(flags.PostOnly))
	require.NoError(t, err)

	<-ws.received

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(ws.release)

	n, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, ws.result, n)
}

func TestGuard_WSUnavailable(t *testing.T) {
	t.Parallel()

	var missing *fakeSubmitter

	for name, ws := range map[string]Submitter{"nil": nil, "typed nil": missing} {
		ws := ws

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rest := newFakeSubmitter()

			g, err := New(&fakeExchange{rest: rest, ws: ws}, nil)
			require.NoError(t, err)
			assert.True(t, g.Active())
			assert.False(t, g.Info().WSAvailable)
			assert.False(t, g.Info().UpdateAvailable)

			_, err = g.SubmitOrderAsync(context.Background(), limitOrder(flags.PostOnly))
			assert.ErrorIs(t, err, dictionary.ErrCapabilityUnavailable)

			_, err = g.SubmitLimitOrderAsync(context.Background(), "tBTCUSD",
				decimal.RequireFromString("0.001"), decimal.RequireFromString("30000"),
				request.WithFlags(flags.PostOnly),
			)
			assert.ErrorIs(t, err, dictionary.ErrCapabilityUnavailable)

			_, err = g.WS().SubmitOrder(context.Background(), limitOrder(flags.PostOnly))
			assert.ErrorIs(t, err, dictionary.ErrCapabilityUnavailable)

			_, err = g.UpdateOrder(context.Background(), &request.Update{ID: 1})
			assert.ErrorIs(t, err, dictionary.ErrCapabilityUnavailable)

			assert.Zero(t, rest.calls())

			_, err = g.SubmitOrder(context.Background(), limitOrder(flags.PostOnly))
			require.NoError(t, err)
			assert.Equal(t, 1, rest.calls())
		})
	}
}

func TestNew_InitializationErrors(t *testing.T) {
	t.Parallel()

	var missingExchange *fakeExchange

	var missingREST *fakeSubmitter

	tests := []struct {
		name     string
		exchange Exchange
	}{
		{name: "nil exchange", exchange: nil},
		{name: "typed nil exchange", exchange: missingExchange},
		{name: "nil rest", exchange: &fakeExchange{ws: newFakeSubmitter()}},
		{name: "typed nil rest", exchange: &fakeExchange{rest: missingREST, ws: newFakeSubmitter()}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, err := New(tt.exchange, nil)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, dictionary.ErrInitialization)
		})
	}
}

func TestGuard_ZeroValue(t *testing.T) {
	t.Parallel()

	var g Guard

	assert.False(t, g.Active())
	assert.False(t, g.Info().PostOnlyEnforced)
	assert.Nil(t, g.Underlying())

	_, err := g.SubmitOrder(context.Background(), limitOrder(flags.PostOnly))
	assert.ErrorIs(t, err, dictionary.ErrInitialization)

	_, err = g.SubmitOrderAsync(context.Background(), limitOrder(flags.PostOnly))
	assert.ErrorIs(t, err, dictionary.ErrInitialization)

	_, err = g.UpdateOrder(context.Background(), &request.Update{ID: 1})
	assert.ErrorIs(t, err, dictionary.ErrInitialization)

	_, err = g.REST().SubmitOrder(context.Background(), limitOrder(flags.PostOnly))
	assert.ErrorIs(t, err, dictionary.ErrInitialization)

	var nilGuard *Guard

	_, err = nilGuard.SubmitOrder(context.Background(), limitOrder(flags.PostOnly))
	assert.ErrorIs(t, err, dictionary.ErrInitialization)
}

func TestGuard_UpdateOrder(t *testing.T) {
	t.Parallel()

	g, rest, _ := newTestGuard(t)

	keep := flags.PostOnly | flags.Hidden
	drop := flags.Hidden

	_, err := g.UpdateOrder(context.Background(), &request.Update{ID: 7, Flags: &drop})
	assert.ErrorIs(t, err, dictionary.ErrPostOnlyMissing)

	n, err := g.UpdateOrder(context.Background(), &request.Update{ID: 7, Flags: &keep})
	require.NoError(t, err)
	assert.Same(t, rest.result, n)

	rest.mu.Lock()
	require.Len(t, rest.updates, 1)
	assert.Equal(t, int64(7), rest.updates[0].ID)
	rest.mu.Unlock()
}

func TestGuard_Adapters(t *testing.T) {
	t.Parallel()

	g, rest, ws := newTestGuard(t)

	submitters := []Submitter{g.REST(), g.WS()}

	for _, s := range submitters {
		_, err := s.SubmitOrder(context.Background(), limitOrder(0))
		assert.ErrorIs(t, err, dictionary.ErrPostOnlyMissing)

		_, err = s.SubmitOrder(context.Background(), limitOrder(flags.PostOnly|flags.Hidden))
		assert.NoError(t, err)
	}

	assert.Equal(t, 1, rest.calls())
	assert.Equal(t, 1, ws.calls())

	u, ok := g.Underlying().(*fakeExchange)
	require.True(t, ok)
	assert.Same(t, ws, u.ws)

	info := g.Info()
	assert.True(t, info.PostOnlyEnforced)
	assert.True(t, info.WSAvailable)
	assert.True(t, info.UpdateAvailable)
	assert.Equal(t, Mode, info.Mode)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, int64(2), info.Accepted)
	assert.Equal(t, int64(2), info.Rejected)
}

func TestGuard_Logging(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)

	g, err := New(&fakeExchange{rest: newFakeSubmitter()}, &logger)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ws submitter is missing")

	buf.Reset()

	_, err = g.SubmitOrder(context.Background(), limitOrder(flags.PostOnly|flags.Hidden))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"message":"order accepted"`)
	assert.Contains(t, buf.String(), `"flag_names":["HIDDEN","POST_ONLY"]`)
	assert.Contains(t, buf.String(), `"rid":"`)

	buf.Reset()

	_, err = g.SubmitOrder(context.Background(), limitOrder(0))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"message":"order rejected"`)
	assert.Contains(t, buf.String(), `"symbol":"tBTCUSD"`)
}
