package guard

import (
	"context"
	"reflect"

	"github.com/rs/zerolog"
	uuid "github.com/satori/go.uuid"
	"github.com/soulgarden/bfx-postonly/flags"
	"github.com/soulgarden/bfx-postonly/request"
)

// call is a transport invocation that already passed the policy check.
type call[R any] func(ctx context.Context) (R, error)

// guarded checks req and, when it passes, returns the transport call for it.
// The check never performs I/O, so a rejected request has no side effects.
type guarded[T, R any] func(req T) (call[R], error)

type cloner[T any] interface {
	Clone() T
}

// wrap checks a private copy of every request and hands that same copy to
// next, so changes the caller makes after acceptance never reach the wire.
func wrap[T cloner[T], R any](
	g *Guard,
	op string,
	check func(T) error,
	describe func(*zerolog.Event, T) *zerolog.Event,
	next func(context.Context, T) (R, error),
) guarded[T, R] {
	return func(orig T) (call[R], error) {
		req := orig.Clone()
		rid := uuid.NewV4().String()

		if err := check(req); err != nil {
			g.rejected.Inc()

			describe(g.logger.Warn().Err(err).Str("op", op).Str("rid", rid), req).Msg("order rejected")

			return nil, err
		}

		g.accepted.Inc()

		describe(g.logger.Info().Str("op", op).Str("rid", rid), req).Msg("order accepted")

		return func(ctx context.Context) (R, error) {
			res, err := next(ctx, req)
			if err != nil {
				g.logger.Err(err).Str("op", op).Str("rid", rid).Msg("transport failed")
			}

			return res, err
		}, nil
	}
}

func describeOrder(e *zerolog.Event, o *request.Order) *zerolog.Event {
	if o == nil {
		return e
	}

	e = e.
		Str("type", o.Type).
		Str("symbol", o.Symbol).
		Str("amount", o.Amount.String()).
		Str("price", o.Price.String()).
		Int64("flags", o.Flags)

	if o.Flags > 0 {
		e = e.Strs("flag_names", flags.Describe(o.Flags))
	}

	if o.CID != 0 {
		e = e.Int64("cid", o.CID)
	}

	return e
}

func describeUpdate(e *zerolog.Event, u *request.Update) *zerolog.Event {
	if u == nil {
		return e
	}

	e = e.Int64("id", u.ID)

	if !u.Price.IsZero() {
		e = e.Str("price", u.Price.String())
	}

	if u.Flags != nil {
		e = e.Int64("flags", *u.Flags)
	}

	return e
}

// isNil catches interfaces holding a typed nil pointer.
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
