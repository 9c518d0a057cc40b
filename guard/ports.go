package guard

import (
	"context"

	"github.com/soulgarden/bfx-postonly/request"
	"github.com/soulgarden/bfx-postonly/response"
)

// Submitter is the order submission capability of an exchange transport.
type Submitter interface {
	SubmitOrder(ctx context.Context, o *request.Order) (*response.Notification, error)
}

// Updater is implemented by transports that can amend a resting order.
type Updater interface {
	UpdateOrder(ctx context.Context, u *request.Update) (*response.Notification, error)
}

// Exchange exposes the transports a Guard wraps. RESTSubmitter is mandatory,
// WSSubmitter may return nil.
type Exchange interface {
	RESTSubmitter() Submitter
	WSSubmitter() Submitter
}

type SubmitFunc func(ctx context.Context, o *request.Order) (*response.Notification, error)

func (f SubmitFunc) SubmitOrder(ctx context.Context, o *request.Order) (*response.Notification, error) {
	return f(ctx, o)
}
