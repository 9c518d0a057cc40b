package guard

import (
	"context"

	"github.com/soulgarden/bfx-postonly/response"
)

// Pending is an accepted order whose transport call is in flight.
type Pending struct {
	done         chan struct{}
	notification *response.Notification
	err          error
}

func start(ctx context.Context, c call[*response.Notification]) *Pending {
	p := &Pending{done: make(chan struct{})}

	go func() {
		defer close(p.done)

		p.notification, p.err = c(ctx)
	}()

	return p
}

// Done is closed once the transport returned.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the transport returns or ctx is done. Giving up on ctx
// does not cancel the transport call itself.
func (p *Pending) Wait(ctx context.Context) (*response.Notification, error) {
	select {
	case <-p.done:
		return p.notification, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
