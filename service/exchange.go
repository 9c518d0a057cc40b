package service

import (
	"github.com/soulgarden/bfx-postonly/client"
	"github.com/soulgarden/bfx-postonly/guard"
)

// Exchange bundles the Bitfinex transports. The websocket side is optional.
type Exchange struct {
	rest *client.REST
	ws   *WS
}

func NewExchange(rest *client.REST, ws *WS) *Exchange {
	return &Exchange{rest: rest, ws: ws}
}

func (e *Exchange) RESTSubmitter() guard.Submitter {
	if e.rest == nil {
		return nil
	}

	return e.rest
}

func (e *Exchange) WSSubmitter() guard.Submitter {
	if e.ws == nil {
		return nil
	}

	return e.ws
}

func (e *Exchange) REST() *client.REST {
	return e.rest
}

func (e *Exchange) WS() *WS {
	return e.ws
}
