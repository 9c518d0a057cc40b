package dictionary

import "time"

// Bitfinex order types.
const (
	Limit             = "LIMIT"
	Market            = "MARKET"
	ExchangeLimit     = "EXCHANGE LIMIT"
	ExchangeMarket    = "EXCHANGE MARKET"
	StopLimit         = "STOP LIMIT"
	ExchangeStopLimit = "EXCHANGE STOP LIMIT"
)

// WebSocket channel 0 event names.
const (
	AuthEvent       = "auth"
	InfoEvent       = "info"
	HeartbeatEvent  = "hb"
	NewOrder        = "on"
	UpdateOrder     = "ou"
	Notification    = "n"
	NewOrderRequest = "on-req"
	UpdateOrderReq  = "ou-req"
	ErrorStatus     = "ERROR"
	FailureStatus   = "FAILURE"
	SuccessStatus   = "SUCCESS"
)

// REST paths, relative to the host.
const (
	SubmitOrderPath = "/v2/auth/w/order/submit"
	UpdateOrderPath = "/v2/auth/w/order/update"
)

const DefaultIntBase = 10

const (
	SignalChLen      = 1
	ShutDownDuration = time.Second * 5
)
