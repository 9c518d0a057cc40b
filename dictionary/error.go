package dictionary

import "errors"

var ErrStructuralViolation = errors.New("malformed order")

var ErrOrderTypeNotPermitted = errors.New("order type not permitted")

var ErrPostOnlyMissing = errors.New("post only flag missing")

var ErrUnknownFlag = errors.New("unknown flag")

var ErrInitialization = errors.New("guard initialization")

var ErrCapabilityUnavailable = errors.New("capability unavailable")

var ErrWsReadChannelClosed = errors.New("ws read channel closed")

var ErrWsClosed = errors.New("ws connection closed")

var ErrResponse = errors.New("exchange returned error")

var ErrUnexpectedResponse = errors.New("unexpected response format")

var ErrChannelOverflowed = errors.New("channel overflowed")
