package request

import (
	"github.com/shopspring/decimal"
	"github.com/soulgarden/bfx-postonly/dictionary"
)

// Order is a new-order payload. Amount is signed: positive buys, negative sells.
// Extra carries exchange fields this module never inspects, e.g. price_aux_limit.
type Order struct {
	Type   string
	Symbol string
	Amount decimal.Decimal
	Price  decimal.Decimal
	Flags  int64
	CID    int64
	GID    int64
	Extra  map[string]interface{}
}

type Option func(o *Order)

func WithType(orderType string) Option {
	return func(o *Order) { o.Type = orderType }
}

func WithFlags(flags int64) Option {
	return func(o *Order) { o.Flags = flags }
}

func WithCID(cid int64) Option {
	return func(o *Order) { o.CID = cid }
}

func WithGID(gid int64) Option {
	return func(o *Order) { o.GID = gid }
}

// WithField sets a passthrough field sent as is.
func WithField(key string, value interface{}) Option {
	return func(o *Order) {
		if o.Extra == nil {
			o.Extra = make(map[string]interface{})
		}

		o.Extra[key] = value
	}
}

// NewLimitOrder builds an EXCHANGE LIMIT order and applies opts in order.
func NewLimitOrder(symbol string, amount, price decimal.Decimal, opts ...Option) *Order {
	o := &Order{
		Type:   dictionary.ExchangeLimit,
		Symbol: symbol,
		Amount: amount,
		Price:  price,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// ReservedField reports whether key is one of the typed order fields,
// which must not be set through Extra.
func ReservedField(key string) bool {
	switch key {
	case "type", "symbol", "amount", "price", "flags", "cid", "gid", "id":
		return true
	}

	return false
}
