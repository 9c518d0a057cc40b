package request

import "github.com/shopspring/decimal"

// Update changes a resting order. Zero decimals are omitted from the payload;
// a nil Flags leaves the order's flags as they are on the exchange.
type Update struct {
	ID     int64
	Amount decimal.Decimal
	Delta  decimal.Decimal
	Price  decimal.Decimal
	Flags  *int64
	Extra  map[string]interface{}
}
