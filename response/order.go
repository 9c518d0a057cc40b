package response

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/soulgarden/bfx-postonly/dictionary"
)

// Order array indexes, see the exchange's order model.
const (
	orderID = iota
	orderGID
	orderCID
	orderSymbol
	orderMTSCreate
	orderMTSUpdate
	orderAmount
	orderAmountOrig
	orderType
	orderTypePrev
	orderMTSTif
	_
	orderFlags
	orderStatus
	_
	_
	orderPrice
	orderPriceAvg
	orderPriceTrailing
	orderPriceAuxLimit
)

type Order struct {
	ID            int64
	GID           int64
	CID           int64
	Symbol        string
	MTSCreate     int64
	MTSUpdate     int64
	Amount        decimal.Decimal
	AmountOrig    decimal.Decimal
	Type          string
	Flags         int64
	Status        string
	Price         decimal.Decimal
	PriceAvg      decimal.Decimal
	PriceTrailing decimal.Decimal
	PriceAuxLimit decimal.Decimal
}

func ParseOrder(raw json.RawMessage) (*Order, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: order: %s", dictionary.ErrUnexpectedResponse, err.Error())
	}

	if len(fields) <= orderPrice {
		return nil, fmt.Errorf("%w: order has %d fields", dictionary.ErrUnexpectedResponse, len(fields))
	}

	o := &Order{}

	targets := map[int]interface{}{
		orderID:            &o.ID,
		orderGID:           &o.GID,
		orderCID:           &o.CID,
		orderSymbol:        &o.Symbol,
		orderMTSCreate:     &o.MTSCreate,
		orderMTSUpdate:     &o.MTSUpdate,
		orderAmount:        &o.Amount,
		orderAmountOrig:    &o.AmountOrig,
		orderType:          &o.Type,
		orderFlags:         &o.Flags,
		orderStatus:        &o.Status,
		orderPrice:         &o.Price,
		orderPriceAvg:      &o.PriceAvg,
		orderPriceTrailing: &o.PriceTrailing,
		orderPriceAuxLimit: &o.PriceAuxLimit,
	}

	for i, v := range targets {
		if err := unmarshalField(fields, i, v); err != nil {
			return nil, fmt.Errorf("%w: order field %d: %s", dictionary.ErrUnexpectedResponse, i, err.Error())
		}
	}

	return o, nil
}
