// Package policy decides whether an order may reach the exchange: only limit
// orders carrying the POST_ONLY flag are allowed. It never edits an order
// and never logs; callers get a typed error back and decide what to do.
package policy

import (
	"fmt"
	"strings"

	"github.com/soulgarden/bfx-postonly/dictionary"
	"github.com/soulgarden/bfx-postonly/flags"
	"github.com/soulgarden/bfx-postonly/request"
)

const limitMarker = "LIMIT"

// StructuralError reports a payload that is malformed before any policy
// question can be asked of it.
type StructuralError struct {
	Field  string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s %s", dictionary.ErrStructuralViolation, e.Field, e.Reason)
}

func (e *StructuralError) Unwrap() error { return dictionary.ErrStructuralViolation }

// OrderTypeError rejects an order type that is not a limit variant.
type OrderTypeError struct {
	Type string
}

func (e *OrderTypeError) Error() string {
	return fmt.Sprintf("%s: %q, only limit orders are allowed", dictionary.ErrOrderTypeNotPermitted, e.Type)
}

func (e *OrderTypeError) Unwrap() error { return dictionary.ErrOrderTypeNotPermitted }

// PostOnlyError rejects a limit order whose flags lack the POST_ONLY bit.
type PostOnlyError struct {
	Flags int64
}

func (e *PostOnlyError) Error() string {
	return fmt.Sprintf("%s: flags %d do not include POST_ONLY (%d)", dictionary.ErrPostOnlyMissing, e.Flags, flags.PostOnly)
}

func (e *PostOnlyError) Unwrap() error { return dictionary.ErrPostOnlyMissing }

// IsLimit reports whether orderType is a limit variant, stop-limit included.
func IsLimit(orderType string) bool {
	return strings.Contains(strings.ToUpper(orderType), limitMarker)
}

// Check applies the rules in a fixed order so the first failing rule always
// names the rejection: type present, limit variant, flags well formed,
// POST_ONLY set.
func Check(orderType string, orderFlags int64) error {
	if orderType == "" {
		return &StructuralError{Field: "type", Reason: "is missing"}
	}

	if !IsLimit(orderType) {
		return &OrderTypeError{Type: orderType}
	}

	return checkFlags(orderFlags)
}

func checkFlags(orderFlags int64) error {
	if orderFlags < 0 {
		return &StructuralError{Field: "flags", Reason: fmt.Sprintf("must be non-negative, got %d", orderFlags)}
	}

	if !flags.IsSet(orderFlags, flags.PostOnly) {
		return &PostOnlyError{Flags: orderFlags}
	}

	return nil
}

// Evaluate runs Check on the order's type and flags, then Validate.
func Evaluate(o *request.Order) error {
	if o == nil {
		return &StructuralError{Field: "order", Reason: "is nil"}
	}

	if err := Check(o.Type, o.Flags); err != nil {
		return err
	}

	return Validate(o)
}

// Validate checks the minimal payload shape the exchange needs. Exchange-side
// constraints such as tick size or minimum notional are not checked here.
func Validate(o *request.Order) error {
	if o == nil {
		return &StructuralError{Field: "order", Reason: "is nil"}
	}

	if o.Symbol == "" {
		return &StructuralError{Field: "symbol", Reason: "is missing"}
	}

	if o.Amount.IsZero() {
		return &StructuralError{Field: "amount", Reason: "cannot be zero"}
	}

	if IsLimit(o.Type) && !o.Price.IsPositive() {
		return &StructuralError{Field: "price", Reason: "must be positive for limit orders"}
	}

	return checkExtra(o.Extra)
}

// CheckUpdate guards order updates. An update that sends flags must keep
// POST_ONLY; one that leaves flags out keeps the resting order's flags.
func CheckUpdate(u *request.Update) error {
	if u == nil {
		return &StructuralError{Field: "update", Reason: "is nil"}
	}

	if u.ID <= 0 {
		return &StructuralError{Field: "id", Reason: "is missing"}
	}

	if u.Flags != nil {
		if err := checkFlags(*u.Flags); err != nil {
			return err
		}
	}

	if u.Price.IsNegative() {
		return &StructuralError{Field: "price", Reason: "must be positive"}
	}

	return checkExtra(u.Extra)
}

func checkExtra(extra map[string]interface{}) error {
	for k := range extra {
		if request.ReservedField(k) {
			return &StructuralError{Field: k, Reason: "cannot be set as a passthrough field"}
		}
	}

	return nil
}
