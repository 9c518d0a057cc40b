package request

import (
	"encoding/json"
	"sort"

	"github.com/mailru/easyjson/jwriter"
	"github.com/shopspring/decimal"
)

func (o *Order) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"type":`)
	w.String(o.Type)
	w.RawString(`,"symbol":`)
	w.String(o.Symbol)
	w.RawString(`,"amount":`)
	w.String(o.Amount.String())

	writeDecimal(w, "price", o.Price)

	if o.Flags != 0 {
		w.RawString(`,"flags":`)
		w.Int64(o.Flags)
	}

	if o.CID != 0 {
		w.RawString(`,"cid":`)
		w.Int64(o.CID)
	}

	if o.GID != 0 {
		w.RawString(`,"gid":`)
		w.Int64(o.GID)
	}

	writeExtra(w, o.Extra)
	w.RawByte('}')
}

func (o *Order) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	o.MarshalEasyJSON(&w)

	return w.Buffer.BuildBytes(), w.Error
}

func (u *Update) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"id":`)
	w.Int64(u.ID)

	writeDecimal(w, "amount", u.Amount)
	writeDecimal(w, "delta", u.Delta)
	writeDecimal(w, "price", u.Price)

	if u.Flags != nil {
		w.RawString(`,"flags":`)
		w.Int64(*u.Flags)
	}

	writeExtra(w, u.Extra)
	w.RawByte('}')
}

func (u *Update) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	u.MarshalEasyJSON(&w)

	return w.Buffer.BuildBytes(), w.Error
}

func writeDecimal(w *jwriter.Writer, key string, d decimal.Decimal) {
	if d.IsZero() {
		return
	}

	w.RawByte(',')
	w.String(key)
	w.RawByte(':')
	w.String(d.String())
}

// writeExtra emits passthrough fields in key order. Reserved keys are
// skipped so the typed fields cannot be shadowed.
func writeExtra(w *jwriter.Writer, extra map[string]interface{}) {
	keys := make([]string, 0, len(extra))

	for k := range extra {
		if ReservedField(k) {
			continue
		}

		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		w.RawByte(',')
		w.String(k)
		w.RawByte(':')
		w.Raw(json.Marshal(extra[k]))
	}
}
