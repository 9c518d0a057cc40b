package request

import (
	"github.com/mailru/easyjson/jwriter"
	"github.com/soulgarden/bfx-postonly/dictionary"
)

type Msg struct {
	Type    int
	Payload []byte
}

// Auth is the websocket authentication event.
type Auth struct {
	APIKey  string
	Sig     string
	Payload string
	Nonce   string
	Filter  []string
}

func (a *Auth) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"event":`)
	w.String(dictionary.AuthEvent)
	w.RawString(`,"apiKey":`)
	w.String(a.APIKey)
	w.RawString(`,"authSig":`)
	w.String(a.Sig)
	w.RawString(`,"authPayload":`)
	w.String(a.Payload)
	w.RawString(`,"authNonce":`)
	w.String(a.Nonce)

	if len(a.Filter) > 0 {
		w.RawString(`,"filter":[`)

		for i, f := range a.Filter {
			if i > 0 {
				w.RawByte(',')
			}

			w.String(f)
		}

		w.RawByte(']')
	}

	w.RawByte('}')
}

// Input wraps an order payload into a channel 0 input frame: [0, event, null, payload].
type Input struct {
	Event   string
	Payload interface {
		MarshalEasyJSON(w *jwriter.Writer)
	}
}

func (i *Input) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`[0,`)
	w.String(i.Event)
	w.RawString(`,null,`)
	i.Payload.MarshalEasyJSON(w)
	w.RawByte(']')
}
