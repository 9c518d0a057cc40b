package response

import (
	"encoding/json"
	"fmt"

	"github.com/soulgarden/bfx-postonly/dictionary"
)

// Event is an object frame such as {"event":"auth","status":"OK"}.
type Event struct {
	Event   string `json:"event"`
	Status  string `json:"status"`
	Msg     string `json:"msg"`
	Code    int64  `json:"code"`
	Version int64  `json:"version"`
}

// Frame is an array frame: [CHAN_ID, EVENT, PAYLOAD].
type Frame struct {
	ChanID  int64
	Event   string
	Payload json.RawMessage
}

// ParseEvent decodes msg when it is an object frame.
func ParseEvent(msg []byte) (*Event, bool) {
	if len(msg) == 0 || msg[0] != '{' {
		return nil, false
	}

	e := &Event{}
	if err := json.Unmarshal(msg, e); err != nil {
		return nil, false
	}

	return e, true
}

// ParseFrame decodes an array frame. Heartbeats come back with Event "hb".
func ParseFrame(msg []byte) (*Frame, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return nil, fmt.Errorf("%w: frame: %s", dictionary.ErrUnexpectedResponse, err.Error())
	}

	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: frame has %d fields", dictionary.ErrUnexpectedResponse, len(fields))
	}

	f := &Frame{}
	if err := json.Unmarshal(fields[0], &f.ChanID); err != nil {
		return nil, fmt.Errorf("%w: frame channel: %s", dictionary.ErrUnexpectedResponse, err.Error())
	}

	// Channel data frames carry a payload array where the event would be.
	if err := json.Unmarshal(fields[1], &f.Event); err != nil {
		f.Payload = fields[1]

		return f, nil
	}

	if len(fields) > 2 {
		f.Payload = fields[2]
	}

	return f, nil
}
