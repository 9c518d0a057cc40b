package response

import (
	"encoding/json"
	"fmt"
)

// Error is the REST error body: ["error", code, text].
type Error struct {
	Code int64
	Text string
}

func (e *Error) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Text)
}

// ParseError returns the error body if msg is one.
func ParseError(msg []byte) (*Error, bool) {
	var fields []json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil || len(fields) < 3 {
		return nil, false
	}

	var tag string
	if err := json.Unmarshal(fields[0], &tag); err != nil || tag != "error" {
		return nil, false
	}

	e := &Error{}
	if err := unmarshalField(fields, 1, &e.Code); err != nil {
		return nil, false
	}

	if err := unmarshalField(fields, 2, &e.Text); err != nil {
		return nil, false
	}

	return e, true
}

func unmarshalField(fields []json.RawMessage, i int, v interface{}) error {
	if i >= len(fields) || string(fields[i]) == "null" {
		return nil
	}

	return json.Unmarshal(fields[i], v)
}
