package response

import (
	"encoding/json"
	"fmt"

	"github.com/soulgarden/bfx-postonly/dictionary"
)

// Notification is the exchange's acknowledgement of an order request:
// [MTS, TYPE, MESSAGE_ID, null, NOTIFY_INFO, CODE, STATUS, TEXT].
// Raw keeps the payload exactly as received.
type Notification struct {
	MTS       int64
	Type      string
	MessageID int64
	Orders    []*Order
	Code      int64
	Status    string
	Text      string
	Raw       json.RawMessage
}

func (n *Notification) IsSuccess() bool {
	return n.Status == dictionary.SuccessStatus
}

// ParseNotification decodes a notification array. NOTIFY_INFO holds a list
// of orders on REST and a single order on the websocket.
func ParseNotification(raw []byte) (*Notification, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: notification: %s", dictionary.ErrUnexpectedResponse, err.Error())
	}

	if len(fields) < 8 {
		return nil, fmt.Errorf("%w: notification has %d fields", dictionary.ErrUnexpectedResponse, len(fields))
	}

	n := &Notification{Raw: append(json.RawMessage(nil), raw...)}

	for i, v := range map[int]interface{}{0: &n.MTS, 1: &n.Type, 2: &n.MessageID, 5: &n.Code, 6: &n.Status, 7: &n.Text} {
		if err := unmarshalField(fields, i, v); err != nil {
			return nil, fmt.Errorf("%w: notification field %d: %s", dictionary.ErrUnexpectedResponse, i, err.Error())
		}
	}

	orders, err := parseNotifyInfo(fields[4])
	if err != nil {
		return nil, err
	}

	n.Orders = orders

	return n, nil
}

func parseNotifyInfo(raw json.RawMessage) ([]*Order, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: notify info: %s", dictionary.ErrUnexpectedResponse, err.Error())
	}

	if len(items) == 0 {
		return nil, nil
	}

	// A single order starts with its numeric ID, a list starts with an array.
	if items[0][0] != '[' {
		o, err := ParseOrder(raw)
		if err != nil {
			return nil, err
		}

		return []*Order{o}, nil
	}

	orders := make([]*Order, 0, len(items))

	for _, item := range items {
		o, err := ParseOrder(item)
		if err != nil {
			return nil, err
		}

		orders = append(orders, o)
	}

	return orders, nil
}
