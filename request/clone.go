package request

// Clone returns a copy of o that shares no mutable state with it.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}

	c := *o
	c.Extra = cloneExtra(o.Extra)

	return &c
}

// Clone returns a copy of u that shares no mutable state with it.
func (u *Update) Clone() *Update {
	if u == nil {
		return nil
	}

	c := *u
	c.Extra = cloneExtra(u.Extra)

	if u.Flags != nil {
		f := *u.Flags
		c.Flags = &f
	}

	return &c
}

func cloneExtra(extra map[string]interface{}) map[string]interface{} {
	if extra == nil {
		return nil
	}

	c := make(map[string]interface{}, len(extra))
	for k, v := range extra {
		c[k] = v
	}

	return c
}
