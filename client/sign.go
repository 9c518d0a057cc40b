package client

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/soulgarden/bfx-postonly/dictionary"
	"go.uber.org/atomic"
)

func sign(secret, payload string) string {
	mac := hmac.New(sha512.New384, []byte(secret))
	_, _ = mac.Write([]byte(payload))

	return hex.EncodeToString(mac.Sum(nil))
}

// nonce hands out strictly increasing microsecond timestamps.
type nonce struct {
	last atomic.Int64
}

func (n *nonce) Next() string {
	now := time.Now().UnixNano() / int64(time.Microsecond)

	for {
		last := n.last.Load()

		next := now
		if next <= last {
			next = last + 1
		}

		if n.last.CompareAndSwap(last, next) {
			return strconv.FormatInt(next, dictionary.DefaultIntBase)
		}
	}
}
