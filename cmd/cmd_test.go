package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/soulgarden/bfx-postonly/dictionary"
	"github.com/soulgarden/bfx-postonly/flags"
	"github.com/soulgarden/bfx-postonly/guard"
	"github.com/soulgarden/bfx-postonly/request"
	"github.com/soulgarden/bfx-postonly/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{name: "list", args: nil, want: "POST_ONLY    4096\n"},
		{name: "combine", args: []string{"post_only", "HIDDEN"}, want: "4160 HIDDEN|POST_ONLY\n"},
		{name: "unknown", args: []string{"MAKER"}, wantErr: dictionary.ErrUnknownFlag},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}

			c := newFlagsCmd()
			c.SetOut(out)
			c.SetErr(&bytes.Buffer{})
			c.SetArgs(tt.args)

			err := c.Execute()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestCheckCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "post only limit",
			args: []string{"tBTCUSD", "0.001", "30000", "--flag", "POST_ONLY"},
			want: `accepted: {"type":"EXCHANGE LIMIT","symbol":"tBTCUSD","amount":"0.001","price":"30000","flags":4096}`,
		},
		{
			name: "stop limit",
			args: []string{"tBTCUSD", "0.001", "30000", "--type", "STOP LIMIT", "--aux-limit", "29500", "--flag", "POST_ONLY"},
			want: `"price_aux_limit":"29500"`,
		},
		{
			name:    "limit without post only",
			args:    []string{"tBTCUSD", "0.001", "30000", "--flag", "HIDDEN"},
			want:    "rejected:",
			wantErr: dictionary.ErrPostOnlyMissing,
		},
		{
			name:    "market",
			args:    []string{"tBTCUSD", "0.001", "0", "--type", "EXCHANGE MARKET", "--flag", "POST_ONLY"},
			want:    `"EXCHANGE MARKET"`,
			wantErr: dictionary.ErrOrderTypeNotPermitted,
		},
		{
			name:    "unknown flag",
			args:    []string{"tBTCUSD", "0.001", "30000", "--flag", "MAKER"},
			wantErr: dictionary.ErrUnknownFlag,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}

			c := newCheckCmd()
			c.SetOut(out)
			c.SetErr(&bytes.Buffer{})
			c.SetArgs(tt.args)

			err := c.Execute()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Contains(t, out.String(), tt.want)
		})
	}
}

const refusedNotification = `[1567590617442,"on-req",null,null,[[30630788061,null,1567590617439,"tBTCUSD",` +
	`1567590617439,1567590617439,0.001,0.001,"EXCHANGE LIMIT",null,null,null,4096,"ACTIVE",null,null,` +
	`30000,0,0,0,null,null,null,0,null,null,null,null,"API>BFX",null,null,null]],` +
	`null,"ERROR","Invalid order: not enough exchange balance"]`

const acceptedNotification = `[1567590617442,"on-req",null,null,[],null,"SUCCESS","Submitting 1 orders."]`

type fakeExchange struct {
	body  string
	calls int
}

func (e *fakeExchange) SubmitOrder(context.Context, *request.Order) (*response.Notification, error) {
	e.calls++

	return response.ParseNotification([]byte(e.body))
}

func (e *fakeExchange) RESTSubmitter() guard.Submitter { return e }

func (e *fakeExchange) WSSubmitter() guard.Submitter { return e }

func TestSubmitAndReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		async     bool
		flags     int64
		wantErr   error
		wantCalls int
		wantOut   string
	}{
		{
			name:      "accepted",
			body:      acceptedNotification,
			flags:     flags.PostOnly,
			wantCalls: 1,
			wantOut:   `"SUCCESS"`,
		},
		{
			name:      "error status fails the command",
			body:      refusedNotification,
			flags:     flags.PostOnly,
			wantErr:   dictionary.ErrResponse,
			wantCalls: 1,
			wantOut:   "not enough exchange balance",
		},
		{
			name:      "error status over websocket",
			body:      refusedNotification,
			async:     true,
			flags:     flags.PostOnly,
			wantErr:   dictionary.ErrResponse,
			wantCalls: 1,
			wantOut:   `"ERROR"`,
		},
		{
			name:    "rejected before the exchange",
			body:    acceptedNotification,
			flags:   flags.Hidden,
			wantErr: dictionary.ErrPostOnlyMissing,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := &fakeExchange{body: tt.body}

			gd, err := guard.New(e, nil)
			require.NoError(t, err)

			out := &bytes.Buffer{}

			n, err := submit(context.Background(), gd, tt.async, "tBTCUSD",
				decimal.RequireFromString("0.001"), decimal.RequireFromString("30000"),
				[]request.Option{request.WithFlags(tt.flags)},
			)
			if err == nil {
				err = report(out, n)
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantCalls, e.calls)
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}
