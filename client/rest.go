package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/mailru/easyjson"
	"github.com/rs/zerolog"
	"github.com/soulgarden/bfx-postonly/conf"
	"github.com/soulgarden/bfx-postonly/dictionary"
	"github.com/soulgarden/bfx-postonly/request"
	"github.com/soulgarden/bfx-postonly/response"
)

const signaturePrefix = "/api"

// REST talks to the authenticated v2 REST endpoints. It sends whatever it
// is given; policy is enforced by the caller.
type REST struct {
	cfg        *conf.Bot
	httpClient *http.Client
	nonce      nonce
	logger     *zerolog.Logger
}

func NewREST(cfg *conf.Bot, logger *zerolog.Logger) *REST {
	return &REST{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		logger:     logger,
	}
}

func (c *REST) SubmitOrder(ctx context.Context, o *request.Order) (*response.Notification, error) {
	body, err := easyjson.Marshal(o)
	if err != nil {
		return nil, err
	}

	return c.post(ctx, dictionary.SubmitOrderPath, body)
}

func (c *REST) UpdateOrder(ctx context.Context, u *request.Update) (*response.Notification, error) {
	body, err := easyjson.Marshal(u)
	if err != nil {
		return nil, err
	}

	return c.post(ctx, dictionary.UpdateOrderPath, body)
}

func (c *REST) post(ctx context.Context, path string, body []byte) (*response.Notification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RESTHost+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	n := c.nonce.Next()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("bfx-nonce", n)
	req.Header.Set("bfx-apikey", c.cfg.APIKey)
	req.Header.Set("bfx-signature", sign(c.cfg.APISecret, signaturePrefix+path+n+string(body)))

	c.logger.Debug().Str("path", path).Bytes("body", body).Msg("send request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Err(err).Str("path", path).Msg("http do")

		return nil, err
	}
	defer resp.Body.Close()

	msg, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Err(err).Str("path", path).Msg("read response")

		return nil, err
	}

	c.logger.Debug().Int("status", resp.StatusCode).Bytes("body", msg).Msg("got response")

	if er, ok := response.ParseError(msg); ok {
		err = fmt.Errorf("%w: %s", dictionary.ErrResponse, er.Error())
		c.logger.Err(err).Bytes("response", msg).Msg("received error")

		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", dictionary.ErrResponse, resp.StatusCode, string(msg))
	}

	return response.ParseNotification(msg)
}
