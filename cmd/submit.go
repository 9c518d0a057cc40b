package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/soulgarden/bfx-postonly/broker"
	"github.com/soulgarden/bfx-postonly/client"
	"github.com/soulgarden/bfx-postonly/conf"
	"github.com/soulgarden/bfx-postonly/dictionary"
	"github.com/soulgarden/bfx-postonly/flags"
	"github.com/soulgarden/bfx-postonly/guard"
	"github.com/soulgarden/bfx-postonly/request"
	"github.com/soulgarden/bfx-postonly/response"
	"github.com/soulgarden/bfx-postonly/service"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type orderArgs struct {
	orderType string
	flagNames []string
	auxLimit  string
	cid       int64
	gid       int64
}

func (a *orderArgs) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.orderType, "type", "", "order type, config order_type when empty")
	cmd.Flags().StringSliceVar(&a.flagNames, "flag", nil, "order flag name, repeatable (POST_ONLY, HIDDEN, ...)")
	cmd.Flags().StringVar(&a.auxLimit, "aux-limit", "", "limit price for STOP LIMIT orders")
	cmd.Flags().Int64Var(&a.cid, "cid", 0, "client order id")
	cmd.Flags().Int64Var(&a.gid, "gid", 0, "group order id")
}

func (a *orderArgs) options(cfg *conf.Bot) ([]request.Option, error) {
	orderFlags, err := flags.Combine(a.flagNames...)
	if err != nil {
		return nil, err
	}

	orderType := a.orderType
	if orderType == "" {
		orderType = cfg.OrderType
	}

	opts := []request.Option{request.WithType(orderType), request.WithFlags(orderFlags)}

	if a.cid != 0 {
		opts = append(opts, request.WithCID(a.cid))
	}

	if a.gid != 0 {
		opts = append(opts, request.WithGID(a.gid))
	}

	if a.auxLimit != "" {
		auxLimit, err := decimal.NewFromString(a.auxLimit)
		if err != nil {
			return nil, fmt.Errorf("aux limit: %w", err)
		}

		opts = append(opts, request.WithField("price_aux_limit", auxLimit.String()))
	}

	return opts, nil
}

func parseAmountAndPrice(amount, price string) (decimal.Decimal, decimal.Decimal, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("amount: %w", err)
	}

	p, err := decimal.NewFromString(price)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("price: %w", err)
	}

	return a, p, nil
}

func newSubmitCmd() *cobra.Command {
	args := &orderArgs{}

	var async bool

	cmd := &cobra.Command{
		Use:   "submit SYMBOL AMOUNT PRICE",
		Short: "Submit a post only limit order, over REST or with --async over websocket",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, positional []string) error {
			cfg := conf.New()
			logger := newLogger(cfg)

			amount, price, err := parseAmountAndPrice(positional[1], positional[2])
			if err != nil {
				return err
			}

			opts, err := args.options(cfg)
			if err != nil {
				return err
			}

			ctx, stop := service.NewManager(&logger).ListenSignal()
			defer stop()

			g, ctx := errgroup.WithContext(ctx)

			var wsSvc *service.WS

			if async {
				eventBroker := broker.New(&logger)
				go eventBroker.Start(ctx)

				wsSvc = service.NewWS(cfg, eventBroker, &logger)

				if err := wsSvc.Connect(ctx, g); err != nil {
					return err
				}

				g.Go(func() error { return wsSvc.Start(ctx) })
			}

			gd, err := guard.New(service.NewExchange(client.NewREST(cfg, &logger), wsSvc), &logger)
			if err != nil {
				return err
			}

			n, err := submit(ctx, gd, async, positional[0], amount, price, opts)

			if wsSvc != nil {
				stop()
				wsSvc.Close()

				logger.Err(g.Wait()).Msg("wait goroutines")
			}

			if err != nil {
				return err
			}

			return report(cmd.OutOrStdout(), n)
		},
	}

	args.bind(cmd)
	cmd.Flags().BoolVar(&async, "async", false, "submit over websocket")

	return cmd
}

func submit(
	ctx context.Context,
	gd *guard.Guard,
	async bool,
	symbol string,
	amount, price decimal.Decimal,
	opts []request.Option,
) (*response.Notification, error) {
	if !async {
		return gd.SubmitLimitOrder(ctx, symbol, amount, price, opts...)
	}

	p, err := gd.SubmitLimitOrderAsync(ctx, symbol, amount, price, opts...)
	if err != nil {
		return nil, err
	}

	return p.Wait(ctx)
}

// report prints the notification as received. A status other than SUCCESS
// fails the command.
func report(w io.Writer, n *response.Notification) error {
	fmt.Fprintln(w, string(n.Raw))

	if !n.IsSuccess() {
		return fmt.Errorf("%w: order %s: %s", dictionary.ErrResponse, n.Status, n.Text)
	}

	return nil
}
