package cmd

import (
	"fmt"

	"github.com/soulgarden/bfx-postonly/conf"
	"github.com/soulgarden/bfx-postonly/policy"
	"github.com/soulgarden/bfx-postonly/request"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	args := &orderArgs{}

	cmd := &cobra.Command{
		Use:   "check SYMBOL AMOUNT PRICE",
		Short: "Tell whether an order would pass the guard, without sending it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, positional []string) error {
			amount, price, err := parseAmountAndPrice(positional[1], positional[2])
			if err != nil {
				return err
			}

			opts, err := args.options(&conf.Bot{OrderType: "EXCHANGE LIMIT"})
			if err != nil {
				return err
			}

			o := request.NewLimitOrder(positional[0], amount, price, opts...)

			if err := policy.Evaluate(o); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s\n", err)

				return err
			}

			body, err := o.MarshalJSON()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "accepted: %s\n", body)

			return nil
		},
	}

	args.bind(cmd)

	return cmd
}
