package cmd

import (
	"fmt"

	"github.com/soulgarden/bfx-postonly/client"
	"github.com/soulgarden/bfx-postonly/conf"
	"github.com/soulgarden/bfx-postonly/guard"
	"github.com/soulgarden/bfx-postonly/service"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show what the order guard enforces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := conf.New()
			logger := newLogger(cfg)

			gd, err := guard.New(service.NewExchange(client.NewREST(cfg, &logger), nil), &logger)
			if err != nil {
				return err
			}

			info := gd.Info()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "version:            %s\n", info.Version)
			fmt.Fprintf(out, "mode:               %s\n", info.Mode)
			fmt.Fprintf(out, "post only enforced: %t\n", info.PostOnlyEnforced)
			fmt.Fprintf(out, "order update:       %t\n", info.UpdateAvailable)
			fmt.Fprintf(out, "credentials:        %t\n", cfg.HasCredentials())
			fmt.Fprintf(out, "rest host:          %s\n", cfg.RESTHost)
			fmt.Fprintf(out, "ws endpoint:        %s://%s%s\n", cfg.Scheme, cfg.WSHost, cfg.WSPath)

			return nil
		},
	}
}
