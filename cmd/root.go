package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/soulgarden/bfx-postonly/conf"
	"github.com/spf13/cobra"
)

//nolint: gochecknoglobals
var rootCmd = &cobra.Command{
	Use:          "bfx-postonly",
	Short:        "Submit maker only limit orders to Bitfinex",
	SilenceUsage: true,
}

func Execute() {
	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newFlagsCmd())
	rootCmd.AddCommand(newInfoCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command execution failed")
		os.Exit(1)
	}
}

func newLogger(cfg *conf.Bot) zerolog.Logger {
	defaultLogLevel := zerolog.InfoLevel
	if cfg.Debug {
		defaultLogLevel = zerolog.DebugLevel
	}

	return zerolog.New(os.Stdout).Level(defaultLogLevel).With().Timestamp().Caller().Logger()
}
