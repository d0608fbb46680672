package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	gatewayCmd "github.com/novadent/novadent/gateway/cmd"
	"github.com/novadent/novadent/internal/common/constants"
	"github.com/novadent/novadent/internal/log"
	storefrontCmd "github.com/novadent/novadent/storefront/cmd"
)

func Start() {
	logger := log.InitLogger("/var/log/novadent.log").
		With().
		Str(log.KEY_APP_NAME, constants.APP_MAIN_NOVADENT).
		Str(log.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{}
	commands := []*cobra.Command{
		{
			Use:   "storefront",
			Short: "Run storefront service",
			Run: func(cmd *cobra.Command, args []string) {
				storefrontCmd.RunStorefrontService(cmd.Context())
			},
		},
		{
			Use:   "gateway",
			Short: "Run gateway service",
			Run: func(cmd *cobra.Command, args []string) {
				gatewayCmd.RunGatewayService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
