package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	httpadapter "todoapi/internal/adapter/http"
	"todoapi/pkg/config"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)

			if err != nil {
				return err
			}

			logger, err := config.NewLokiLogger(cfg.ServiceName, cfg.LokiURL)

			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := httpadapter.StartServerWithConfig(ctx, cfg, logger); err != nil {
				logger.Zap().Error("Server stopped", zap.Error(err))
				return err
			}

			return nil
		},
	}

	addFlags(cmd.Flags(), v, serveFlags)
	addBoolFlag(cmd.Flags(), v, "rate_limit_enabled", "rate-limit", "enable per-client rate limiting")
	addBoolFlag(cmd.Flags(), v, "enforce_https", "enforce-https", "redirect plain HTTP to HTTPS")
	addBoolFlag(cmd.Flags(), v, "telemetry_enabled", "telemetry", "export traces over OTLP")

	return cmd
}
