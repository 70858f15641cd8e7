package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/QEStudios/ChartScaler/config"
	"github.com/QEStudios/ChartScaler/server"
)

func newServeCmd(logger *log.Logger) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rescale, inspect and MIDI endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			if cfg.SentryDSN != "" {
				err := sentry.Init(sentry.ClientOptions{
					Dsn:              cfg.SentryDSN,
					Environment:      cfg.Environment,
					EnableTracing:    true,
					TracesSampleRate: 1.0,
				})
				if err != nil {
					return fmt.Errorf("failed to initialize sentry: %w", err)
				}
				defer sentry.Flush(2 * time.Second)
				logger.Printf("Sentry enabled (%s)", cfg.Environment)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = server.New(cfg, logger).ListenAndServe(ctx)
			if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides CHARTSCALE_ADDR)")
	return cmd
}
