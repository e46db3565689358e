package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formify/internal/app"
	"github.com/goliatone/go-formify/internal/config"
	"github.com/goliatone/go-formify/internal/logging"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		addr   string
		driver string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the form API server",
		Long: `serve reads its settings from --config, a .env file and FORMIFY_*
environment variables (for example FORMIFY_HTTP_ADDR, FORMIFY_STORE_DRIVER,
FORMIFY_STORE_MONGOURI, FORMIFY_DRAFTS_REDISADDR).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.HTTP.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Driver = strings.ToLower(driver)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			level := cfg.Log.Level
			if c.verbose {
				level = "debug"
			}
			logger, _, err := logging.New(level, cfg.Development())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := application.Close(); err != nil {
					logger.Warn("close application", zap.Error(err))
				}
			}()
			return application.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides the config")
	cmd.Flags().StringVar(&driver, "store", "", "Store driver (memory, json, mongo, postgres), overrides the config")
	return cmd
}
