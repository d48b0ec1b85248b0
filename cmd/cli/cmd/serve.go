// Package cmd - serve command
package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wc-rating/api"
	"wc-rating/internal/config"
	"wc-rating/internal/logging"
)

var serveAddr string

// serveCmd runs the HTTP quoting API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quoting API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		plan, err := loadPlan(cfg.Rating)
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		logCfg := cfg.Logging
		if verbose {
			logCfg.Level = "debug"
		}
		if err := logging.Initialize(logging.ForServer(logCfg)); err != nil {
			return err
		}
		defer logging.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		newUI(cmd).Info("serving plan %s on %s", plan.Name(), addr)
		logging.Info("starting server", zap.String("addr", addr), zap.String("plan", plan.Name()))
		if err := api.NewServer(Version, plan, logging.Named("api")).ListenAndServe(ctx, addr); err != nil {
			logging.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}
