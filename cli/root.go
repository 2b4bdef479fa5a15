// Package cli holds the property_listing command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dcode-github/property_listing_api/config"
	"github.com/dcode-github/property_listing_api/logger"
	"github.com/dcode-github/property_listing_api/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "property_listing"

var envFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "property_listing",
		Short:         "Property listing API server and admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default ./.env)")

	root.AddCommand(serveCmd(), migrateCmd(), createAdminCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg   config.Config
	log   *zap.Logger
	store store.Store
}

// bootstrap loads configuration, builds the logger and opens the store.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, loadedEnv, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel, ServiceName: serviceName})
	if !loadedEnv {
		log.Debug("no .env file loaded, using process environment")
	}

	s, err := config.OpenStore(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	log.Info("store opened", zap.String("driver", cfg.DBDriver))
	return &app{cfg: cfg, log: log, store: s}, nil
}

func (rt *app) close(ctx context.Context) {
	if err := rt.store.Close(ctx); err != nil {
		rt.log.Warn("close store", zap.Error(err))
	}
	_ = rt.log.Sync()
}
