package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcode-github/property_listing_api/config"
	"github.com/dcode-github/property_listing_api/metrics"
	"github.com/dcode-github/property_listing_api/notify"
	"github.com/dcode-github/property_listing_api/routes"
	"github.com/dcode-github/property_listing_api/services"
	"github.com/dcode-github/property_listing_api/utils"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func newNotifier(rt *app) notify.Notifier {
	cfg := rt.cfg
	if cfg.SMTPHost == "" {
		rt.log.Info("SMTP_HOST not set, welcome emails are logged only")
		return notify.NewLogNotifier(rt.log)
	}
	return notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPTLSMode, rt.log)
}

// corsOptions only allows credentials when every origin is named explicitly.
func corsOptions(origins []string) cors.Options {
	credentials := len(origins) > 0
	for _, o := range origins {
		if o == "*" {
			credentials = false
		}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: credentials,
	}
}

func serve(ctx context.Context) error {
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())
	cfg, log := rt.cfg, rt.log

	if err := rt.store.Migrate(ctx); err != nil {
		return err
	}

	listingCache, closeCache, err := config.NewCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Warn("close cache", zap.Error(err))
		}
	}()

	m := metrics.New()
	dispatcher := notify.NewDispatcher(newNotifier(rt), 256, 30*time.Second, log.Named("notify"))
	dispatcher.OnFailure = m.NotificationFailed

	tokens := utils.NewTokenManager(cfg.JWTKey, cfg.RefreshTokenTTL)
	auth := services.NewAuthService(rt.store.Users(), tokens, dispatcher, m, log)
	listings := services.NewListingService(rt.store.Properties(), rt.store.Users(), listingCache, cfg.CacheTTL, m, log)

	router := routes.NewRouter(routes.Deps{
		Auth:     auth,
		Listings: listings,
		DB:       rt.store,
		Metrics:  m,
		Log:      log,
	})

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        cors.New(corsOptions(cfg.CORSAllowedOrigins)).Handler(router),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server running", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		if derr := dispatcher.Close(shutdownCtx); derr != nil {
			log.Warn("notification queue not drained", zap.Error(derr))
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server gracefully stopped")
	return nil
}
