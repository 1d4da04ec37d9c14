package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/content"
	"github.com/samounneang/asatec-vercel/internal/forms"
	"github.com/samounneang/asatec-vercel/internal/httpserver"
	"github.com/samounneang/asatec-vercel/internal/platform/config"
	"github.com/samounneang/asatec-vercel/internal/platform/observability"
	"github.com/samounneang/asatec-vercel/internal/session"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the public site and the admin console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.WithEnvFile(root.envFile))
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	baseLogger, err := observability.NewLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("initialise logger: %w", err)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("console").With(zap.String("environment", cfg.Server.Environment))

	client, err := apiclient.New(apiclient.Options{
		SiteOrigin:     cfg.Server.SiteOrigin,
		UpstreamOrigin: cfg.API.Origin,
		PreviewHosts:   cfg.API.PreviewHosts,
		Timeout:        cfg.API.Timeout,
		Logger:         logger.Named("apiclient"),
	})
	if err != nil {
		return fmt.Errorf("initialise api client: %w", err)
	}

	sessions, err := session.NewManager(session.Config{
		HashKey:      cfg.Session.HashKey,
		BlockKey:     cfg.Session.BlockKey,
		CookieSecure: cfg.Session.CookieSecure,
		IdleTimeout:  cfg.Session.IdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("initialise sessions: %w", err)
	}
	if len(cfg.Session.HashKey) == 0 {
		logger.Warn("CONSOLE_SESSION_HASH_KEY not set; sessions reset on restart")
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:      cfg.Server.Addr,
		BasePath:     cfg.Server.AdminBasePath,
		Environment:  cfg.Server.Environment,
		CookieSecure: cfg.Session.CookieSecure,
		TrustProxy:   cfg.Server.TrustProxy,
		API:          client,
		Sessions:     sessions,
		Caches:       session.NewCacheRegistry(sessions.IdleTimeout()),
		Content:      content.NewLoader(client, cfg.Content.Dir, logger.Named("content")),
		Throttle:     forms.NewThrottle(cfg.Contact.RatePerMinute, cfg.Contact.Burst),
		Logger:       logger,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("initialise http server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("console listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("admin_base_path", cfg.Server.AdminBasePath),
			zap.String("api_root", client.BaseURL()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("console stopped")
		return nil
	})
	return group.Wait()
}
