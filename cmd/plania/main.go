package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"plania-client/internal/api"
	"plania-client/internal/auth"
	"plania-client/internal/common/config"
	"plania-client/internal/common/logger"
	"plania-client/internal/onboarding"
	"plania-client/internal/router"
	"plania-client/internal/session"
	"plania-client/internal/tui"
	"plania-client/internal/wizard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load failed:", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting plania client",
		zap.String("api", cfg.API.BaseURL),
		zap.String("storage", cfg.Storage.Backend),
	)

	ctx := context.Background()

	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		zapLog.Fatal("session storage unavailable", zap.Error(err))
	}
	defer closeKV()

	store := session.NewStore(kv, log)
	client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.RequestTimeout)*time.Millisecond, log)

	controller := auth.NewController(client, store, log)
	snapshot := controller.Restore(ctx)

	nav := router.New()
	nav.SetAuthenticated(snapshot.Session.IsAuthenticated)

	// Keep the navigator's root in lockstep with the session.
	controller.Subscribe(func(s auth.Snapshot) {
		nav.SetAuthenticated(s.Session.IsAuthenticated)
	})

	if cfg.App.MetricsAddress != "" {
		go serveMetrics(cfg.App.MetricsAddress, zapLog)
	}

	deps := tui.Deps{
		Ctx:        ctx,
		Log:        log,
		API:        client,
		Store:      store,
		Auth:       controller,
		Onboarding: onboarding.NewFlow(store, log, nil),
		Nav:        nav,
		Config:     wizard.NewBusinessConfigStep(client, log),
	}

	if err := tui.Run(deps); err != nil {
		zapLog.Error("ui exited with error", zap.Error(err))
		os.Exit(1)
	}
}

// openKV selects the session backend from config: a local JSON file by
// default, redis when configured.
func openKV(ctx context.Context, cfg *config.Config) (session.KV, func(), error) {
	if cfg.Storage.Backend == "redis" {
		kv := session.NewRedisKV(cfg.Storage.Redis)
		if err := kv.Ping(ctx); err != nil {
			return nil, nil, err
		}
		return kv, func() { kv.Close() }, nil
	}
	return session.NewFileKV(cfg.Storage.File.Path), func() {}, nil
}

func serveMetrics(address string, zapLog *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	zapLog.Info("metrics listening", zap.String("address", address))
	if err := http.ListenAndServe(address, mux); err != nil {
		zapLog.Warn("metrics server stopped", zap.Error(err))
	}
}
