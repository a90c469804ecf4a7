package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"portfolio/internal/api"
	"portfolio/internal/auth"
	"portfolio/internal/content"
	"portfolio/internal/editor"
	"portfolio/internal/graphflow"
	"portfolio/internal/livecache"
	"portfolio/internal/notify"
	"portfolio/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the public site and the admin editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// newBus returns the Redis bus when REDIS_URL is set, else an in-process
// broker that only reaches caches in this process.
func newBus(ctx context.Context) (notify.Bus, func(), error) {
	if cfg.RedisURL == "" {
		logrus.Warn("REDIS_URL not set; change notifications stay in this process")
		return notify.NewBroker(), func() {}, nil
	}
	rdb, err := notify.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return notify.NewRedisBus(rdb), func() { _ = rdb.Close() }, nil
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := connect()
	if err != nil {
		return err
	}
	bus, closeBus, err := newBus(ctx)
	if err != nil {
		return err
	}
	defer closeBus()

	store, err := storage.NewMinioStore(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOSecure, cfg.MinIOBucket, cfg.MinIOPublicURL)
	if err != nil {
		return err
	}

	repo := content.NewRepository(gdb, bus)
	caches := livecache.NewSet(repo)
	defer caches.Close()
	if err := caches.Start(ctx, bus); err != nil {
		return err
	}
	caches.Warm()

	resync := livecache.NewResync(cfg.ResyncInterval, caches.All()...)
	if err := resync.Start(); err != nil {
		return err
	}
	defer resync.Stop()

	pages, err := graphflow.NewAssembler()
	if err != nil {
		return err
	}

	authSvc := auth.NewService(gdb, cfg.SessionTTL)
	drafts := editor.NewWorkspace(cfg.SessionTTL)
	housekeeping := cron.New()
	if _, err := housekeeping.AddFunc("@every 10m", func() {
		if _, err := authSvc.PurgeExpired(context.Background()); err != nil {
			logrus.WithError(err).Warn("purge sessions")
		}
		if n := drafts.Sweep(); n > 0 {
			logrus.WithField("count", n).Info("dropped idle draft workspaces")
		}
	}); err != nil {
		return err
	}
	housekeeping.Start()
	defer func() { <-housekeeping.Stop().Done() }()

	hub := api.NewHub()
	go hub.Run(ctx)
	caches.OnUpdate(hub.ContentUpdated)

	switch cfg.GinMode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	srv := &api.Server{
		Repo:          repo,
		Caches:        caches,
		Pages:         pages,
		Auth:          authSvc,
		Gate:          auth.NewGate(authSvc, auth.RoleAdmin, cfg.GateTimeout),
		Drafts:        drafts,
		Uploader:      editor.NewUploader(store, cfg.UploadMaxBytes),
		Hub:           hub,
		SecureCookies: strings.HasPrefix(cfg.BaseURL, "https://"),
		SessionTTL:    cfg.SessionTTL,
	}
	if err := srv.RegisterRoutes(r); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", cfg.Addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
