package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/db"
	httpx "github.com/geocoder89/recipehub/internal/http"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/geocoder89/recipehub/internal/repo/memory"
	"github.com/geocoder89/recipehub/internal/repo/postgres"
	"github.com/geocoder89/recipehub/internal/security"
	"github.com/geocoder89/recipehub/internal/service"
	"github.com/geocoder89/recipehub/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTelEnabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "recipehub",
			Env:         cfg.Env,
			Endpoint:    cfg.OTelEndpoint,
			SampleRatio: cfg.OTelSampleRatio,
		})
		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			sctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	var (
		users    service.UserStore
		recipes  service.RecipeStore
		comments service.CommentStore
		ping     func(context.Context) error
	)

	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		users = memory.NewUsersRepo()
		recipes = memory.NewRecipesRepo()
		comments = memory.NewCommentsRepo()

	default:
		if cfg.MigrateOnStart {
			if err := db.Migrate(ctx, cfg.DBURL, log); err != nil {
				log.Error("migrations failed", "err", err)
				os.Exit(1)
			}
		}

		pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		users = postgres.NewUsersRepo(pool, prom)
		recipes = postgres.NewRecipesRepo(pool, prom)
		comments = postgres.NewCommentsRepo(pool, prom)
		ping = pool.Ping
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	log.Info("token service ready", "ttl", tokens.TTL().String())

	deps := httpx.Deps{
		Config:   cfg,
		Accounts: service.NewAccounts(users, security.NewHasher(cfg.BcryptCost), tokens),
		Recipes:  service.NewRecipes(recipes, users),
		Comments: service.NewComments(comments, users),
		Tokens:   tokens,
		Ping:     ping,
		Prom:     prom,
		Gatherer: reg,
	}

	// only set when configured so the handler sees a true nil
	if cfg.MinIO.Enabled() {
		images, err := storage.NewImages(ctx, cfg.MinIO)
		if err != nil {
			log.Error("object storage init failed", "err", err)
			os.Exit(1)
		}
		deps.Images = images
	} else {
		log.Info("MINIO_ENDPOINT not set, image uploads disabled")
	}

	// set up routers with the log
	router := httpx.NewRouter(log, deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return
	}

	log.Info("shutdown complete")
}
