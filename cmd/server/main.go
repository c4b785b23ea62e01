package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"paygate/internal/config"
	"paygate/internal/database"
	"paygate/internal/ratelimit"
	"paygate/internal/repo"
	"paygate/internal/server"
	"paygate/internal/service"
	"paygate/internal/gateway/geidea"
	"paygate/internal/gateway/skipcash"
	"paygate/internal/worker"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.NewPostgres()
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("schema migration failed", zap.Error(err))
	}

	paymentRepo := repo.NewPaymentRepo(db)
	svc := service.NewWebhookService(
		paymentRepo,
		skipcash.NewVerifier(cfg.SkipCashWebhookKey),
		geidea.NewVerifier(cfg.GeideaWebhookKey),
		cfg.VerifyAmounts,
		log,
	)

	var limiter ratelimit.Limiter
	if cfg.RateLimitStore == "postgres" {
		pg := ratelimit.NewPostgresLimiter(db, cfg.RateLimitPerMinute, time.Minute)
		go pg.RunJanitor(ctx, 5*time.Minute)
		limiter = pg
	} else {
		limiter = ratelimit.NewMemoryLimiter(float64(cfg.RateLimitPerMinute), cfg.RateLimitBurst)
	}

	if cfg.ReconcileEnabled {
		checker := skipcash.NewClient(cfg.SkipCashAPIBase, cfg.SkipCashAPIKey)
		rw := worker.NewReconciliationWorker(
			paymentRepo, svc, checker,
			cfg.ReconcileInterval, cfg.ReconcileMinAge, log,
		)
		go rw.Run(ctx)
	}

	handler := server.NewHandler(svc, database.New(db), cfg.GeideaSuccessURL, cfg.GeideaFailureURL, log)
	router := server.NewRouter(handler, limiter, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
