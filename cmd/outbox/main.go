package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"renthaven/internal/config"
	"renthaven/internal/database"
	"renthaven/internal/outbox"
	"renthaven/internal/repository"
)

type workerConfig struct {
	MetricsAddr      string        `envconfig:"METRICS_ADDR" default:":9091"`
	DispatchInterval time.Duration `envconfig:"DISPATCH_INTERVAL" default:"1s"`
	SweepInterval    time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	SweepMaxAge      time.Duration `envconfig:"SWEEP_MAX_AGE" default:"10m"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	var wc workerConfig
	if err := envconfig.Process("", &wc); err != nil {
		log.Fatal(err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	publisher, err := outbox.NewPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		log.Fatal(err)
	}
	defer publisher.Close()

	dispatcher := outbox.NewDispatcher(pool, publisher, wc.DispatchInterval, log.Printf)
	reconciler := outbox.NewReconciler(repository.NewPaymentRepository(db), wc.SweepInterval, wc.SweepMaxAge, log.Printf)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("level=error msg=dispatcher stopped err=%v", err)
			cancel()
		}
	}()
	go func() {
		if err := reconciler.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("level=error msg=reconciler stopped err=%v", err)
			cancel()
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: wc.MetricsAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("level=error msg=metrics server stopped err=%v", err)
		}
	}()

	log.Printf("level=info msg=outbox worker started metrics_addr=%s dispatch_interval=%s", wc.MetricsAddr, wc.DispatchInterval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
