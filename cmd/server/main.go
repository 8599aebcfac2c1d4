package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	apphttp "github.com/amakane-hakari/recstore/internal/api/http"
	ilog "github.com/amakane-hakari/recstore/internal/log"
	"github.com/amakane-hakari/recstore/internal/metrics"
	"github.com/amakane-hakari/recstore/internal/record"
	"github.com/amakane-hakari/recstore/internal/store"
)

func main() {
	addr := getEnv("RECSTORE_HTTP_ADDR", ":8080")
	capacity := getEnvInt("RECSTORE_SHARD_CAPACITY", store.DefaultCapacity)
	seed := getEnvInt("RECSTORE_ID_SEED", 1)

	logger := ilog.New()
	prom := metrics.NewProm("recstore")

	st := store.NewSharded[*record.Record](
		store.WithCapacity[*record.Record](capacity),
		store.WithSeed[*record.Record](seed),
		store.WithLogger[*record.Record](logger),
		store.WithMetrics[*record.Record](prom),
		store.WithSortKey[*record.Record](record.SortKey),
	)

	router := apphttp.NewRouter(st, logger)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", "addr", addr, "capacity", capacity)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	apphttp.SetDraining(true)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	} else {
		logger.Info("server stopped")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
