// cmd/server/main.go

// HTTP 版本的 CASHIT：與終端機版本共用同一份快照與帳本規則。
// 啟動時載入快照（或預設帳戶），收到 SIGINT/SIGTERM 時停止接受請求並做最後一次寫回。

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"cashit/internal/bank"
	"cashit/internal/config"
	"cashit/internal/log"
	"cashit/internal/server"
	"cashit/internal/storage"
)

func main() {
	cfg, dotEnv, err := config.Load()
	if err != nil {
		log.NewZapLogger(log.Config{}).Fatal("failed to load configuration", "error", err)
	}
	zl := log.NewZapLogger(cfg.Log)
	defer zl.Sync()
	logger := zl.WithName("cashit")
	if dotEnv {
		logger.Info("loaded .env file")
	}

	backend, err := storage.Open(string(cfg.Storage.Driver), cfg.Storage.Location())
	if err != nil {
		logger.Fatal("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
	}

	store := bank.NewStore(backend, logger)
	switch store.Load() {
	case bank.SeededFresh:
		logger.Info("first run, starting with default accounts")
	case bank.SeededAfterCorruption:
		logger.Warn("saved data corrupted or invalid, starting with default accounts")
	}
	ledger := bank.NewLedger(store, logger)
	session := bank.NewSession(store, bank.PlainPIN{}, logger)
	admin := bank.NewAdmin(store, ledger, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv := server.NewServer(store, ledger, session, admin, registry, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("CASHIT server running", "addr", cfg.HTTP.Addr, "storage", cfg.Storage.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("final save failed", "error", err)
		zl.Sync()
		os.Exit(1)
	}
}
