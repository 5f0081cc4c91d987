package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rgbnode/refreshd/pkg/apperrors"
	"github.com/rgbnode/refreshd/pkg/config"
	"github.com/rgbnode/refreshd/pkg/jobhandler"
	"github.com/rgbnode/refreshd/pkg/nodeclient"
	"github.com/rgbnode/refreshd/pkg/orchestrator"
	"github.com/rgbnode/refreshd/pkg/pgutil"
	"github.com/rgbnode/refreshd/pkg/store"
	"github.com/rgbnode/refreshd/pkg/walletworker"
	"github.com/rgbnode/refreshd/pkg/watcher"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting wallet refresh orchestrator")

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	st := store.NewPGStore(db, cfg.Watcher.MaxRefreshRetries)

	client := nodeclient.New(cfg.NodeAPI.BaseURL, cfg.NodeAPI.Timeout, nodeclient.Config{
		MaxRetries:     cfg.Watcher.MaxRefreshRetries,
		RetryDelayBase: cfg.Watcher.RetryDelayBase,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.NodeAPI.Timeout)
	if err := client.HealthCheck(ctx); err != nil {
		logger.Warn("node health check failed at startup, continuing anyway", zap.Error(err))
	}
	cancel()

	handler := jobhandler.New(st, client, jobhandler.Config{
		WalletLockTTL:            cfg.Watcher.WalletLockTTL,
		WatcherTTL:               cfg.Watcher.WatcherTTL,
		InvoiceCreatedWatcherTTL: cfg.Watcher.InvoiceCreatedWatcherTTL,
		DurationRcvTransfer:      cfg.Watcher.DurationRcvTransfer,
	}, logger)

	transferWatcher := watcher.New(st, client, watcher.Config{
		WalletLockTTL:       cfg.Watcher.WalletLockTTL,
		DurationRcvTransfer: cfg.Watcher.DurationRcvTransfer,
	}, logger)

	factory := func(xpubVan string) orchestrator.Worker {
		return walletworker.New(xpubVan, st, handler, transferWatcher, walletworker.Config{
			PollInterval: cfg.Poll.WalletWorkerInterval,
			IdleTimeout:  cfg.Poll.WalletWorkerIdleTimeout,
		}, logger)
	}

	orch := orchestrator.New(st, factory, orchestrator.Config{
		PollInterval:      cfg.Poll.Interval,
		MaxWalletWorkers:  cfg.Poll.MaxWalletWorkers,
		ReapInterval:      cfg.Poll.ReapInterval,
		HeartbeatInterval: cfg.Poll.HeartbeatInterval,
		EnableRecovery:    cfg.Recovery.Enabled,
	}, logger)

	runCtx, runCancel := context.WithCancel(context.Background())
	if err := orch.Start(runCtx); err != nil {
		logger.Fatal("failed to start orchestrator", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/internal/refresh-jobs", handleEnqueue(orch, logger))

	server := &http.Server{
		Addr:         cfg.Monitoring.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("address", cfg.Monitoring.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, draining")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	shutdownCancel()

	runCancel()
	orch.Stop(cfg.Shutdown.Timeout)

	logger.Info("wallet refresh orchestrator stopped")
}

type enqueueRequest struct {
	XpubVan           string `json:"xpub_van" validate:"required"`
	XpubCol           string `json:"xpub_col"`
	MasterFingerprint string `json:"master_fingerprint"`
	Trigger           string `json:"trigger" validate:"required,oneof=sync asset_sent invoice_created manual"`
	RecipientID       string `json:"recipient_id,omitempty"`
	AssetID           string `json:"asset_id,omitempty"`
}

type enqueueResponse struct {
	JobID string `json:"job_id"`
}

var requestValidator = validator.New()

func handleEnqueue(orch *orchestrator.Orchestrator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enqueueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := requestValidator.Struct(req); err != nil {
			http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
			return
		}

		wallet := store.WalletID{
			XpubVan:           req.XpubVan,
			XpubCol:           req.XpubCol,
			MasterFingerprint: req.MasterFingerprint,
		}

		jobID, err := orch.Enqueue(r.Context(), wallet, store.Trigger(req.Trigger), req.RecipientID, req.AssetID)
		if err != nil {
			logger.Error("enqueue failed", zap.Error(err), zap.String("xpub_van", req.XpubVan))
			status := http.StatusInternalServerError
			var svcErr *apperrors.ServiceError
			if errors.As(err, &svcErr) {
				status = svcErr.StatusCode()
			}
			http.Error(w, "failed to enqueue job", status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(enqueueResponse{JobID: jobID})
	}
}
