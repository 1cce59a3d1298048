package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solcade/treasury/internal/account"
	"github.com/solcade/treasury/internal/bootstrap"
	"github.com/solcade/treasury/internal/chain"
	"github.com/solcade/treasury/internal/config"
	"github.com/solcade/treasury/internal/custody"
	"github.com/solcade/treasury/internal/database"
	"github.com/solcade/treasury/internal/handler"
	"github.com/solcade/treasury/internal/ledger"
	"github.com/solcade/treasury/internal/reconcile"
	"github.com/solcade/treasury/internal/scheduler"
	"github.com/solcade/treasury/internal/server"
	"github.com/solcade/treasury/internal/treasury"
	"github.com/solcade/treasury/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer logFile.Close()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), config.DefaultMaxConnections, 30*time.Minute, time.Hour)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := bootstrap.InitializeRepositories(dbPool)

	chainCfg := chain.Config{
		RPCURL:          cfg.ChainRPCURL,
		Cluster:         cfg.ChainCluster,
		GameMint:        cfg.GameMint,
		ExternalMint:    cfg.ExternalMint,
		OperatorKeyPath: cfg.OperatorKeyPath,
		CustodialWallet: cfg.CustodialWallet,
		ReserveWallet:   cfg.ReserveWallet,
		Timeout:         cfg.ChainTimeout,
	}
	adapter := chain.NewMemory(chainCfg)
	slog.Warn("Using in-memory chain adapter", "cluster", cfg.ChainCluster)

	accountService := account.NewService(repos.Account, adapter)
	ledgerService := ledger.NewService(repos.Ledger)
	reconcileService := reconcile.NewService(repos.Account, adapter)
	treasuryService := treasury.NewService(accountService, ledgerService, repos.Reward, adapter, chainCfg, cfg.WithdrawScaleFactor, reconcileService)
	custodyService := custody.NewService(repos.Item, adapter)

	handler.InitValidator()

	workerPool := worker.NewPool(2, 10)
	workerPool.Start()

	sched := scheduler.New(workerPool)
	sched.Schedule(cfg.SyncInterval, reconcile.NewJob(reconcileService))
	slog.Info("Reconciliation scheduled", "interval", cfg.SyncInterval)

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.GameMint, nil, dbPool, treasuryService, custodyService, reconcileService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:     srv,
		Scheduler:  sched,
		WorkerPool: workerPool,
	})
}
