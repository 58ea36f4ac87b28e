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

	"go.uber.org/zap"

	"github.com/mamadbah2/coopcontrol/internal/config"
	"github.com/mamadbah2/coopcontrol/internal/repository/memory"
	"github.com/mamadbah2/coopcontrol/internal/repository/mongodb"
	"github.com/mamadbah2/coopcontrol/internal/repository/sheets"
	"github.com/mamadbah2/coopcontrol/internal/repository/sqlite"
	"github.com/mamadbah2/coopcontrol/internal/scheduler"
	"github.com/mamadbah2/coopcontrol/internal/server/handlers"
	"github.com/mamadbah2/coopcontrol/internal/server/router"
	dashboardsvc "github.com/mamadbah2/coopcontrol/internal/service/dashboard"
	"github.com/mamadbah2/coopcontrol/internal/service/metrics"
	reportingsvc "github.com/mamadbah2/coopcontrol/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/coopcontrol/pkg/clients/whatsapp"
	"github.com/mamadbah2/coopcontrol/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	store, closeStore, err := openLedgerStore(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("ledger store unavailable", zap.String("backend", cfg.Ledger.Backend), zap.Error(err))
	}
	defer closeStore()

	dashboardSvc := dashboardsvc.NewService(store, baseLogger.Named("svc.dashboard"))
	reportingSvc := reportingsvc.NewService(dashboardSvc, loc, baseLogger.Named("svc.reporting"))

	settings := metrics.Settings{MarketPrice: cfg.Dashboard.MarketPrice, OurPrice: cfg.Dashboard.OurPrice}
	ledgerHandler := handlers.NewLedgerHandler(dashboardSvc, settings, loc, baseLogger.Named("handlers.ledger"))
	engine := router.New(ledgerHandler, baseLogger.Named("router"))

	var snapshots scheduler.SnapshotStore
	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		snapshots = mongoRepo
	} else {
		baseLogger.Info("mongodb not configured, snapshots disabled")
	}

	var messenger scheduler.Messenger
	if cfg.WhatsApp.Enabled() {
		messenger = whatsappclient.NewClient(cfg.WhatsApp)
	} else {
		baseLogger.Info("whatsapp not configured, weekly digest disabled")
	}

	sched := scheduler.NewScheduler(scheduler.Jobs{
		SnapshotSchedule: cfg.Reporting.SnapshotSchedule,
		DigestSchedule:   cfg.Reporting.DigestSchedule,
		DigestRecipient:  cfg.WhatsApp.RecipientID,
		Location:         loc,
	}, reportingSvc, snapshots, messenger, baseLogger.Named("scheduler"))
	if _, err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("ledger_backend", cfg.Ledger.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openLedgerStore connects the configured backend. The returned func releases it.
func openLedgerStore(cfg *config.Config, baseLogger *zap.Logger) (dashboardsvc.LedgerStore, func(), error) {
	switch cfg.Ledger.Backend {
	case config.BackendSheets:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case config.BackendSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLite.Path, baseLogger.Named("repo.sqlite"))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				baseLogger.Error("failed to close ledger database", zap.Error(err))
			}
		}, nil
	case config.BackendMemory:
		baseLogger.Warn("using in-memory ledgers, data is lost on restart")
		return memory.NewRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}
