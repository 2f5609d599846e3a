package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authremote "pass-breeding/internal/adapters/auth/remote"
	ledgermem "pass-breeding/internal/adapters/ledger/memory"
	ledgerremote "pass-breeding/internal/adapters/ledger/remote"
	"pass-breeding/internal/adapters/randomness"
	pg "pass-breeding/internal/adapters/storage/postgres"
	"pass-breeding/internal/adapters/storage/sqlite"
	"pass-breeding/internal/domain/passes"
	"pass-breeding/internal/platform/config"
	"pass-breeding/internal/platform/httpclient"
	"pass-breeding/internal/platform/logger"
	"pass-breeding/internal/platform/otel"
	"pass-breeding/internal/ports/auth"
	"pass-breeding/internal/ports/ledger"
	"pass-breeding/internal/router"
)

func main() {
	cfg, err := config.ParseEnv()
	if err != nil {
		logger.New(logger.Options{}).Error("config error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, cfg.AppName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}
	led, err := newLedger(cfg)
	if err != nil {
		return err
	}
	seeds, err := ledgermem.ParseSeeds(cfg.LedgerSeed)
	if err != nil {
		return err
	}

	resolve := randomness.NewResolver(httpclient.Config{
		APIKey:  cfg.RandomServiceAPIKey,
		Timeout: cfg.UpstreamTimeout,
	})

	h, err := router.NewRouter(ctx, router.Options{
		AuthVerifier:  verifier,
		Logger:        log,
		Storage:       storage,
		Settings:      settingsFromConfig(cfg),
		AdminAccount:  cfg.AdminAccount,
		Ledger:        led,
		LedgerSeed:    seeds,
		ResolveRandom: resolve,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "storage": cfg.StorageDriver})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func settingsFromConfig(cfg config.Config) passes.Settings {
	s := passes.DefaultSettings()
	s.Treasury = cfg.TreasuryAccount
	s.RandomService = cfg.RandomService
	s.FeeTokenA = cfg.FeeTokenA
	s.FeeTokenB = cfg.FeeTokenB
	s.BaseURI = cfg.BaseURI
	s.LaunchpadAccount = cfg.LaunchpadAccount
	s.LaunchpadMaxSupply = cfg.LaunchpadMax
	s.GenesisCap = cfg.GenesisCap
	return s
}

func openStorage(ctx context.Context, cfg config.Config) (*router.Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return &router.Storage{
			Passes:   pg.NewPassesRepo(db),
			Events:   pg.NewEventsRepo(db),
			Access:   pg.NewAccessRepo(db),
			Settings: pg.NewSettingsRepo(db),
		}, closer(db), nil

	case config.StorageSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return &router.Storage{
			Passes:   st.Passes(),
			Events:   st.Events(),
			Access:   st.Access(),
			Settings: st.Settings(),
		}, func() { _ = st.Close() }, nil
	}

	m := router.MemoryStorage()
	return &m, func() {}, nil
}

func closer(db *sql.DB) func() {
	return func() { _ = db.Close() }
}

// newVerifier devuelve nil (modo dev con X-Debug-User-ID) si no hay AUTH_BASE_URL.
func newVerifier(cfg config.Config) (auth.AuthVerifier, error) {
	if cfg.AuthBaseURL == "" {
		return nil, nil
	}
	c, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.AuthBaseURL,
		APIKey:  cfg.AuthAPIKey,
		Timeout: cfg.UpstreamTimeout,
	})
	if err != nil {
		return nil, err
	}
	return authremote.NewVerifier(c), nil
}

// newLedger devuelve nil (ledger in-memory) si no hay LEDGER_URL.
func newLedger(cfg config.Config) (ledger.Ledger, error) {
	if cfg.LedgerURL == "" {
		return nil, nil
	}
	c, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.LedgerURL,
		APIKey:  cfg.LedgerAPIKey,
		Timeout: cfg.UpstreamTimeout,
	})
	if err != nil {
		return nil, err
	}
	return ledgerremote.NewLedger(c), nil
}
