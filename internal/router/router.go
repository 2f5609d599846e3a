package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	ledgermem "pass-breeding/internal/adapters/ledger/memory"
	mem "pass-breeding/internal/adapters/storage/memory"
	"pass-breeding/internal/domain/access"
	"pass-breeding/internal/domain/events"
	"pass-breeding/internal/domain/launchpad"
	"pass-breeding/internal/domain/passes"
	"pass-breeding/internal/middleware"
	"pass-breeding/internal/platform/logger"
	"pass-breeding/internal/ports/auth"
	"pass-breeding/internal/ports/ledger"
	"pass-breeding/internal/ports/randomness"

	_ "pass-breeding/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Storage agrupa los repos de un mismo backend.
type Storage struct {
	Passes   passes.Store
	Events   events.Repository
	Access   access.Repository
	Settings passes.SettingsRepository
}

// MemoryStorage arma un backend in-memory completo.
func MemoryStorage() Storage {
	store := mem.NewStore()
	return Storage{
		Passes:   store,
		Events:   store.Events(),
		Access:   mem.NewAccessRepo(),
		Settings: store,
	}
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger

	// Opcional: si no viene, in-memory.
	Storage *Storage

	Settings     passes.Settings
	AdminAccount string

	// Ledger nil usa un ledger in-memory con los saldos de LedgerSeed.
	Ledger        ledger.Ledger
	LedgerSeed    []ledgermem.Seed
	Random        randomness.Source
	ResolveRandom randomness.Resolver

	MaxPerPurchase int
	Clock          func() time.Time
}

// NewRouter arma servicios y rutas. Falla si el bootstrap de roles no se puede aplicar.
func NewRouter(ctx context.Context, opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	st := opts.Storage
	if st == nil {
		m := MemoryStorage()
		st = &m
	}
	led := opts.Ledger
	if led == nil {
		m := ledgermem.NewLedger()
		m.Fund(opts.LedgerSeed)
		led = m
		log.Info("using in-memory ledger", map[string]any{"seeded_balances": len(opts.LedgerSeed)})
	} else if len(opts.LedgerSeed) > 0 {
		log.Warn("ledger seed ignored with an external ledger", nil)
	}

	random := opts.Random
	if random == nil && opts.ResolveRandom != nil && strings.TrimSpace(opts.Settings.RandomService) != "" {
		src, err := opts.ResolveRandom(opts.Settings.RandomService)
		if err != nil {
			return nil, fmt.Errorf("resolve random service: %w", err)
		}
		random = src
	}

	// Services por módulo
	accessSvc := access.NewService(st.Access)
	admin := strings.TrimSpace(opts.AdminAccount)
	if admin != "" {
		if err := accessSvc.Bootstrap(ctx, admin); err != nil {
			return nil, fmt.Errorf("bootstrap roles: %w", err)
		}
	}

	passesSvc := passes.NewService(passes.Deps{
		Store:         st.Passes,
		Gate:          accessSvc,
		Ledger:        led,
		Settings:      st.Settings,
		Random:        random,
		ResolveRandom: opts.ResolveRandom,
		Logger:        log,
		Clock:         opts.Clock,
	}, opts.Settings)
	// Lo guardado gana; opts.Settings solo siembra un backend vacío.
	if err := passesSvc.LoadSettings(ctx); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if lp := strings.TrimSpace(passesSvc.Settings().LaunchpadAccount); lp != "" && admin != "" {
		if _, err := accessSvc.Grant(ctx, admin, access.RoleMinter, lp); err != nil {
			return nil, fmt.Errorf("grant launchpad minter: %w", err)
		}
	}
	eventsSvc := events.NewService(st.Events)
	launchpadSvc := launchpad.NewService(passesSvc, passesSvc.Settings().LaunchpadAccount, opts.MaxPerPurchase, log)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	passes.RegisterRoutes(r, passesSvc)
	events.RegisterRoutes(r, eventsSvc)
	launchpad.RegisterRoutes(r, launchpadSvc)

	r.Route("/admin", func(ar chi.Router) {
		access.RegisterAdminRoutes(ar, accessSvc)
		passes.RegisterAdminRoutes(ar, passesSvc)
	})

	return r, nil
}
