// Package passes implementa la máquina de estados de cría y el control de supply
// sobre el registro de passes.
package passes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pass-breeding/internal/domain/access"
	"pass-breeding/internal/domain/genetics"
	"pass-breeding/internal/platform/apperr"
	"pass-breeding/internal/platform/logger"
	"pass-breeding/internal/ports/ledger"
	"pass-breeding/internal/ports/randomness"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "pass-breeding/internal/domain/passes"

// Gate es el control de roles y pausa (lo implementa access.Service).
type Gate interface {
	RequireRole(ctx context.Context, account string, role access.Role) error
	RequireNotPaused(ctx context.Context) error
}

type Deps struct {
	Store  Store
	Gate   Gate
	Ledger ledger.Ledger

	// Settings es opcional: sin repo los cambios admin viven solo en memoria.
	Settings SettingsRepository

	// Random es la fuente actual; ResolveRandom se usa al cambiar RandomService.
	Random        randomness.Source
	ResolveRandom randomness.Resolver

	Logger logger.Logger

	// Clock por defecto time.Now.
	Clock func() time.Time
}

// Service serializa toda operación con un mutex: cada operación confirma su
// changeset completo o no cambia nada.
type Service struct {
	mu sync.Mutex

	store         Store
	gate          Gate
	ledger        ledger.Ledger
	random        randomness.Source
	resolveRandom randomness.Resolver

	settings     Settings
	settingsRepo SettingsRepository
	mixer        genetics.Mixer

	log    logger.Logger
	tracer trace.Tracer
	now    func() time.Time
}

func NewService(deps Deps, settings Settings) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:         deps.Store,
		gate:          deps.Gate,
		ledger:        deps.Ledger,
		random:        deps.Random,
		resolveRandom: deps.ResolveRandom,
		settings:      settings.withDefaults().clone(),
		settingsRepo:  deps.Settings,
		mixer:         genetics.DefaultMixer(),
		log:           log.With(map[string]any{"component": "passes"}),
		tracer:        otel.Tracer(tracerName),
		now:           now,
	}
}

// Supply resume los contadores de supply.
type Supply struct {
	Total     uint64
	Genesis   uint64
	Launchpad uint64
	Births    uint64

	GenesisCap         uint64
	LaunchpadMaxSupply uint64
}

func (s *Service) Get(ctx context.Context, id PassID) (Pass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, id)
}

// State deriva el estado de cría actual del pass.
func (s *Service) State(ctx context.Context, id PassID) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	return StateOf(p, s.now(), s.settings.Schedule.MaxBreedTimes()), nil
}

// IsReadyToBreed falla con id 0; true solo si el pass está Available.
func (s *Service) IsReadyToBreed(ctx context.Context, id PassID) (bool, error) {
	st, err := s.State(ctx, id)
	if err != nil {
		return false, err
	}
	return st == StateAvailable, nil
}

func (s *Service) OwnerOf(ctx context.Context, id PassID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerOf(ctx, id)
}

// TokensOf lista los passes de una cuenta en orden de id.
func (s *Service) TokensOf(ctx context.Context, owner string) ([]Pass, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrZeroAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.store.TokensOf(ctx, owner)
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}
	out := make([]Pass, 0, len(ids))
	for _, id := range ids {
		p, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) SiringApproval(ctx context.Context, sireID PassID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, sireID); err != nil {
		return "", err
	}
	grantee, err := s.store.SiringApproval(ctx, sireID)
	if err != nil {
		return "", ErrStorage.Wrap(err)
	}
	return grantee, nil
}

func (s *Service) Supply(ctx context.Context) (Supply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := s.store.Count(ctx)
	if err != nil {
		return Supply{}, ErrStorage.Wrap(err)
	}
	out := Supply{
		Total:              total,
		GenesisCap:         s.settings.GenesisCap,
		LaunchpadMaxSupply: s.settings.LaunchpadMaxSupply,
	}
	for ch, dst := range map[Channel]*uint64{
		ChannelGenesis:   &out.Genesis,
		ChannelLaunchpad: &out.Launchpad,
		ChannelBirth:     &out.Births,
	} {
		n, err := s.store.CountByChannel(ctx, ch)
		if err != nil {
			return Supply{}, ErrStorage.Wrap(err)
		}
		*dst = n
	}
	return out, nil
}

// Settings devuelve una copia de la configuración vigente.
func (s *Service) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.clone()
}

func (s *Service) load(ctx context.Context, id PassID) (Pass, error) {
	if id == 0 {
		return Pass{}, ErrInvalidID
	}
	p, err := s.store.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Pass{}, ErrPassNotFound.WithMessage("Pass %d does not exist", id)
	}
	if err != nil {
		return Pass{}, ErrStorage.Wrap(err)
	}
	return p, nil
}

func (s *Service) ownerOf(ctx context.Context, id PassID) (string, error) {
	if id == 0 {
		return "", ErrInvalidID
	}
	owner, err := s.store.OwnerOf(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return "", ErrPassNotFound.WithMessage("Pass %d does not exist", id)
	}
	if err != nil {
		return "", ErrStorage.Wrap(err)
	}
	return owner, nil
}

func (s *Service) nextID(ctx context.Context) (PassID, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, ErrStorage.Wrap(err)
	}
	return PassID(n + 1), nil
}

func (s *Service) commit(ctx context.Context, cs Changeset) error {
	if err := s.store.Apply(ctx, cs); err != nil {
		return ErrStorage.Wrap(err)
	}
	return nil
}

func (s *Service) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "passes."+op, trace.WithAttributes(attrs...))
}

// finish cierra el span y loguea el rechazo (debug) si hubo error.
func (s *Service) finish(span trace.Span, op string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		fields := map[string]any{"op": op, "err": err.Error()}
		if ae, ok := apperr.As(err); ok {
			fields["code"] = string(ae.Code)
		}
		if errors.Is(err, ErrStorage) {
			s.log.Error("operation failed", fields)
		} else {
			s.log.Debug("operation rejected", fields)
		}
	}
	span.End()
}

func passAttr(key string, id PassID) attribute.KeyValue {
	return attribute.Int64(key, int64(id))
}
