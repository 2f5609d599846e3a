package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pass-breeding/internal/domain/events"
	"pass-breeding/internal/domain/passes"
)

// Store guarda passes, ownership, aprobaciones y eventos bajo un mismo lock,
// así un Changeset se aplica completo o no se aplica.
type Store struct {
	mu sync.RWMutex

	passes    map[passes.PassID]passes.Pass
	owners    map[passes.PassID]string
	approvals map[passes.PassID]string

	// events en orden de inserción; eventIdx indexa por ID.
	events   []events.PassEvent
	eventIdx map[string]int

	settings []byte
}

func NewStore() *Store {
	return &Store{
		passes:    make(map[passes.PassID]passes.Pass),
		owners:    make(map[passes.PassID]string),
		approvals: make(map[passes.PassID]string),
		eventIdx:  make(map[string]int),
	}
}

var (
	_ passes.Store              = (*Store)(nil)
	_ passes.SettingsRepository = (*Store)(nil)
)

func (s *Store) LoadSettings(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, passes.ErrNoSettings
	}
	return append([]byte(nil), s.settings...), nil
}

func (s *Store) SaveSettings(ctx context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = append([]byte(nil), doc...)
	return nil
}

func (s *Store) GetByID(ctx context.Context, id passes.PassID) (passes.Pass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.passes[id]
	if !ok {
		return passes.Pass{}, passes.ErrNotFound
	}
	return p, nil
}

func (s *Store) Count(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.passes)), nil
}

func (s *Store) CountByChannel(ctx context.Context, ch passes.Channel) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n uint64
	for _, p := range s.passes {
		if p.Channel == ch {
			n++
		}
	}
	return n, nil
}

func (s *Store) SiringApproval(ctx context.Context, sireID passes.PassID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.approvals[sireID], nil
}

func (s *Store) OwnerOf(ctx context.Context, id passes.PassID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.owners[id]
	if !ok {
		return "", passes.ErrNotFound
	}
	return owner, nil
}

func (s *Store) TokensOf(ctx context.Context, owner string) ([]passes.PassID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner = strings.TrimSpace(owner)
	out := make([]passes.PassID, 0)
	for id, o := range s.owners {
		if o == owner {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Apply valida el changeset entero antes de tocar nada.
func (s *Store) Apply(ctx context.Context, cs passes.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate(cs); err != nil {
		return err
	}

	for _, m := range cs.Minted {
		s.passes[m.Pass.ID] = m.Pass
		s.owners[m.Pass.ID] = m.Owner
	}
	for _, p := range cs.Updated {
		s.passes[p.ID] = p
	}
	for _, t := range cs.Transfers {
		s.owners[t.ID] = t.To
	}
	for _, a := range cs.Approvals {
		if a.Grantee == "" {
			delete(s.approvals, a.SireID)
			continue
		}
		s.approvals[a.SireID] = a.Grantee
	}
	for _, e := range cs.Events {
		s.eventIdx[e.ID] = len(s.events)
		s.events = append(s.events, e)
	}
	return nil
}

func (s *Store) validate(cs passes.Changeset) error {
	minted := make(map[passes.PassID]bool, len(cs.Minted))
	for _, m := range cs.Minted {
		if m.Pass.ID == 0 {
			return errors.New("pass id required")
		}
		if _, exists := s.passes[m.Pass.ID]; exists || minted[m.Pass.ID] {
			return fmt.Errorf("pass %d already exists", m.Pass.ID)
		}
		if strings.TrimSpace(m.Owner) == "" {
			return fmt.Errorf("pass %d: owner required", m.Pass.ID)
		}
		minted[m.Pass.ID] = true
	}
	for _, p := range cs.Updated {
		if _, exists := s.passes[p.ID]; !exists && !minted[p.ID] {
			return passes.ErrNotFound
		}
	}
	for _, t := range cs.Transfers {
		if s.owners[t.ID] != t.From {
			return fmt.Errorf("pass %d: owner changed", t.ID)
		}
	}
	seen := make(map[string]bool, len(cs.Events))
	for _, e := range cs.Events {
		if e.ID == "" {
			return errors.New("event id required")
		}
		if _, exists := s.eventIdx[e.ID]; exists || seen[e.ID] {
			return errors.New("event already exists")
		}
		seen[e.ID] = true
	}
	return nil
}

// Events expone el log sobre el mismo almacenamiento.
func (s *Store) Events() events.Repository {
	return eventRepo{s: s}
}
