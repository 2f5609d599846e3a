package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pass-breeding/internal/domain/access"
)

type accessRepo struct {
	mu     sync.RWMutex
	grants map[access.Role]map[string]access.Grant
	paused bool
}

func NewAccessRepo() access.Repository {
	return &accessRepo{
		grants: make(map[access.Role]map[string]access.Grant),
	}
}

func (r *accessRepo) Create(ctx context.Context, g access.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if r.grants[g.Role] == nil {
		r.grants[g.Role] = make(map[string]access.Grant)
	}
	if _, exists := r.grants[g.Role][g.Account]; exists {
		return errors.New("grant already exists")
	}
	r.grants[g.Role][g.Account] = g
	return nil
}

func (r *accessRepo) Delete(ctx context.Context, role access.Role, account string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.grants[role][account]; !ok {
		return access.ErrNotFound
	}
	delete(r.grants[role], account)
	return nil
}

func (r *accessRepo) Get(ctx context.Context, role access.Role, account string) (access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.grants[role][account]
	if !ok {
		return access.Grant{}, access.ErrNotFound
	}
	return g, nil
}

func (r *accessRepo) ListByRole(ctx context.Context, role access.Role) ([]access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]access.Grant, 0, len(r.grants[role]))
	for _, g := range r.grants[role] {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *accessRepo) Paused(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.paused, nil
}

func (r *accessRepo) SetPaused(ctx context.Context, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = paused
	return nil
}
