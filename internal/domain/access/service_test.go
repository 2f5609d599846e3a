package access

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	grants map[Role]map[string]Grant
	paused bool
}

func newTestRepo() *testRepo {
	return &testRepo{grants: map[Role]map[string]Grant{}}
}

func (r *testRepo) Create(ctx context.Context, g Grant) error {
	if r.grants[g.Role] == nil {
		r.grants[g.Role] = map[string]Grant{}
	}
	if _, ok := r.grants[g.Role][g.Account]; ok {
		return errors.New("repo: already exists")
	}
	r.grants[g.Role][g.Account] = g
	return nil
}

func (r *testRepo) Delete(ctx context.Context, role Role, account string) error {
	if _, ok := r.grants[role][account]; !ok {
		return ErrNotFound
	}
	delete(r.grants[role], account)
	return nil
}

func (r *testRepo) Get(ctx context.Context, role Role, account string) (Grant, error) {
	g, ok := r.grants[role][account]
	if !ok {
		return Grant{}, ErrNotFound
	}
	return g, nil
}

func (r *testRepo) ListByRole(ctx context.Context, role Role) ([]Grant, error) {
	out := make([]Grant, 0)
	for _, g := range r.grants[role] {
		out = append(out, g)
	}
	return out, nil
}

func (r *testRepo) Paused(ctx context.Context) (bool, error) { return r.paused, nil }

func (r *testRepo) SetPaused(ctx context.Context, paused bool) error {
	r.paused = paused
	return nil
}

// -------------------------
// Tests
// -------------------------

func newBootstrapped(t *testing.T) *Service {
	t.Helper()
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := svc.Bootstrap(context.Background(), "admin"); err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	return svc
}

func TestBootstrap_GrantsAdminAndMinter(t *testing.T) {
	svc := newBootstrapped(t)
	ctx := context.Background()

	if err := svc.RequireRole(ctx, "admin", RoleAdmin); err != nil {
		t.Fatalf("expected admin role: %v", err)
	}
	if err := svc.RequireRole(ctx, "admin", RoleMinter); err != nil {
		t.Fatalf("expected minter role: %v", err)
	}
	// Idempotente
	if err := svc.Bootstrap(ctx, "admin"); err != nil {
		t.Fatalf("second Bootstrap error: %v", err)
	}
}

func TestRequireRole_MessageNamesAccountAndRole(t *testing.T) {
	svc := newBootstrapped(t)

	err := svc.RequireRole(context.Background(), "Minter-1", RoleAdmin)
	if !errors.Is(err, ErrMissingRole) {
		t.Fatalf("expected ErrMissingRole, got %v", err)
	}
	want := "AccessControl: account minter-1 is missing role DEFAULT_ADMIN_ROLE"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestGrantRevoke_RequireAdmin(t *testing.T) {
	svc := newBootstrapped(t)
	ctx := context.Background()

	if _, err := svc.Grant(ctx, "bob", RoleMinter, "carol"); !errors.Is(err, ErrMissingRole) {
		t.Fatalf("expected ErrMissingRole for non-admin grant, got %v", err)
	}

	g, err := svc.Grant(ctx, "admin", RoleMinter, "launchpad")
	if err != nil {
		t.Fatalf("Grant error: %v", err)
	}
	if g.GrantedBy != "admin" || g.Role != RoleMinter {
		t.Fatalf("unexpected grant: %+v", g)
	}
	if ok, _ := svc.HasRole(ctx, "launchpad", RoleMinter); !ok {
		t.Fatalf("expected launchpad to be minter")
	}

	if err := svc.Revoke(ctx, "admin", RoleMinter, "launchpad"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if ok, _ := svc.HasRole(ctx, "launchpad", RoleMinter); ok {
		t.Fatalf("expected minter role revoked")
	}
	// Idempotente
	if err := svc.Revoke(ctx, "admin", RoleMinter, "launchpad"); err != nil {
		t.Fatalf("second Revoke error: %v", err)
	}
}

func TestGrant_RejectsUnknownRole(t *testing.T) {
	svc := newBootstrapped(t)
	if _, err := svc.Grant(context.Background(), "admin", Role("OWNER"), "bob"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestRevoke_AdminCannotRevokeItself(t *testing.T) {
	svc := newBootstrapped(t)
	if err := svc.Revoke(context.Background(), "admin", RoleAdmin, "admin"); !errors.Is(err, ErrSelfRevoke) {
		t.Fatalf("expected ErrSelfRevoke, got %v", err)
	}
}

func TestPauseUnpause(t *testing.T) {
	svc := newBootstrapped(t)
	ctx := context.Background()

	if err := svc.Pause(ctx, "bob"); !errors.Is(err, ErrMissingRole) {
		t.Fatalf("expected ErrMissingRole, got %v", err)
	}
	if err := svc.Unpause(ctx, "admin"); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("expected ErrNotPaused, got %v", err)
	}

	if err := svc.Pause(ctx, "admin"); err != nil {
		t.Fatalf("Pause error: %v", err)
	}
	if err := svc.RequireNotPaused(ctx); !errors.Is(err, ErrPaused) {
		t.Fatalf("expected ErrPaused, got %v", err)
	}
	if err := svc.Pause(ctx, "admin"); !errors.Is(err, ErrPaused) {
		t.Fatalf("expected second Pause to fail with ErrPaused, got %v", err)
	}

	if err := svc.Unpause(ctx, "admin"); err != nil {
		t.Fatalf("Unpause error: %v", err)
	}
	if err := svc.RequireNotPaused(ctx); err != nil {
		t.Fatalf("expected not paused, got %v", err)
	}
}
