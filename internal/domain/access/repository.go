package access

import "context"

type Repository interface {
	Create(ctx context.Context, g Grant) error
	Delete(ctx context.Context, role Role, account string) error
	Get(ctx context.Context, role Role, account string) (Grant, error)
	ListByRole(ctx context.Context, role Role) ([]Grant, error)

	// Pausa global del sistema.
	Paused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error
}
