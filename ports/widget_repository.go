package ports

import (
	"context"

	"tilemetry/domain/core"
	"tilemetry/domain/widget"
)

// WidgetRepository persists widget configurations produced by the host's
// configuration step. Derived records are never persisted.
type WidgetRepository interface {
	Create(ctx context.Context, cfg *widget.Config) error
	GetByID(ctx context.Context, id core.WidgetID) (*widget.Config, error)
	List(ctx context.Context) ([]*widget.Config, error)
	Update(ctx context.Context, cfg *widget.Config) error
	Delete(ctx context.Context, id core.WidgetID) error
}
