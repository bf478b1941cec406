package ports

import (
	"context"

	"rvolution-bridge/internal/domain/model"
)

type ConfigRepository interface {
	Get(ctx context.Context) (*model.Config, error)
	Save(ctx context.Context, config *model.Config) error
}
