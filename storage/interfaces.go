package storage

import (
	"context"

	"netflix-dashboard/models"
)

// TitleSource is the interface any title backend must satisfy.
type TitleSource interface {
	Load(ctx context.Context) (*models.LoadResult, error)
	Close() error
}
