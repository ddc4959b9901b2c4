package schema

import (
	"context"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
)

// Source is the portal content contract needed to resolve layer schemas.
type Source interface {
	FindCollection(ctx context.Context, name, itemType string) (layer.Collection, error)
	CollectionData(ctx context.Context, itemID string) (*layer.Data, error)
}
