package popup

import (
	"context"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
)

// SchemaResolver resolves the service-side schema of a map layer.
type SchemaResolver interface {
	Resolve(ctx context.Context, collectionName, itemType, layerName string) (layer.Schema, error)
}
