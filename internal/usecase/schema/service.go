package schema

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/field"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
)

// Resolver finds the service-side schema of a named layer.
type Resolver struct {
	source Source
	logger *zap.Logger
}

// New creates a schema resolver.
func New(source Source, logger *zap.Logger) *Resolver {
	return &Resolver{source: source, logger: logger}
}

// Resolve fetches the collection, locates layerName in it and returns the
// schema layer. An empty bulk data payload selects the hosted layer from the
// collection; otherwise the registered layer at the same index of the payload.
func (r *Resolver) Resolve(ctx context.Context, collectionName, itemType, layerName string) (layer.Schema, error) {
	col, err := r.source.FindCollection(ctx, collectionName, itemType)
	if err != nil {
		return layer.Schema{}, fmt.Errorf("find collection %q: %w", collectionName, err)
	}

	data, err := r.source.CollectionData(ctx, col.ItemID)
	if err != nil {
		return layer.Schema{}, fmt.Errorf("get collection data %q: %w", col.ItemID, err)
	}

	index, err := layer.ResolveIndex(col.Layers, layerName)
	if err != nil {
		return layer.Schema{}, fmt.Errorf("resolve layer index: %w", err)
	}
	r.logger.Debug("Resolved layer index",
		zap.String("layer", col.Layers[index].Name),
		zap.String("url", col.LayerURL(index)),
		zap.Int("index", index),
	)

	if data.IsEmpty() {
		return layer.HostedSchema(index, col.Layers[index]), nil
	}

	if index >= len(data.Layers) {
		return layer.Schema{}, fmt.Errorf("resolve registered layer: %w",
			domain.NewNotFound("data layer", fmt.Sprintf("%s[%d]", collectionName, index)))
	}

	target := data.Layers[index]
	if len(target.Fields) == 0 {
		target.Fields = unlabelled(col.Layers[index].Fields)
	}
	if target.Name == "" {
		target.Name = col.Layers[index].Name
	}
	return layer.RegisteredSchema(index, target), nil
}

// unlabelled strips aliases: registered fields are identified by name only.
func unlabelled(fields []field.Field) []field.Field {
	out := make([]field.Field, len(fields))
	for i, f := range fields {
		out[i] = field.Field{Name: f.Name, Type: f.Type}
	}
	return out
}
