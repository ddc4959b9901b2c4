package webmap

import (
	"context"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/item"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
	domwebmap "github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/webmap"
	popupuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/popup"
)

// Portal defines the portal content operations of the workflow.
type Portal interface {
	FindCollection(ctx context.Context, name, itemType string) (layer.Collection, error)
	CollectionData(ctx context.Context, itemID string) (*layer.Data, error)
	UpdateItem(ctx context.Context, itemID string, props item.Properties) error
	ProtectItem(ctx context.Context, itemID string) error
	ShareWithOrg(ctx context.Context, itemID string) error
	SaveWebMap(ctx context.Context, doc *domwebmap.Document, props item.Properties) (string, error)
}

// PopupSynthesizer builds popups for a list of map layers.
type PopupSynthesizer interface {
	SynthesizeAll(
		ctx context.Context,
		doc *domwebmap.Document,
		collectionName, itemType string,
		layerNames []string,
	) ([]popupuc.Result, error)
}
