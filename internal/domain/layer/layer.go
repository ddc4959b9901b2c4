package layer

import (
	"strconv"
	"strings"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/field"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/popup"
)

// Layer is one service-side layer of a collection.
type Layer struct {
	ID        int           `json:"id"`
	Name      string        `json:"name,omitempty"`
	Fields    []field.Field `json:"fields,omitempty"`
	PopupInfo *popup.Info   `json:"popupInfo,omitempty"`
}

// Collection is a published feature service item and its layers, in service order.
type Collection struct {
	ItemID string  `json:"item_id"`
	Title  string  `json:"title"`
	Type   string  `json:"type"`
	URL    string  `json:"url"`
	Layers []Layer `json:"layers"`
}

// LayerURL returns the REST URL of the layer at index i.
func (c Collection) LayerURL(i int) string {
	return strings.TrimRight(c.URL, "/") + "/" + strconv.Itoa(c.Layers[i].ID)
}

// Data is the bulk data payload of a collection item.
// An empty payload marks a hosted collection.
type Data struct {
	Layers []Layer `json:"layers,omitempty"`
}

// IsEmpty reports whether the payload carries no layer data.
func (d *Data) IsEmpty() bool {
	return d == nil || len(d.Layers) == 0
}

// ResolveIndex returns the index of the layer whose name contains layerName.
// The scan runs to the end and the last match wins, so "Roads" resolves to
// "RoadsDetail" when both are present.
func ResolveIndex(layers []Layer, layerName string) (int, error) {
	index := -1
	for i, l := range layers {
		if strings.Contains(l.Name, layerName) {
			index = i
		}
	}
	if index < 0 {
		return 0, domain.NewNotFound("layer", layerName)
	}
	return index, nil
}
