package webmap

import (
	"fmt"
	"strings"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/popup"
)

// Web map definition defaults.
const (
	SpecVersion      = "2.29"
	AuthoringApp     = "webmapper"
	FeatureLayerType = "ArcGISFeatureLayer"
	WebMercatorWKID  = 102100
	defaultBasemapID = "defaultBasemap"
	defaultBasemap   = "https://services.arcgisonline.com/ArcGIS/rest/services/World_Topo_Map/MapServer"
)

// Document is a web map definition.
type Document struct {
	OperationalLayers []OperationalLayer `json:"operationalLayers"`
	BaseMap           BaseMap            `json:"baseMap"`
	SpatialReference  SpatialReference   `json:"spatialReference"`
	Version           string             `json:"version"`
	AuthoringApp      string             `json:"authoringApp"`
}

// OperationalLayer references a service layer from the map.
type OperationalLayer struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	LayerType  string      `json:"layerType"`
	Visibility bool        `json:"visibility"`
	Opacity    float64     `json:"opacity"`
	PopupInfo  *popup.Info `json:"popupInfo,omitempty"`
}

// BaseMap is the basemap section of a web map.
type BaseMap struct {
	Title         string         `json:"title"`
	BaseMapLayers []BaseMapLayer `json:"baseMapLayers"`
}

// BaseMapLayer is one tiled basemap layer.
type BaseMapLayer struct {
	ID         string  `json:"id"`
	LayerType  string  `json:"layerType"`
	URL        string  `json:"url"`
	Visibility bool    `json:"visibility"`
	Opacity    float64 `json:"opacity"`
	Title      string  `json:"title"`
}

// SpatialReference identifies the map projection.
type SpatialReference struct {
	WKID       int `json:"wkid"`
	LatestWKID int `json:"latestWkid"`
}

// New creates an empty web map on the default topographic basemap.
func New() *Document {
	return &Document{
		OperationalLayers: []OperationalLayer{},
		BaseMap: BaseMap{
			Title: "Topographic",
			BaseMapLayers: []BaseMapLayer{{
				ID:         defaultBasemapID,
				LayerType:  "ArcGISTiledMapServiceLayer",
				URL:        defaultBasemap,
				Visibility: true,
				Opacity:    1,
				Title:      "World Topographic Map",
			}},
		},
		SpatialReference: SpatialReference{WKID: WebMercatorWKID, LatestWKID: 3857},
		Version:          SpecVersion,
		AuthoringApp:     AuthoringApp,
	}
}

// AddCollection appends one operational layer per collection layer.
// withDefaults attaches the portal default popup built from the layer fields,
// which is what the portal does for hosted layers.
func (d *Document) AddCollection(col layer.Collection, withDefaults bool) {
	for i, l := range col.Layers {
		ol := OperationalLayer{
			ID:         layerID(col.Title, l.ID),
			Title:      l.Name,
			URL:        col.LayerURL(i),
			LayerType:  FeatureLayerType,
			Visibility: true,
			Opacity:    1,
		}
		if withDefaults {
			ol.PopupInfo = popup.DefaultInfo(l.Name, l.Fields)
		}
		d.OperationalLayers = append(d.OperationalLayers, ol)
	}
}

// FindOperationalLayer returns the index of the operational layer whose
// title contains layerName. The scan runs to the end and the last match wins.
func (d *Document) FindOperationalLayer(layerName string) (int, error) {
	index := -1
	for i, ol := range d.OperationalLayers {
		if strings.Contains(ol.Title, layerName) {
			index = i
		}
	}
	if index < 0 {
		return 0, domain.NewNotFound("operational layer", layerName)
	}
	return index, nil
}

// Clone returns a deep copy of the operational layer.
func (l OperationalLayer) Clone() OperationalLayer {
	l.PopupInfo = l.PopupInfo.Clone()
	return l
}

func layerID(title string, id int) string {
	return fmt.Sprintf("%s_%d", strings.ReplaceAll(title, " ", "_"), id)
}
