package arcgis

import (
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/field"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
)

// errorEnvelope is the portal's error body, returned with HTTP 200 as often as not.
type errorEnvelope struct {
	Error *struct {
		Code    int      `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

type searchResponse struct {
	Total   int       `json:"total"`
	Results []itemDTO `json:"results"`
}

type itemDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Owner string `json:"owner"`
	URL   string `json:"url"`
}

type layersResponse struct {
	Layers []layerDTO `json:"layers"`
	Tables []layerDTO `json:"tables"`
}

type layerDTO struct {
	ID     int           `json:"id"`
	Name   string        `json:"name"`
	Fields []field.Field `json:"fields"`
}

func (d layerDTO) toDomain() layer.Layer {
	return layer.Layer{ID: d.ID, Name: d.Name, Fields: d.Fields}
}

type successResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type shareResponse struct {
	ItemID        string   `json:"itemId"`
	NotSharedWith []string `json:"notSharedWith"`
}
