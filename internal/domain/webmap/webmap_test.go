package webmap

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/field"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/popup"
)

func testCollection() layer.Collection {
	return layer.Collection{
		ItemID: "abc123",
		Title:  "Harbor_Map",
		URL:    "https://gis.example.com/server/rest/services/Harbor_Map/FeatureServer",
		Layers: []layer.Layer{
			{ID: 0, Name: "Roads", Fields: []field.Field{{Name: "RoadName", Label: "Road Name", Type: field.String}}},
			{ID: 1, Name: "RoadsDetail"},
			{ID: 2, Name: "Parcels"},
		},
	}
}

func TestAddCollection(t *testing.T) {
	doc := New()
	doc.AddCollection(testCollection(), false)

	if len(doc.OperationalLayers) != 3 {
		t.Fatalf("expected 3 operational layers, got %d", len(doc.OperationalLayers))
	}
	ol := doc.OperationalLayers[2]
	if ol.Title != "Parcels" {
		t.Errorf("Title = %q, want Parcels", ol.Title)
	}
	if ol.URL != "https://gis.example.com/server/rest/services/Harbor_Map/FeatureServer/2" {
		t.Errorf("unexpected URL %q", ol.URL)
	}
	if ol.ID != "Harbor_Map_2" {
		t.Errorf("ID = %q, want Harbor_Map_2", ol.ID)
	}
	if ol.LayerType != FeatureLayerType || !ol.Visibility || ol.Opacity != 1 {
		t.Errorf("unexpected layer defaults: %+v", ol)
	}
	if ol.PopupInfo != nil {
		t.Error("popupInfo must stay absent without defaults")
	}
}

func TestAddCollection_WithDefaults(t *testing.T) {
	doc := New()
	doc.AddCollection(testCollection(), true)

	info := doc.OperationalLayers[0].PopupInfo
	if info.IsEmpty() {
		t.Fatal("expected default popupInfo")
	}
	if info.FieldInfos[0].Label != "Road Name" {
		t.Errorf("Label = %q, want alias", info.FieldInfos[0].Label)
	}
}

func TestFindOperationalLayer_LastMatchWins(t *testing.T) {
	doc := New()
	doc.AddCollection(testCollection(), false)

	idx, err := doc.FindOperationalLayer("Roads")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Errorf("FindOperationalLayer() = %d, want 1", idx)
	}
}

func TestFindOperationalLayer_NotFound(t *testing.T) {
	doc := New()
	doc.AddCollection(testCollection(), false)

	_, err := doc.FindOperationalLayer("Rivers")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOperationalLayer_Clone(t *testing.T) {
	orig := OperationalLayer{Title: "Roads", PopupInfo: &popup.Info{Title: "Roads"}}
	c := orig.Clone()
	c.PopupInfo.Title = "changed"
	if orig.PopupInfo.Title != "Roads" {
		t.Error("clone shares popupInfo with the original")
	}
}

func TestDocument_JSON(t *testing.T) {
	doc := New()
	doc.AddCollection(testCollection(), false)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"operationalLayers", "baseMap", "spatialReference", "version"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("definition missing %q", key)
		}
	}
	layers := raw["operationalLayers"].([]any)
	if _, ok := layers[0].(map[string]any)["popupInfo"]; ok {
		t.Error("absent popupInfo must be omitted")
	}
}
