package popup

import (
	"strings"
	"testing"
	"unicode"
)

func TestSplitUppercase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ParcelID", "Parcel ID"},
		{"IDNumber", "ID Number"},
		{"OBJECTID", "OBJECTID"},
		{"LandUseCode", "Land Use Code"},
		{"landuse", "landuse"},
		{"", ""},
		{"A", "A"},
		{"zoneB", "zone B"},
		{"Land Use", "Land  Use"},
	}
	for _, tt := range tests {
		if got := SplitUppercase(tt.in); got != tt.want {
			t.Errorf("SplitUppercase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitUppercase_NoUppercaseIsIdentity(t *testing.T) {
	for _, s := range []string{"roads", "shape_area", "x1_y2"} {
		once := SplitUppercase(s)
		if once != s {
			t.Errorf("SplitUppercase(%q) = %q, want unchanged", s, once)
		}
		if twice := SplitUppercase(once); twice != once {
			t.Errorf("not idempotent on %q: %q", s, twice)
		}
	}
}

func TestSplitUppercase_PreservesCharacters(t *testing.T) {
	for _, s := range []string{"ParcelID", "LandUseCode", "ORIG_FID", "aBcDe"} {
		got := SplitUppercase(s)
		stripped := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, got)
		if stripped != s {
			t.Errorf("SplitUppercase(%q) = %q lost or added characters", s, got)
		}
	}
}

func TestBuildDescription_RegisteredFieldNames(t *testing.T) {
	info := &Info{FieldInfos: []FieldInfo{
		{FieldName: "OBJECTID"},
		{FieldName: "LandUseCode"},
	}}

	got := BuildDescription(info, FeatureLayerItemType, NewExclusions([]string{"OBJECTID"}))

	want := DescriptionPrefix + "<b> Land Use Code :</b>  {LandUseCode}  <br /><br />"
	if got != want {
		t.Errorf("BuildDescription() =\n%q\nwant\n%q", got, want)
	}
	if n := strings.Count(got, "<b>"); n != 1 {
		t.Errorf("expected exactly one rendered line, got %d", n)
	}
}

func TestBuildDescription_HostedLabels(t *testing.T) {
	info := &Info{FieldInfos: []FieldInfo{
		{FieldName: "objectid", Label: "OBJECTID"},
		{FieldName: "zone_code", Label: "ZoneCode"},
		{FieldName: "area", Label: "area"},
	}}

	got := BuildDescription(info, FeatureLayerItemType, NewExclusions(nil))

	want := DescriptionPrefix + "<b> Zone Code :</b>  {ZoneCode}  <br /><br />"
	if got != want {
		t.Errorf("BuildDescription() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildDescription_FieldNameWinsOverLabel(t *testing.T) {
	info := &Info{FieldInfos: []FieldInfo{
		{FieldName: "ParcelArea", Label: "Area Of Parcel"},
	}}

	got := BuildDescription(info, FeatureLayerItemType, NewExclusions(nil))

	if !strings.Contains(got, "{ParcelArea}") {
		t.Errorf("expected fieldName placeholder, got %q", got)
	}
	if strings.Contains(got, "{Area Of Parcel}") {
		t.Errorf("label must not be used when fieldName qualifies, got %q", got)
	}
}

func TestBuildDescription_PreservesOrder(t *testing.T) {
	info := &Info{FieldInfos: []FieldInfo{
		{FieldName: "StreetName"},
		{FieldName: "shape"},
		{FieldName: "CityName"},
	}}

	got := BuildDescription(info, FeatureLayerItemType, NewExclusions(nil))

	street := strings.Index(got, "{StreetName}")
	city := strings.Index(got, "{CityName}")
	if street < 0 || city < 0 || street > city {
		t.Errorf("unexpected order in %q", got)
	}
}

func TestBuildDescription_OtherItemType(t *testing.T) {
	info := &Info{FieldInfos: []FieldInfo{{FieldName: "LandUseCode"}}}

	if got := BuildDescription(info, "Map Image Layer", NewExclusions(nil)); got != DescriptionPrefix {
		t.Errorf("expected bare prefix, got %q", got)
	}
}

func TestNewExclusions_Default(t *testing.T) {
	ex := NewExclusions(nil)
	for _, name := range DefaultExcludedFields {
		if !ex.Contains(name) {
			t.Errorf("default exclusions missing %q", name)
		}
	}
	if ex.Contains("LandUseCode") {
		t.Error("LandUseCode must not be excluded")
	}

	if empty := NewExclusions([]string{}); len(empty) != 0 {
		t.Errorf("explicit empty list must exclude nothing, got %v", empty)
	}
}
