package popup

import (
	"fmt"
	"strings"
	"unicode"
)

// FeatureLayerItemType is the only item type that gets a field description.
const FeatureLayerItemType = "Feature Layer"

// DescriptionPrefix opens every popup description.
const DescriptionPrefix = "<font color='#dc143c' face='Arial' size='2'>"

const lineFormat = "<b> %s :</b>  {%s}  <br /><br />"

// DefaultExcludedFields are system fields never shown in popup descriptions.
var DefaultExcludedFields = []string{
	"OBJECTID", "ORIG_FID", "ORIG_FID_1", "Shape.STArea()",
	"Shape.STLength()", "Shape__Area", "Shape__lenght", "Shape",
}

// Exclusions is a set of field names or labels left out of descriptions.
type Exclusions map[string]struct{}

// NewExclusions builds an exclusion set. A nil slice yields DefaultExcludedFields.
func NewExclusions(names []string) Exclusions {
	if names == nil {
		names = DefaultExcludedFields
	}
	ex := make(Exclusions, len(names))
	for _, n := range names {
		ex[n] = struct{}{}
	}
	return ex
}

// Contains reports whether name is excluded.
func (e Exclusions) Contains(name string) bool {
	_, ok := e[name]
	return ok
}

// SplitUppercase puts a space before every uppercase letter that starts a
// word and trims the result. Runs of capitals stay together, so "ParcelID"
// becomes "Parcel ID" and "IDNumber" becomes "ID Number".
func SplitUppercase(word string) string {
	runes := []rune(word)
	var b strings.Builder
	b.Grow(len(word) * 2)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && startsWord(runes, i) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func startsWord(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i-1]) {
		return true
	}
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// BuildDescription renders one labelled placeholder line per interesting field
// of the operational layer popup. Registered layers are matched on fieldName,
// hosted layers fall through to the field label. Fields without uppercase
// letters are skipped.
func BuildDescription(info *Info, itemType string, excluded Exclusions) string {
	var b strings.Builder
	b.WriteString(DescriptionPrefix)

	if itemType != FeatureLayerItemType || info == nil {
		return b.String()
	}

	for _, fi := range info.FieldInfos {
		switch {
		case hasUpper(fi.FieldName) && !excluded.Contains(fi.FieldName):
			fmt.Fprintf(&b, lineFormat, SplitUppercase(fi.FieldName), fi.FieldName)
		case hasUpper(fi.Label) && !excluded.Contains(fi.Label):
			fmt.Fprintf(&b, lineFormat, SplitUppercase(fi.Label), fi.Label)
		}
	}
	return b.String()
}

func hasUpper(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}
