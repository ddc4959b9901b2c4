package field

// Type is the portal field type, as reported by the feature service.
type Type string

// Field type constants. Only Double and Integer get a display format.
const (
	Double   Type = "esriFieldTypeDouble"
	Integer  Type = "esriFieldTypeInteger"
	String   Type = "esriFieldTypeString"
	OID      Type = "esriFieldTypeOID"
	Geometry Type = "esriFieldTypeGeometry"
	Date     Type = "esriFieldTypeDate"
)

// Field describes one attribute of a service layer.
// Label is only populated for hosted layers (the service alias).
type Field struct {
	Name  string `json:"name"`
	Label string `json:"alias,omitempty"`
	Type  Type   `json:"type"`
}

// Format is the numeric display rule of a popup field info.
type Format struct {
	Places         int  `json:"places"`
	DigitSeparator bool `json:"digitSeparator"`
}

// FormatFor returns the display format for a field type.
// ok is false when the field type is left untouched.
func FormatFor(t Type) (Format, bool) {
	switch t {
	case Double:
		return Format{Places: 2, DigitSeparator: false}, true
	case Integer:
		return Format{Places: 0, DigitSeparator: false}, true
	default:
		return Format{}, false
	}
}

// IsNumeric reports whether a display format applies to the type.
func (t Type) IsNumeric() bool {
	_, ok := FormatFor(t)
	return ok
}
