package popup

import (
	"encoding/json"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/field"
)

// Info is the popup definition of an operational layer.
type Info struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	FieldInfos      []FieldInfo     `json:"fieldInfos"`
	ShowAttachments bool            `json:"showAttachments"`
	MediaInfos      json.RawMessage `json:"mediaInfos,omitempty"`
}

// FieldInfo describes how one field is shown in a popup.
type FieldInfo struct {
	FieldName         string        `json:"fieldName"`
	Label             string        `json:"label,omitempty"`
	IsEditable        bool          `json:"isEditable"`
	Visible           bool          `json:"visible"`
	Tooltip           string        `json:"tooltip,omitempty"`
	StringFieldOption string        `json:"stringFieldOption,omitempty"`
	Format            *field.Format `json:"format,omitempty"`
}

// IsEmpty reports whether the popup carries no portal-assigned content.
func (i *Info) IsEmpty() bool {
	return i == nil || (i.Title == "" && i.Description == "" && len(i.FieldInfos) == 0)
}

// Clone returns a deep copy. A nil Info clones to nil.
func (i *Info) Clone() *Info {
	if i == nil {
		return nil
	}
	c := *i
	if i.FieldInfos != nil {
		c.FieldInfos = make([]FieldInfo, len(i.FieldInfos))
		for n, fi := range i.FieldInfos {
			if fi.Format != nil {
				f := *fi.Format
				fi.Format = &f
			}
			c.FieldInfos[n] = fi
		}
	}
	if i.MediaInfos != nil {
		c.MediaInfos = append(json.RawMessage(nil), i.MediaInfos...)
	}
	return &c
}

// DefaultInfo builds the portal default popup for a layer: one visible
// field info per field, labelled with the field alias.
func DefaultInfo(title string, fields []field.Field) *Info {
	infos := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		infos = append(infos, FieldInfo{
			FieldName:         f.Name,
			Label:             f.Label,
			Visible:           true,
			StringFieldOption: "textbox",
		})
	}
	return &Info{Title: title, FieldInfos: infos}
}
