package item

import "fmt"

// Content types used when naming project items.
const (
	FeatureLayer = "Feature Layer"
	WebMap       = "WebMap"
)

const (
	accessInformation = "Data Center"
	licenseInfo       = "All rights reserved."
	fontPrefix        = "<font color='#8b0000' size='4'><font style='font-family: inherit;'>"
)

// Properties are the descriptive properties of a portal item.
// An empty Title leaves the item title unchanged on update.
type Properties struct {
	Title             string
	Snippet           string
	Description       string
	Tags              []string
	AccessInformation string
	LicenseInfo       string
}

// ForProject builds the item properties of a project's portal content.
// Only web maps carry a title; other items keep the title they were published with.
func ForProject(project, contentType string, extraTags []string) Properties {
	summary := fmt.Sprintf("This is a %s of %s project.", contentType, project)

	tags := make([]string, 0, len(extraTags)+1)
	tags = append(tags, project)
	tags = append(tags, extraTags...)

	p := Properties{
		Snippet:           summary,
		Description:       fontPrefix + summary,
		Tags:              tags,
		AccessInformation: accessInformation,
		LicenseInfo:       fontPrefix + licenseInfo,
	}
	if contentType == WebMap {
		p.Title = fmt.Sprintf("%s_%s", project, contentType)
	}
	return p
}

// CollectionName returns the name of a project's feature layer collection.
func CollectionName(project string) string {
	return project + "_Map"
}
