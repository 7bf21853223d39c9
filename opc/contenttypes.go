package opc

import (
	"strings"

	"hdocx/media"
)

// ContentTypes builds [Content_Types].xml. Every media extension gets its
// own default, footer override is present only when document has footer.
func ContentTypes(mediaExts []string, withFooter bool) (string, error) {
	doc := newDocument(false)
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	addDefault := func(ext, contentType string) {
		d := types.CreateElement("Default")
		d.CreateAttr("Extension", ext)
		d.CreateAttr("ContentType", contentType)
	}
	addDefault("rels", ContentTypeRels)
	addDefault("xml", ContentTypeXML)

	handled := make(map[string]bool)
	for _, ext := range mediaExts {
		lower := strings.ToLower(strings.TrimPrefix(ext, "."))
		if lower == "" || handled[lower] || lower == "rels" || lower == "xml" {
			continue
		}
		handled[lower] = true
		addDefault(lower, media.ExtToMime(lower))
	}

	addOverride := func(part, contentType string) {
		o := types.CreateElement("Override")
		o.CreateAttr("PartName", "/"+part)
		o.CreateAttr("ContentType", contentType)
	}
	addOverride(PartDocument, ContentTypeDocument)
	addOverride(PartStyles, ContentTypeStyles)
	if withFooter {
		addOverride(PartFooter, ContentTypeFooter)
	}
	addOverride(PartCoreProps, ContentTypeCore)
	addOverride(PartAppProps, ContentTypeApp)

	return Serialize(doc)
}
