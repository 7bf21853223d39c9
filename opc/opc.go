// Package opc produces package level parts of Office Open XML document:
// content types, relationships and document properties.
package opc

import (
	"github.com/beevik/etree"
)

// Part names.
const (
	PartContentTypes = "[Content_Types].xml"
	PartPackageRels  = "_rels/.rels"
	PartCoreProps    = "docProps/core.xml"
	PartAppProps     = "docProps/app.xml"
	PartDocument     = "word/document.xml"
	PartStyles       = "word/styles.xml"
	PartFooter       = "word/footer1.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
	MediaDir         = "word/media/"
)

// Content types.
const (
	ContentTypeRels     = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML      = "application/xml"
	ContentTypeDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ContentTypeFooter   = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	ContentTypeCore     = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeApp      = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

const (
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
)

func newDocument(standalone bool) *etree.Document {
	doc := etree.NewDocument()
	if standalone {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	} else {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	}
	return doc
}

// Serialize renders document as string.
func Serialize(doc *etree.Document) (string, error) {
	return doc.WriteToString()
}
