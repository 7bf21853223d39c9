package docx

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"hdocx/archive"
	"hdocx/content"
	"hdocx/markup"
	"hdocx/opc"
)

const (
	nsWordML     = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsOfficeRels = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsMath       = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	nsWordDraw   = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsDrawingML  = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPicture    = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// maxReportedFailures limits number of block failures logged individually.
const maxReportedFailures = 100

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

// Result is everything conversion produced, ready to be written into
// package.
type Result struct {
	Document string
	// Footer is empty when branding is off.
	Footer        string
	Relationships []opc.Relationship
	Media         []MediaFile
	MediaExts     []string
	// Failures counts top level blocks replaced by placeholders.
	Failures int
}

// Build converts children of root into document body. Session can build
// only once. Cancelling ctx aborts conversion between top level blocks and
// nothing is returned.
func (s *Session) Build(ctx context.Context, root *content.Node) (*Result, error) {
	if s.used {
		return nil, ErrSessionUsed
	}
	s.used = true

	var body strings.Builder
	if root != nil {
		for i, n := range root.Children {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("conversion interrupted at block %d: %w", i, err)
			}
			body.WriteString(s.topLevel(i, n))
		}
	}
	if s.failures > 0 {
		s.log.Warn("Some blocks were replaced by placeholders", zap.Int("failures", s.failures))
	}

	res := &Result{Failures: s.failures}
	var footerID string
	if s.cfg.Branding {
		var err error
		if res.Footer, footerID, err = s.footer(); err != nil {
			return nil, err
		}
	}
	body.WriteString(sectionProperties(footerID))

	var intro string
	if s.intro != nil {
		intro = renderBlocks(s.introBlocks()...)
	}
	res.Document = wrapDocument(markup.Sanitize(intro + body.String()))
	res.Relationships = s.rels.List()
	res.Media = s.media
	res.MediaExts = s.exts

	s.log.Debug("Document built",
		zap.Int("size", len(res.Document)),
		zap.Int("media", len(res.Media)),
		zap.Int("relationships", len(res.Relationships)),
	)
	return res, nil
}

// topLevel renders single top level block. Any failure inside is contained
// and block is replaced by empty paragraph.
func (s *Session) topLevel(idx int, n *content.Node) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.failures++
			if s.failures <= maxReportedFailures {
				s.log.Warn("Unable to convert block, using placeholder",
					zap.Int("index", idx), zap.Stringer("kind", n.Kind), zap.String("tag", n.Tag), zap.Any("panic", r))
			}
			out = placeholderParagraph
		}
	}()

	out = renderBlocks(s.convertBlock(n, Context{MaxWidth: s.cfg.MaxWidth})...)
	if s.strict && markup.HasIllegal(out) {
		s.log.Warn("Block contains illegal characters", zap.Int("index", idx), zap.Stringer("kind", n.Kind))
	}
	return out
}

func wrapDocument(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<w:document xmlns:w="` + nsWordML + `" xmlns:r="` + nsOfficeRels + `" xmlns:m="` + nsMath +
		`" xmlns:wp="` + nsWordDraw + `" xmlns:a="` + nsDrawingML + `" xmlns:pic="` + nsPicture + `">` +
		`<w:body>` + body + `</w:body></w:document>`
}

// Write stores complete package: content types, package relationships,
// properties, document, styles, footer, document relationships and media in
// that order.
func (r *Result) Write(w archive.PartWriter, props opc.Properties) error {
	if w == nil {
		return archive.ErrNoWriter
	}

	type part struct {
		name string
		make func() (string, error)
	}
	parts := []part{
		{opc.PartContentTypes, func() (string, error) { return opc.ContentTypes(r.MediaExts, r.Footer != "") }},
		{opc.PartPackageRels, opc.PackageRels},
		{opc.PartCoreProps, func() (string, error) { return opc.CoreProps(props) }},
		{opc.PartAppProps, func() (string, error) { return opc.AppProps(props) }},
		{opc.PartDocument, func() (string, error) { return r.Document, nil }},
		{opc.PartStyles, Styles},
	}
	if r.Footer != "" {
		parts = append(parts, part{opc.PartFooter, func() (string, error) { return r.Footer, nil }})
	}
	parts = append(parts, part{opc.PartDocumentRels, func() (string, error) { return opc.DocumentRels(r.Relationships) }})

	for _, p := range parts {
		data, err := p.make()
		if err != nil {
			return fmt.Errorf("unable to build %s: %w", p.name, err)
		}
		if err := w.WriteText(p.name, data); err != nil {
			return err
		}
	}
	for _, m := range r.Media {
		if err := w.WriteBinary(opc.MediaDir+m.Name, m.Data); err != nil {
			return err
		}
	}
	return nil
}
