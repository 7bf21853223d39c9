package docx

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"hdocx/content"
	"hdocx/media"
	"hdocx/opc"
)

// imagePlaceholder replaces images which cannot be resolved.
const imagePlaceholder = "[图片]"

// imageRun resolves image source and places picture sized to fit context
// width.
func (s *Session) imageRun(el *content.Node, ctx Context) Run {
	src := el.AttrOr("src", "")
	asset, ok := s.images.Resolve(src)
	if !ok {
		s.log.Debug("Image not resolved, using placeholder", zap.String("src", shorten(src, 80)))
		r, _ := textRun(imagePlaceholder, Context{})
		return r
	}

	relID := s.embed(asset)
	w, h := media.Requested(el.Attrs)
	size := s.limits.Measure(asset, w, h, ctx.MaxWidth)
	cx, cy := size.EMU()

	d := &Drawing{RelID: relID, ID: s.nextDrawing, Width: cx, Height: cy}
	s.nextDrawing++
	return Run{Kind: RunImage, Drawing: d}
}

// embed adds asset to package media once and returns its relationship id.
func (s *Session) embed(a *media.Asset) string {
	if id, ok := s.embedded[a]; ok {
		return id
	}
	ext := a.Ext()
	name := fmt.Sprintf("image%d.%s", s.nextImage, ext)
	s.nextImage++

	id := s.rels.Add(opc.RelImage, "media/"+name, false)
	s.media = append(s.media, MediaFile{Name: name, Data: a.Data})
	if !slices.Contains(s.exts, ext) {
		s.exts = append(s.exts, ext)
	}
	s.embedded[a] = id
	s.log.Debug("Image embedded", zap.String("name", name), zap.String("rel", id), zap.Int("size", len(a.Data)))
	return id
}

func imageParagraph(r Run) *Paragraph {
	p := newParagraph(r)
	p.Props.Align = "center"
	return p
}

func shorten(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "..."
}
