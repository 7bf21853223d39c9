package docx

import (
	"net/url"
	"strings"

	"hdocx/content"
	"hdocx/opc"
)

// convertInline turns nodes into runs. Formatting elements extend context for
// their subtree only.
func (s *Session) convertInline(nodes []*content.Node, ctx Context) []Run {
	var runs []Run
	for i, n := range nodes {
		switch n.Kind {
		case content.KindText:
			text := n.Text
			if !ctx.Code {
				text = collapseSpace(text)
			}
			if r, ok := textRun(text, ctx); ok {
				runs = append(runs, r)
			} else if text != "" && i > 0 && i < len(nodes)-1 {
				// blank text between elements still separates words
				runs = appendSpace(runs)
			}
		case content.KindIgnored:
		case content.KindBreak:
			runs = append(runs, Run{Kind: RunBreak})
		case content.KindFormulaInline:
			runs = append(runs, s.inlineFormula(n, false, ctx)...)
		case content.KindFormulaBlock:
			runs = append(runs, s.inlineFormula(n, true, ctx)...)
		case content.KindImage:
			runs = append(runs, s.imageRun(n, ctx))
		case content.KindLink:
			runs = append(runs, s.hyperlink(n, ctx)...)
		default:
			runs = append(runs, s.convertInline(n.Children, ctx.inline(n))...)
		}
	}
	return runs
}

// appendSpace adds trailing space to preceding text run.
func appendSpace(runs []Run) []Run {
	if len(runs) == 0 {
		return runs
	}
	last := &runs[len(runs)-1]
	if last.Kind == RunText && !strings.HasSuffix(last.Text, " ") {
		last.Text += " "
	}
	return runs
}

// hyperlink wraps content of the link into hyperlink with external
// relationship. Links without absolute target keep only their content.
func (s *Session) hyperlink(n *content.Node, ctx Context) []Run {
	href := strings.TrimSpace(n.AttrOr("href", ""))
	if !isExternal(href) {
		return s.convertInline(n.Children, ctx)
	}

	next := ctx
	next.Underline = true
	if next.Color == "" {
		next.Color = linkColor
	}
	children := s.convertInline(n.Children, next)
	if len(children) == 0 {
		return nil
	}
	id := s.rels.Add(opc.RelHyperlink, href, true)
	return []Run{{Kind: RunHyperlink, RelID: id, Children: children}}
}

func isExternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return u.Host != ""
	case "mailto":
		return u.Opaque != ""
	}
	return false
}

// brandLink is italic hyperlink to project page, plain italic text without
// link target.
func (s *Session) brandLink(text, href string) []Run {
	if !isExternal(href) {
		if r, ok := textRun(text, Context{Italic: true}); ok {
			return []Run{r}
		}
		return nil
	}
	r, ok := textRun(text, Context{Italic: true, Underline: true, Color: linkColor})
	if !ok {
		return nil
	}
	id := s.rels.Add(opc.RelHyperlink, href, true)
	return []Run{{Kind: RunHyperlink, RelID: id, Children: []Run{r}}}
}
