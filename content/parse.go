package content

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"hdocx/state"
)

// FormulaText produces textual rendition of formula element. It is used by
// the table pre-pass, which replaces formulas inside tables with text.
type FormulaText func(*Node) string

type options struct {
	formulaText FormulaText
}

type Option func(*options)

// WithFormulaText sets formula renderer for the table pre-pass. Without it
// normalized text content of formula element is used.
func WithFormulaText(fn FormulaText) Option {
	return func(o *options) {
		o.formulaText = fn
	}
}

// Parse reads UTF-8 HTML and returns body element of the document as
// classified tree. Text is NFC normalized. Formulas inside tables are
// replaced with their textual form.
func Parse(r io.Reader, opts ...Option) (*Node, error) {
	o := options{formulaText: plainFormulaText}
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}

	body := findBody(doc)
	if body == nil {
		return NewElement("body", nil), nil
	}
	root := convert(body)
	stripTableFormulas(root, o.formulaText)
	return root, nil
}

// ParseString is Parse for in-memory HTML.
func ParseString(s string, opts ...Option) (*Node, error) {
	return Parse(strings.NewReader(s), opts...)
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func convert(src *html.Node) *Node {
	attrs := make(map[string]string, len(src.Attr))
	for _, a := range src.Attr {
		key := strings.ToLower(a.Key)
		if _, exists := attrs[key]; !exists {
			attrs[key] = a.Val
		}
	}
	n := NewElement(src.Data, attrs)
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			n.Append(NewText(norm.NFC.String(c.Data)))
		case html.ElementNode:
			n.Append(convert(c))
		}
	}
	return n
}

func plainFormulaText(n *Node) string {
	return strings.Join(strings.Fields(n.TextContent()), " ")
}

// stripTableFormulas replaces every formula inside a table with text node.
// Display formulas take precedence, inline formulas nested in them are not
// visited separately.
func stripTableFormulas(root *Node, text FormulaText) int {
	count := 0
	for _, table := range root.FindAll(ByKind(KindTable)) {
		var formulas []*Node
		table.walk(func(n *Node) bool {
			if n.Kind == KindFormulaBlock || n.Kind == KindFormulaInline {
				formulas = append(formulas, n)
				return false
			}
			return true
		})
		for _, f := range formulas {
			if f.Parent == nil {
				// already replaced as part of enclosing table
				continue
			}
			f.replace(NewText(text(f)))
			count++
		}
	}
	return count
}

// Content is parsed input document ready for conversion.
type Content struct {
	SrcName string
	Root    *Node
}

// Prepare parses HTML content, logging its shape and storing tree dump in
// debug report when one is requested.
func Prepare(ctx context.Context, r io.Reader, srcName string, log *zap.Logger, opts ...Option) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	root, err := Parse(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare content of %s: %w", srcName, err)
	}

	log.Debug("Content parsed",
		zap.String("source", srcName),
		zap.Int("blocks", len(root.Children)),
		zap.Int("tables", len(root.FindAll(ByKind(KindTable)))),
		zap.Int("images", len(root.FindAll(ByKind(KindImage)))),
	)
	if env.Rpt != nil {
		env.Rpt.StoreData("content-tree.txt", []byte(root.String()))
	}
	return &Content{SrcName: srcName, Root: root}, nil
}
