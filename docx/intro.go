package docx

import (
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	titleLength = 50
	lineLength  = 60
	// titleBlocks is how many leading markdown blocks are searched for
	// heading.
	titleBlocks = 3
	lineSep     = "  ·  "
	noInfo      = "未提供信息"

	labelSource = "原始文件"
	labelMode   = "导出模式"
	labelTime   = "导出时间"
	labelRecord = "记录 ID"

	cardShading = "F8FAFF"
	cardBorder  = "CBD5F5"
	cardIndent  = 1440
	titleSize   = 44
)

// Intro describes exported record for the title card opening the document.
type Intro struct {
	Name       string
	RecordID   string
	ModeLabel  string
	ExportedAt time.Time
	// Translation and OCR are markdown sources title is looked for in.
	Translation string
	OCR         string
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Title selects card title: first heading of translation, then of OCR text,
// then record name and finally fallback.
func (in *Intro) Title(fallback string) string {
	for _, src := range []string{in.Translation, in.OCR} {
		if t := titleFromMarkdown(src); t != "" {
			return t
		}
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		return truncate(name, titleLength)
	}
	return fallback
}

// titleFromMarkdown returns text of heading found among first blocks of the
// source or text of the very first block.
func titleFromMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	first := doc.FirstChild()
	i := 0
	for n := first; n != nil && i < titleBlocks; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			return truncate(plainText(h, source), titleLength)
		}
		i++
	}
	if first == nil {
		return ""
	}
	return truncate(plainText(first, source), titleLength)
}

// plainText is visible text of markdown node without markup, pictures and
// code blocks.
func plainText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				sb.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Image, *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "…"
}

func cardLine(s string) string {
	return truncate(strings.Join(strings.Fields(s), " "), lineLength)
}

func labeled(label, value string) string {
	return label + "：" + value
}

// lines returns two detail lines of the card. Available details are put in
// order source, mode, time, record, first one on its own line and the rest
// joined on the second. Second line is never a copy of the first.
func (in *Intro) lines() (string, string) {
	var (
		source = cardLine(in.Name)
		mode   = cardLine(in.ModeLabel)
		record = cardLine(in.RecordID)
		when   string
	)
	if !in.ExportedAt.IsZero() {
		when = cardLine(in.ExportedAt.Format("2006-01-02 15:04"))
	}

	var segments []string
	for _, s := range [][2]string{{labelSource, source}, {labelMode, mode}, {labelTime, when}, {labelRecord, record}} {
		if s[1] != "" {
			segments = append(segments, labeled(s[0], s[1]))
		}
	}

	var three, four string
	if len(segments) > 0 {
		three = segments[0]
	}
	if len(segments) > 1 {
		four = strings.Join(segments[1:], lineSep)
	}
	three, four = cardLine(three), cardLine(four)

	// pick first detail not shown yet
	missing := func(order ...[2]string) string {
		for _, s := range order {
			if s[1] != "" && !strings.Contains(three, s[0]) {
				return labeled(s[0], s[1])
			}
		}
		return noInfo
	}

	if four == "" {
		four = missing([2]string{labelTime, when}, [2]string{labelMode, mode}, [2]string{labelSource, source})
	}
	if three == "" {
		three = four
	}
	if four == three {
		four = missing([2]string{labelMode, mode}, [2]string{labelTime, when}, [2]string{labelSource, source})
	}

	three = cardLine(three)
	if three == "" {
		three = noInfo
	}
	four = cardLine(four)
	if four == "" {
		four = three
	}
	return three, four
}

// introBlocks builds title card followed by page break.
func (s *Session) introBlocks() []Block {
	in := s.intro
	var runs []Run
	if r, ok := textRun(cardLine(in.Title(s.cfg.Intro.FallbackTitle)), Context{Bold: true, FontSize: titleSize}); ok {
		runs = append(runs, r)
	}
	runs = append(runs, Run{Kind: RunBreak})
	if s.cfg.Branding {
		runs = append(runs, s.brandLink(s.cfg.BrandText, s.cfg.BrandLink)...)
		runs = append(runs, Run{Kind: RunBreak})
	}

	three, four := in.lines()
	if r, ok := textRun(three, Context{}); ok {
		runs = append(runs, r)
	}
	if four != three {
		if r, ok := textRun(four, Context{}); ok {
			runs = append(runs, Run{Kind: RunBreak}, r)
		}
	}

	card := &Paragraph{
		Props: ParaProps{
			Border:      &Border{Color: cardBorder, Size: 24, Space: 80},
			Shading:     cardShading,
			Before:      360,
			After:       240,
			IndentLeft:  cardIndent,
			IndentRight: cardIndent,
			Align:       "center",
		},
		Runs: runs,
	}
	return []Block{card, pageBreakParagraph()}
}
