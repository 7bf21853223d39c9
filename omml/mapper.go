package omml

import (
	"strings"

	"hdocx/content"
	"hdocx/markup"
)

// Converter turns MathML element into OMML equation. Empty result means
// formula could not be converted.
type Converter interface {
	ConvertMathML(math *content.Node) string
}

// Mapper renders equation trees as OMML. Over and under scripts are rendered
// as super and subscripts.
type Mapper struct{}

// ConvertMathML implements Converter.
func (m *Mapper) ConvertMathML(math *content.Node) string {
	return m.Convert(FromMathML(math))
}

// Convert returns <m:oMath> element or empty string when equation renders to
// nothing.
func (m *Mapper) Convert(eq *Equation) string {
	var sb strings.Builder
	m.render(&sb, eq)
	inner := markup.StripIllegal(sb.String())
	if strings.TrimSpace(inner) == "" {
		return ""
	}
	return "<m:oMath>" + inner + "</m:oMath>"
}

func (m *Mapper) render(sb *strings.Builder, eq *Equation) {
	if eq == nil {
		return
	}
	arg := func(i int) *Equation {
		if i < len(eq.Args) {
			return eq.Args[i]
		}
		return nil
	}

	switch eq.Kind {
	case EqToken:
		writeRun(sb, eq.Text)
	case EqRow:
		for _, a := range eq.Args {
			m.render(sb, a)
		}
	case EqSup, EqOver:
		sb.WriteString("<m:sSup>")
		m.slot(sb, "m:e", arg(0))
		m.slot(sb, "m:sup", arg(1))
		sb.WriteString("</m:sSup>")
	case EqSub, EqUnder:
		sb.WriteString("<m:sSub>")
		m.slot(sb, "m:e", arg(0))
		m.slot(sb, "m:sub", arg(1))
		sb.WriteString("</m:sSub>")
	case EqSubSup, EqUnderOver:
		sb.WriteString("<m:sSubSup>")
		m.slot(sb, "m:e", arg(0))
		m.slot(sb, "m:sub", arg(1))
		m.slot(sb, "m:sup", arg(2))
		sb.WriteString("</m:sSubSup>")
	case EqFrac:
		sb.WriteString("<m:f>")
		m.slot(sb, "m:num", arg(0))
		m.slot(sb, "m:den", arg(1))
		sb.WriteString("</m:f>")
	case EqSqrt:
		sb.WriteString(`<m:rad><m:radPr><m:degHide m:val="1"/></m:radPr><m:deg/>`)
		m.slot(sb, "m:e", Row(eq.Args...))
		sb.WriteString("</m:rad>")
	case EqRoot:
		sb.WriteString("<m:rad>")
		m.slot(sb, "m:deg", arg(1))
		m.slot(sb, "m:e", arg(0))
		sb.WriteString("</m:rad>")
	case EqFenced:
		writeRun(sb, eq.Open)
		for _, a := range eq.Args {
			m.render(sb, a)
		}
		writeRun(sb, eq.Close)
	}
}

// slot wraps rendered operand into element, empty operand becomes single
// space run so no empty slots are produced.
func (m *Mapper) slot(sb *strings.Builder, tag string, eq *Equation) {
	var inner strings.Builder
	m.render(&inner, eq)
	sb.WriteString("<" + tag + ">")
	if strings.TrimSpace(inner.String()) == "" {
		writeRun(sb, "")
	} else {
		sb.WriteString(inner.String())
	}
	sb.WriteString("</" + tag + ">")
}

const spaceRun = `<m:r><m:t xml:space="preserve"> </m:t></m:r>`

func writeRun(sb *strings.Builder, text string) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		sb.WriteString(spaceRun)
		return
	}
	sb.WriteString(`<m:r><m:t xml:space="preserve">`)
	sb.WriteString(markup.Escape(text))
	sb.WriteString(`</m:t></m:r>`)
}
