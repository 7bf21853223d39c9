package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"
	"unicode"

	sprig "github.com/go-task/slim-sprig/v3"

	"hdocx/config"
	"hdocx/payload"
)

const (
	timestampLayout = "20060102_150405"
	defaultTab      = "export"
	defaultBase     = "document"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context      string
	FileNameBase string
	Tab          string
	Mode         string
	Timestamp    string
	Title        string
	RecordID     string
}

func buildValues(p *payload.Payload, name config.TemplateFieldName, now time.Time) Values {
	stamp := p.ExportTime.Time
	if stamp.IsZero() {
		stamp = now
	}
	return Values{
		Context:      string(name),
		FileNameBase: fileNameBase(p),
		Tab:          cleanTab(p.Tab),
		Mode:         p.ModeLabel,
		Timestamp:    stamp.Format(timestampLayout),
		Title:        p.Data.Name,
		RecordID:     string(p.Data.ID),
	}
}

func fileNameBase(p *payload.Payload) string {
	if base := strings.TrimSpace(p.FileNameBase); len(base) > 0 {
		return base
	}
	if name := strings.TrimSpace(p.Data.Name); len(name) > 0 {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return defaultBase
}

// cleanTab keeps only letters and hyphens of export tab name.
func cleanTab(tab string) string {
	tab = strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsLetter(r) {
			return r
		}
		return -1
	}, tab)
	if len(tab) == 0 {
		return defaultTab
	}
	return tab
}

func expandTemplate(v Values, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
