// Package payload loads export payload: HTML body of the record, image
// collateral and record metadata. Payload comes from JSON file, history
// database or bare HTML file.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hdocx/media"
)

var ErrNoBody = errors.New("payload has no html body")

// Data is history record the export was made from.
type Data struct {
	Name             string        `json:"name,omitempty"`
	ID               FlexString    `json:"id,omitempty"`
	OCR              string        `json:"ocr,omitempty"`
	OCRChunks        []string      `json:"ocrChunks,omitempty"`
	Translation      string        `json:"translation,omitempty"`
	TranslatedChunks []string      `json:"translatedChunks,omitempty"`
	Images           []media.Image `json:"images,omitempty"`
}

// Payload is complete export request.
type Payload struct {
	BodyHTML       string        `json:"bodyHtml"`
	Images         []media.Image `json:"images,omitempty"`
	Data           Data          `json:"data"`
	Tab            string        `json:"tab,omitempty"`
	ModeLabel      string        `json:"modeLabel,omitempty"`
	ExportTime     Timestamp     `json:"exportTime"`
	FileNameBase   string        `json:"fileNameBase,omitempty"`
	CustomFileName string        `json:"customFileName,omitempty"`
}

// FlexString accepts both JSON strings and numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// Timestamp accepts milliseconds since epoch or textual date. Value which
// cannot be understood is left zero.
type Timestamp struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		t.Time = time.UnixMilli(int64(v))
	case string:
		t.Time = parseTime(strings.TrimSpace(v))
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms)
	}
	for _, layout := range timeLayouts {
		if tm, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return tm
		}
	}
	return time.Time{}
}

// AllImages returns image collateral from top level or, when absent, from
// the record.
func (p *Payload) AllImages() []media.Image {
	if len(p.Images) > 0 {
		return p.Images
	}
	return p.Data.Images
}

// TranslationMarkdown is translated text of the record, joined from chunks
// when whole text is not stored.
func (p *Payload) TranslationMarkdown() string {
	return markdownOf(p.Data.Translation, p.Data.TranslatedChunks)
}

// OCRMarkdown is recognized text of the record.
func (p *Payload) OCRMarkdown() string {
	return markdownOf(p.Data.OCR, p.Data.OCRChunks)
}

func markdownOf(whole string, chunks []string) string {
	if strings.TrimSpace(whole) != "" {
		return whole
	}
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, strings.TrimSpace(c))
	}
	return strings.Join(parts, "\n\n")
}

// Parse decodes JSON payload.
func Parse(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unable to decode payload: %w", err)
	}
	if strings.TrimSpace(p.BodyHTML) == "" {
		return nil, ErrNoBody
	}
	return &p, nil
}

// Source kind.
type Kind int

const (
	KindJSON Kind = iota
	KindHTML
	KindDatabase
)

// DetectKind guesses source kind by file extension.
func DetectKind(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return KindHTML
	case ".db", ".sqlite", ".sqlite3":
		return KindDatabase
	}
	return KindJSON
}

// LoadFile reads JSON payload from file.
func LoadFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read payload: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
