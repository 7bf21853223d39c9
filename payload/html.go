package payload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// FromHTML makes payload out of bare HTML document. Encoding is detected
// from BOM and meta tags unless forced by enc.
func FromHTML(r io.Reader, enc encoding.Encoding) (*Payload, error) {
	var (
		rd  io.Reader
		err error
	)
	if enc != nil {
		rd = enc.NewDecoder().Reader(r)
	} else if rd, err = charset.NewReader(r, "text/html"); err != nil {
		return nil, fmt.Errorf("unable to detect html encoding: %w", err)
	}

	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("unable to read html: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrNoBody
	}
	return &Payload{BodyHTML: string(data)}, nil
}

// LoadHTML reads bare HTML file, record name and file name base are taken
// from file name.
func LoadHTML(path string, enc encoding.Encoding) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open html: %w", err)
	}
	defer f.Close()

	p, err := FromHTML(f, enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p.Data.Name = filepath.Base(path)
	p.FileNameBase = base
	return p, nil
}
