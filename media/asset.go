// Package media keeps images referenced by content: lookup of collateral by
// loosely matching references, pixel dimensions and format normalization.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
)

// Image is single image collateral of the payload. Data is either base64 or
// complete data URI.
type Image struct {
	Name         string `json:"name,omitempty"`
	ID           string `json:"id,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
	FileName     string `json:"fileName,omitempty"`
	Path         string `json:"path,omitempty"`
	Data         string `json:"data,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	Type         string `json:"type,omitempty"`
}

// Asset is decoded image ready to be embedded.
type Asset struct {
	MimeType string
	Data     []byte
	// Source is data URI or key asset was registered with.
	Source string
}

var ErrNotDataURI = errors.New("not an image data uri")

// Ext returns file extension for asset: "jpg" for JPEG, subtype for other
// images and "png" when type is unknown.
func (a *Asset) Ext() string {
	return MimeToExt(a.MimeType)
}

// MimeToExt returns file extension for image MIME type.
func MimeToExt(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch mt {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return "jpg"
	case "image/png", "":
		return "png"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/svg+xml":
		return "svg"
	case "image/webp":
		return "webp"
	case "image/tiff":
		return "tiff"
	}
	if sub, ok := strings.CutPrefix(mt, "image/"); ok && sub != "" && !strings.ContainsAny(sub, "+.;") {
		return sub
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "png"
}

// ExtToMime is reverse of MimeToExt for extensions media files may have.
func ExtToMime(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "svg":
		return "image/svg+xml"
	case "tif", "tiff":
		return "image/tiff"
	case "png", "gif", "bmp", "webp":
		return "image/" + strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	if t := mime.TypeByExtension("." + ext); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/png"
}

// safeMime makes sure declared type is an image type: "png" becomes
// "image/png", empty becomes "image/png".
func safeMime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "image/png"
	}
	if len(raw) > 6 && strings.EqualFold(raw[:6], "image/") {
		return "image/" + raw[6:]
	}
	return "image/" + raw
}

// DataURI returns data URI for collateral, keeping existing URI as is.
func (img *Image) DataURI() string {
	if strings.HasPrefix(img.Data, "data:") {
		return img.Data
	}
	mt := img.MimeType
	if mt == "" {
		mt = img.Type
	}
	return "data:" + safeMime(mt) + ";base64," + img.Data
}

// ParseDataURI decodes base64 image data URI.
func ParseDataURI(uri string) (*Asset, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return nil, ErrNotDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing data", ErrNotDataURI)
	}
	params := strings.Split(header, ";")
	mt := strings.ToLower(strings.TrimSpace(params[0]))
	if !strings.HasPrefix(mt, "image/") || len(mt) == len("image/") {
		return nil, fmt.Errorf("%w: type %q", ErrNotDataURI, params[0])
	}
	if !strings.EqualFold(strings.TrimSpace(params[len(params)-1]), "base64") {
		return nil, fmt.Errorf("%w: only base64 encoding is supported", ErrNotDataURI)
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to decode image data: %w", err)
	}
	if mt == "image/jpg" {
		mt = "image/jpeg"
	}
	return &Asset{MimeType: mt, Data: data, Source: uri}, nil
}

// decodeBase64 ignores whitespace and any characters outside of base64
// alphabet, padded and unpadded data are both accepted.
func decodeBase64(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '/':
			return r
		case r == '-':
			return '+'
		case r == '_':
			return '/'
		}
		return -1
	}, s)
	return base64.RawStdEncoding.DecodeString(cleaned)
}
