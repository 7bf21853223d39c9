package media

import (
	"bytes"
	"encoding/binary"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"hdocx/css"
)

const (
	// DefaultWidth is used when image size cannot be determined, height is
	// then 3/4 of width.
	DefaultWidth = 680
	// MinHeight is lower bound for scaled image height.
	MinHeight = 10
	// TwipsPerPixel converts context width into pixels.
	TwipsPerPixel = 15
	// EMUPerPixel converts pixels into drawing units.
	EMUPerPixel = 9525
)

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// DecodeDimensions reads pixel size from image header. Extension selects
// decoder, unknown extension tries JPEG then PNG.
func DecodeDimensions(data []byte, ext string) (int, int, bool) {
	if len(data) < 10 {
		return 0, 0, false
	}
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return decodePNG(data)
	case "jpg", "jpeg":
		return decodeJPEG(data)
	case "gif":
		return decodeGIF(data)
	}
	if w, h, ok := decodeJPEG(data); ok {
		return w, h, true
	}
	return decodePNG(data)
}

func decodePNG(data []byte) (int, int, bool) {
	if len(data) < 24 || !bytes.Equal(data[:8], pngSignature) {
		return 0, 0, false
	}
	return int(binary.BigEndian.Uint32(data[16:20])), int(binary.BigEndian.Uint32(data[20:24])), true
}

// isSOF reports start of frame markers, which carry image size. DHT (C4),
// JPG (C8) and DAC (CC) share the range but are not frames.
func isSOF(marker byte) bool {
	return marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}

func decodeJPEG(data []byte) (int, int, bool) {
	if data[0] != 0xFF || data[1] != 0xD8 {
		return 0, 0, false
	}
	for offset := 2; offset+3 < len(data); {
		if data[offset] != 0xFF {
			offset++
			continue
		}
		marker := data[offset+1]
		if marker == 0 || marker == 0xFF {
			// fill bytes and stuffed zeros
			offset++
			continue
		}
		length := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		if length <= 0 {
			break
		}
		if isSOF(marker) {
			if offset+9 > len(data) {
				break
			}
			h := int(binary.BigEndian.Uint16(data[offset+5 : offset+7]))
			w := int(binary.BigEndian.Uint16(data[offset+7 : offset+9]))
			return w, h, true
		}
		offset += 2 + length
	}
	return 0, 0, false
}

func decodeGIF(data []byte) (int, int, bool) {
	if !bytes.HasPrefix(data, []byte("GIF")) {
		return 0, 0, false
	}
	return int(binary.LittleEndian.Uint16(data[6:8])), int(binary.LittleEndian.Uint16(data[8:10])), true
}

// decodeConfig asks registered image decoders for size.
func decodeConfig(data []byte) (int, int, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

// Size is display size of image in pixels.
type Size struct {
	Width, Height int
}

// EMU returns size in drawing units, never less than 1.
func (s Size) EMU() (int64, int64) {
	return max(1, int64(s.Width)*EMUPerPixel), max(1, int64(s.Height)*EMUPerPixel)
}

// Requested extracts size set on img element by width and height attributes
// or by its inline style. Percentages are ignored.
func Requested(attrs map[string]string) (float64, float64) {
	decls := css.ParseDeclarations(attrs["style"])
	get := func(name string) float64 {
		if v, ok := attrs[name]; ok {
			if px, ok := css.ParseDeclarations(name + ":" + v).Pixels(name); ok && px > 0 {
				return px
			}
		}
		if px, ok := decls.Pixels(name); ok && px > 0 {
			return px
		}
		return 0
	}
	return get("width"), get("height")
}

// Limits bound display size of images.
type Limits struct {
	// DefaultWidth is used when size cannot be determined.
	DefaultWidth int
	// MaxWidth is upper bound for display width, further lowered by context
	// width.
	MaxWidth int
}

// DefaultLimits is 680 pixels for both default and maximum width.
var DefaultLimits = Limits{DefaultWidth: DefaultWidth, MaxWidth: DefaultWidth}

// Measure is DefaultLimits.Measure.
func Measure(a *Asset, reqW, reqH float64, maxWidthTwip int) Size {
	return DefaultLimits.Measure(a, reqW, reqH, maxWidthTwip)
}

// Measure computes display size of the asset: requested size first, then
// image header, then full decoder, then default 4:3 box. Result is clamped
// to the context width, which is given in twips.
func (l Limits) Measure(a *Asset, reqW, reqH float64, maxWidthTwip int) Size {
	if l.DefaultWidth <= 0 {
		l.DefaultWidth = DefaultWidth
	}
	if l.MaxWidth <= 0 {
		l.MaxWidth = DefaultWidth
	}

	w, h := reqW, reqH
	if (w <= 0 || h <= 0) && a != nil {
		dw, dh, ok := DecodeDimensions(a.Data, a.Ext())
		if !ok || dw <= 0 || dh <= 0 {
			dw, dh, ok = decodeConfig(a.Data)
		}
		if ok {
			if w <= 0 {
				w = float64(dw)
			}
			if h <= 0 {
				h = float64(dh)
			}
		}
	}
	if w <= 0 {
		w = float64(l.DefaultWidth)
	}
	if h <= 0 {
		h = math.Round(w * 0.75)
	}

	limit := float64(l.MaxWidth)
	if maxWidthTwip > 0 {
		limit = min(limit, float64(maxWidthTwip)/TwipsPerPixel)
	}
	if w > limit {
		h = max(MinHeight, math.Round(h*limit/w))
		w = limit
	}
	return Size{Width: int(math.Round(w)), Height: int(math.Round(h))}
}
