package media

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"hdocx/config"
	"hdocx/utils/images"
)

// sniff detects actual image type from content. SVG is not known to
// filetype and is recognized by its root element.
func sniff(data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	head := data[:min(len(data), 1024)]
	if bytes.Contains(head, []byte("<svg")) {
		return "image/svg+xml"
	}
	return ""
}

// Normalize makes asset embeddable: corrects declared type and converts
// formats Word cannot display. Opaque bitmaps become JPEG of configured
// quality, others PNG, SVG is rasterized when requested. Undecodable data is
// kept as is. Never returns nil.
func Normalize(a *Asset, cfg *config.ImagesConfig, log *zap.Logger) *Asset {
	out := *a
	if mt := sniff(a.Data); mt != "" && mt != a.MimeType {
		log.Debug("Image type corrected", zap.String("declared", a.MimeType), zap.String("actual", mt))
		out.MimeType = mt
	}

	switch out.MimeType {
	case "image/png", "image/jpeg", "image/gif":
		return &out
	case "image/svg+xml":
		if !cfg.RasterizeSVG {
			return &out
		}
		img, err := images.RasterizeSVG(out.Data, 0, 0)
		if err != nil {
			log.Warn("Unable to rasterize SVG image, keeping original", zap.Error(err))
			return &out
		}
		data, err := images.EncodePNG(img)
		if err != nil {
			log.Warn("Unable to encode rasterized SVG image, keeping original", zap.Error(err))
			return &out
		}
		out.Data, out.MimeType = data, "image/png"
		return &out
	}

	img, err := imaging.Decode(bytes.NewReader(out.Data), imaging.AutoOrientation(true))
	if err != nil {
		log.Warn("Unable to decode image, keeping original", zap.String("type", out.MimeType), zap.Error(err))
		return &out
	}

	var data []byte
	mt := "image/png"
	if images.IsOpaque(img) {
		mt = "image/jpeg"
		data, err = images.EncodeJPEG(img, cfg.JPEGQuality)
	} else {
		data, err = images.EncodePNG(img)
	}
	if err != nil {
		log.Warn("Unable to encode image, keeping original", zap.String("type", out.MimeType), zap.Error(err))
		return &out
	}
	log.Debug("Image converted", zap.String("from", out.MimeType), zap.String("to", mt),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	out.Data, out.MimeType = data, mt
	return &out
}
