package images

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// defaultSVGSize is used for both sides when SVG has no usable viewBox.
const defaultSVGSize = 1024

// maxRasterDim limits size of raster produced from SVG, so enormous viewBox
// values do not exhaust memory.
var maxRasterDim = 4096

// FitSize computes raster size from intrinsic size and requested target.
//
//   - no target: intrinsic size
//   - only one side requested: scale by it keeping aspect ratio
//   - both sides requested: fit into the box keeping aspect ratio
//
// Result never exceeds maxRasterDim on either side and is at least 1x1.
func FitSize(intrW, intrH, targetW, targetH int) (int, int) {
	if intrW <= 0 {
		intrW = defaultSVGSize
	}
	if intrH <= 0 {
		intrH = defaultSVGSize
	}

	scale := 1.0
	switch {
	case targetW > 0 && targetH > 0:
		scale = math.Min(float64(targetW)/float64(intrW), float64(targetH)/float64(intrH))
	case targetW > 0:
		scale = float64(targetW) / float64(intrW)
	case targetH > 0:
		scale = float64(targetH) / float64(intrH)
	}
	w := max(int(math.Round(float64(intrW)*scale)), 1)
	h := max(int(math.Round(float64(intrH)*scale)), 1)

	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}
	return w, h
}

// RasterizeSVG renders SVG into RGBA image with transparent background. See
// FitSize for sizing rules.
func RasterizeSVG(svgData []byte, targetW, targetH int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("unable to read svg: %w", err)
	}

	w, h := FitSize(int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H)), targetW, targetH)
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return dst, nil
}
