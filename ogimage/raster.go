package ogimage

import (
	"bytes"
	"image"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterize decodes SVG markup and returns it as a 1200×630 PNG encoded at
// the best compression level. Markup that cannot be decoded, or that has no
// usable viewBox, yields a DecodeError. Output is deterministic.
func Rasterize(svg []byte) ([]byte, error) {
	return RasterizeSize(svg, CanvasWidth, CanvasHeight)
}

// RasterizeSize is Rasterize with an explicit output size.
func RasterizeSize(svg []byte, width, height int) ([]byte, error) {
	if len(bytes.TrimSpace(svg)) == 0 {
		return nil, newError(CodeDecode, "empty document")
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, wrapError(CodeDecode, err, "parse svg")
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, newError(CodeDecode, "svg has no usable viewBox")
	}

	w, h := float64(width), float64(height)
	icon.SetTarget(0, 0, w, h)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, wrapError(CodeDecode, err, "encode png")
	}
	return buf.Bytes(), nil
}
