package sitegen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/ruofeng/sitegen/ogimage"
)

// staticSiteImage loads the configured site image from the public directory
// and scales it to cover the preview canvas, cropping the overflow evenly.
func (a *App) staticSiteImage() ([]byte, error) {
	f, err := os.Open(filepath.Join(a.Config.PublicDir, filepath.FromSlash(a.Config.OGImage)))
	if err != nil {
		return nil, fmt.Errorf("open site image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode site image: %w", err)
	}
	return coverPNG(src, ogimage.CanvasWidth, ogimage.CanvasHeight)
}

// coverPNG scales src to fill w×h, keeping its aspect ratio, and encodes
// the result as PNG.
func coverPNG(src image.Image, w, h int) ([]byte, error) {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return nil, errors.New("site image is empty")
	}

	// Crop the source to the canvas aspect ratio first.
	crop := b
	if sw*h > sh*w {
		cw := sh * w / h
		crop.Min.X += (sw - cw) / 2
		crop.Max.X = crop.Min.X + cw
	} else {
		ch := sw * h / w
		crop.Min.Y += (sh - ch) / 2
		crop.Max.Y = crop.Min.Y + ch
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode site image: %w", err)
	}
	return buf.Bytes(), nil
}
