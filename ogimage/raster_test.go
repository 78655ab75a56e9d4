package ogimage

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestRasterizePost(t *testing.T) {
	svg, err := RenderSVG(testTemplate().Post(helloWorld()), testFonts(t), DefaultRenderOptions())
	require.NoError(t, err)

	out, err := Rasterize(svg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, pngMagic))

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, CanvasWidth, img.Bounds().Dx())
	assert.Equal(t, CanvasHeight, img.Bounds().Dy())

	// Paper background in the corner, card border ink on the card edge.
	r, g, b, a := img.At(2, 2).RGBA()
	assert.Equal(t, [4]uint32{0xfe, 0xfb, 0xfb, 0xff}, [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8})
	r, g, b, _ = img.At(73, 315).RGBA()
	assert.Less(t, r>>8+g>>8+b>>8, uint32(60), "card border should be dark")
}

func TestRasterizeSite(t *testing.T) {
	svg, err := RenderSVG(testTemplate().SiteTree(), testFonts(t), DefaultRenderOptions())
	require.NoError(t, err)
	out, err := Rasterize(svg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, pngMagic))
}

func rasterTree(t *testing.T, root *Box) image.Image {
	t.Helper()
	svg, err := RenderSVG(root, testFonts(t), DefaultRenderOptions())
	require.NoError(t, err)
	out, err := Rasterize(svg)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	return img
}

// titleInk counts the pixels of the title band that differ between a and b.
func titleInk(a, b image.Image) int {
	n := 0
	for y := 120; y < 330; y++ {
		for x := 120; x < 1080; x++ {
			r1, g1, b1, _ := a.At(x, y).RGBA()
			r2, g2, b2, _ := b.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 {
				n++
			}
		}
	}
	return n
}

func TestRasterizePostDrawsTitle(t *testing.T) {
	blank := helloWorld()
	blank.Title = ""
	with := rasterTree(t, testTemplate().Post(helloWorld()))
	without := rasterTree(t, testTemplate().Post(blank))

	assert.Greater(t, titleInk(with, without), 500, "title glyphs should reach the raster")

	// The card face stays paper coloured; the shadow is painted beneath it.
	r, g, b, _ := with.At(600, 420).RGBA()
	assert.Equal(t, [3]uint32{0xfe, 0xfb, 0xfb}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestRasterizeSiteDrawsTitle(t *testing.T) {
	tmpl := testTemplate()
	with := rasterTree(t, tmpl.SiteTree())
	tmpl.Site.Title = ""
	without := rasterTree(t, tmpl.SiteTree())

	assert.Greater(t, titleInk(with, without), 500, "site title glyphs should reach the raster")
}

func TestRasterizeDeterministic(t *testing.T) {
	svg, err := RenderSVG(testTemplate().Post(helloWorld()), testFonts(t), DefaultRenderOptions())
	require.NoError(t, err)

	a, err := Rasterize(svg)
	require.NoError(t, err)
	b, err := Rasterize(svg)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestRasterizeScalesToCanvas(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120 63"><rect x="0" y="0" width="120" height="63" fill="#ff0000"/></svg>`)
	out, err := Rasterize(svg)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, CanvasWidth, img.Bounds().Dx())
	r, g, b, _ := img.At(1100, 600).RGBA()
	assert.Equal(t, uint32(0xff), r>>8)
	assert.Equal(t, uint32(0), g>>8)
	assert.Equal(t, uint32(0), b>>8)
}

func TestRasterizeDecodeErrors(t *testing.T) {
	svg, err := RenderSVG(testTemplate().Post(helloWorld()), testFonts(t), DefaultRenderOptions())
	require.NoError(t, err)

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"whitespace", []byte("  \n")},
		{"truncated", svg[:len(svg)/2]},
		{"not xml", []byte("<<<not svg")},
		{"no viewBox", []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="1" height="1"/></svg>`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rasterize(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}
