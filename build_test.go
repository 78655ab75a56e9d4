package sitegen

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruofeng/sitegen/ogimage"
)

func readOut(t *testing.T, out, rel string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
	require.NoError(t, err, rel)
	return data
}

func TestBuild(t *testing.T) {
	a := newTestApp(t)
	out := t.TempDir()
	require.NoError(t, a.Build(context.Background(), out))

	for _, rel := range []string{
		"index.html",
		"posts/index.html",
		"posts/hello-world/index.html",
		"posts/second-post/index.html",
		"tags/index.html",
		"tags/intro/index.html",
		"tags/others/index.html",
		"archives/index.html",
		"rss.xml",
		"sitemap.xml",
		"robots.txt",
		"favicon.svg",
		"public/favicon.svg",
	} {
		assert.NotEmpty(t, readOut(t, out, rel), rel)
	}

	for _, rel := range []string{"og.png", "posts/hello-world/index.png"} {
		cfg, err := png.DecodeConfig(bytes.NewReader(readOut(t, out, rel)))
		require.NoError(t, err, rel)
		assert.Equal(t, ogimage.CanvasWidth, cfg.Width)
		assert.Equal(t, ogimage.CanvasHeight, cfg.Height)
	}

	assert.Contains(t, string(readOut(t, out, "404.html")), "Page Not Found")
	assert.Contains(t, string(readOut(t, out, "posts/hello-world/index.html")), `content="https://ruofeng.me/posts/hello-world/index.png"`)

	stub := string(readOut(t, out, "2018/07/13/lru-cache/index.html"))
	assert.Contains(t, stub, `http-equiv="refresh"`)
	assert.Contains(t, stub, "/posts/lru-cache")

	for _, rel := range []string{
		"posts/draft-post/index.html",
		"posts/future-post/index.html",
		"posts/custom-image/index.png",
	} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel)))
		assert.ErrorIs(t, err, os.ErrNotExist, rel)
	}
}

func TestBuildCanceled(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, a.Build(ctx, t.TempDir()), context.Canceled)
}

func TestBuildStaticSiteImage(t *testing.T) {
	a := newTestApp(t, func(c *SiteConfig) {
		c.DynamicOGImage = false
		c.OGImage = "og.jpg"
		src := image.NewRGBA(image.Rect(0, 0, 400, 400))
		for y := range 400 {
			for x := range 400 {
				src.Set(x, y, color.RGBA{R: 200, A: 255})
			}
		}
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, src, nil))
		writeTestFile(t, filepath.Join(c.PublicDir, "og.jpg"), buf.String())
	})
	out := t.TempDir()
	require.NoError(t, a.Build(context.Background(), out))

	cfg, err := png.DecodeConfig(bytes.NewReader(readOut(t, out, "og.png")))
	require.NoError(t, err)
	assert.Equal(t, ogimage.CanvasWidth, cfg.Width)
	assert.Equal(t, ogimage.CanvasHeight, cfg.Height)

	_, err = os.Stat(filepath.Join(out, "posts", "hello-world", "index.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, string(readOut(t, out, "posts/hello-world/index.html")), `content="https://ruofeng.me/og.png"`)
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t, func(c *SiteConfig) { c.PostPerPage = 1 })
	posts, err := a.PublishedPosts()
	require.NoError(t, err)

	kinds := make(map[string]RouteKind)
	var order []string
	for _, r := range a.Routes(posts) {
		_, dup := kinds[r.Path]
		assert.False(t, dup, r.Path)
		kinds[r.Path] = r.Kind
		order = append(order, r.Path)
	}

	assert.Equal(t, "/", order[0])
	assert.Equal(t, "/404.html", order[len(order)-1])
	for p, k := range map[string]RouteKind{
		"/posts/2/":                    RoutePage,
		"/posts/3/":                    RoutePage,
		"/posts/hello-world/":          RoutePage,
		"/tags/intro/2/":               RoutePage,
		"/archives/":                   RoutePage,
		"/rss.xml":                     RouteFile,
		"/favicon.svg":                 RouteFile,
		"/og.png":                      RouteImage,
		"/posts/hello-world/index.png": RouteImage,
		"/404.html":                    RouteNotFound,
	} {
		assert.Equal(t, k, kinds[p], p)
	}
	for _, p := range []string{"/posts/4/", "/tags/go/2/", "/posts/custom-image/index.png", "/posts/draft-post/"} {
		_, ok := kinds[p]
		assert.False(t, ok, p)
	}
}

func TestRouteOutputPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "index.html"},
		{"/posts/", "posts/index.html"},
		{"/posts/2/", "posts/2/index.html"},
		{"/rss.xml", "rss.xml"},
		{"/posts/a/index.png", "posts/a/index.png"},
		{"/404.html", "404.html"},
	}
	for _, tt := range tests {
		if got := (Route{Path: tt.path}).OutputPath(); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{"12", 12, true},
		{"0", 0, false},
		{"01", 0, false},
		{"", 0, false},
		{"-1", 0, false},
		{"2a", 0, false},
	}
	for _, tt := range tests {
		got, ok := pageNumber(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("pageNumber(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	assert.Equal(t, "/tags/go/", pageURL("/tags/go/", 1))
	assert.Equal(t, "/tags/go/3/", pageURL("/tags/go/", 3))
}

func TestCoverPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 300))
	data, err := coverPNG(src, 120, 63)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 63, cfg.Height)

	_, err = coverPNG(image.NewRGBA(image.Rectangle{}), 120, 63)
	assert.Error(t, err)
}
