package ogimage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/ruofeng/sitegen/content"
)

// templateVersion is mixed into cache keys; bump it when the templates
// change so stale images are not served.
const templateVersion = "og-v2"

// Cache stores rendered images by content key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, png []byte) error
}

// FailurePolicy decides what a Generator returns when a render fails.
type FailurePolicy string

const (
	// FailOnError returns the pipeline error.
	FailOnError FailurePolicy = "fail"
	// SkipOnFailure returns ErrImageSkipped so callers can omit the image.
	SkipOnFailure FailurePolicy = "skip"
	// SiteOnFailure substitutes the site-wide image for a failed post image.
	SiteOnFailure FailurePolicy = "site"
)

// ParseFailurePolicy parses a policy name; the empty string is FailOnError.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FailOnError, nil
	case FailOnError, SkipOnFailure, SiteOnFailure:
		return p, nil
	}
	return "", fmt.Errorf("ogimage: unknown failure policy %q (want fail, skip or site)", s)
}

// Generator runs the layout, vector and raster stages for posts and for the
// site. It is safe for concurrent use.
type Generator struct {
	tmpl    Template
	fonts   *FontSet
	opts    RenderOptions
	cache   Cache
	policy  FailurePolicy
	metrics *Metrics
	logger  *log.Logger
	group   singleflight.Group
}

// Option configures a Generator.
type Option func(*Generator)

// WithCache stores rendered images in c.
func WithCache(c Cache) Option {
	return func(g *Generator) { g.cache = c }
}

// WithFailurePolicy sets the failure policy (default FailOnError).
func WithFailurePolicy(p FailurePolicy) Option {
	return func(g *Generator) { g.policy = p }
}

// WithMetrics records renders in m.
func WithMetrics(m *Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithLogger sets the logger used for cache problems and fallbacks.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithRenderOptions overrides DefaultRenderOptions.
func WithRenderOptions(o RenderOptions) Option {
	return func(g *Generator) { g.opts = o }
}

// NewGenerator returns a Generator. fonts is required: without the font
// asset no image can be produced, so a nil set is a StartupAssetMissing
// error.
func NewGenerator(tmpl Template, fonts *FontSet, opts ...Option) (*Generator, error) {
	if fonts == nil {
		return nil, newError(CodeStartupAssetMissing, "no font set")
	}
	g := &Generator{
		tmpl:   tmpl,
		fonts:  fonts,
		opts:   DefaultRenderOptions(),
		policy: FailOnError,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if _, err := ParseFailurePolicy(string(g.policy)); err != nil {
		return nil, err
	}
	return g, nil
}

// Template returns the template the generator builds trees with.
func (g *Generator) Template() Template { return g.tmpl }

// PostSVG runs the layout and vector stages for p.
func (g *Generator) PostSVG(p content.Post) ([]byte, error) {
	return RenderSVG(g.tmpl.Post(p), g.fonts, g.opts)
}

// SiteSVG runs the layout and vector stages for the site image.
func (g *Generator) SiteSVG() ([]byte, error) {
	return RenderSVG(g.tmpl.SiteTree(), g.fonts, g.opts)
}

// ForPost returns the PNG preview image of p.
func (g *Generator) ForPost(ctx context.Context, p content.Post) ([]byte, error) {
	key := g.key("post", postInputs(p))
	png, err := g.generate(ctx, "post", key, func() *Box { return g.tmpl.Post(p) })
	if err == nil || !pipelineFailure(err) {
		return png, err
	}
	switch g.policy {
	case SkipOnFailure:
		g.metrics.record("post", "skipped")
		g.logger.Warn("skipping post image", "slug", p.Slug, "err", err)
		return nil, fmt.Errorf("%w: post %s: %v", ErrImageSkipped, p.Slug, err)
	case SiteOnFailure:
		g.metrics.record("post", "fallback")
		g.logger.Warn("using site image for post", "slug", p.Slug, "err", err)
		site, serr := g.ForSite(ctx)
		if serr != nil {
			return nil, errors.Join(err, serr)
		}
		return site, nil
	}
	return nil, err
}

// ForSite returns the PNG preview image of the site.
func (g *Generator) ForSite(ctx context.Context) ([]byte, error) {
	key := g.key("site", nil)
	png, err := g.generate(ctx, "site", key, g.tmpl.SiteTree)
	if err != nil && pipelineFailure(err) && g.policy == SkipOnFailure {
		g.metrics.record("site", "skipped")
		return nil, fmt.Errorf("%w: site: %v", ErrImageSkipped, err)
	}
	return png, err
}

// postInputs are the post fields the post template draws.
func postInputs(p content.Post) any {
	return struct {
		Title, Description, Author string
	}{p.Title, p.Description, p.Author}
}

func pipelineFailure(err error) bool {
	return errors.Is(err, ErrRender) || errors.Is(err, ErrDecode)
}

// key hashes everything that influences the rendered bytes.
func (g *Generator) key(kind string, inputs any) string {
	data, _ := json.Marshal(struct {
		Version string
		Kind    string
		Site    SiteInfo
		Font    FontFace
		Digest  string
		Options RenderOptions
		Inputs  any
	}{templateVersion, kind, g.tmpl.Site, g.tmpl.Font, g.fonts.Digest(), g.opts, inputs})
	sum := sha256.Sum256(data)
	return kind + "/" + hex.EncodeToString(sum[:])
}

func (g *Generator) generate(ctx context.Context, kind, key string, build func() *Box) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.cache != nil {
		data, ok, err := g.cache.Get(ctx, key)
		switch {
		case err != nil:
			g.logger.Warn("og cache get failed", "key", key, "err", err)
		case ok:
			g.metrics.record(kind, "cached")
			return data, nil
		}
	}

	// The shared render outlives any one caller; each caller gives up on
	// its own context.
	detached := context.WithoutCancel(ctx)
	ch := g.group.DoChan(key, func() (any, error) {
		return g.render(detached, kind, key, build)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			g.metrics.record(kind, "failed")
			g.metrics.recordError(res.Err)
			return nil, res.Err
		}
		if res.Shared {
			g.metrics.record(kind, "shared")
		}
		return res.Val.([]byte), nil
	}
}

func (g *Generator) render(ctx context.Context, kind, key string, build func() *Box) ([]byte, error) {
	start := time.Now()
	tree := build()
	svg, err := RenderSVG(tree, g.fonts, g.opts)
	if err != nil {
		return nil, err
	}
	png, err := RasterizeSize(svg, g.opts.Width, g.opts.Height)
	if err != nil {
		return nil, err
	}
	g.metrics.observe(kind, time.Since(start).Seconds())
	g.metrics.record(kind, "rendered")

	if g.cache != nil {
		if err := g.cache.Put(ctx, key, png); err != nil {
			g.logger.Warn("og cache put failed", "key", key, "err", err)
		}
	}
	return png, nil
}
