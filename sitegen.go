// Package sitegen is a static blog generator built with Go, Echo, and templ.
// It renders Markdown posts into pages, generates Open Graph preview images,
// serves tag pages, archives, RSS, and sitemap, and writes the whole site to
// a directory for static hosting.
//
// The same Echo handlers answer live requests (serve) and produce the files
// of a static build, so both outputs always agree.
package sitegen

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ruofeng/sitegen/content"
	"github.com/ruofeng/sitegen/imagecache"
	"github.com/ruofeng/sitegen/markdown"
	"github.com/ruofeng/sitegen/ogimage"
	"github.com/ruofeng/sitegen/redirects"
	"github.com/ruofeng/sitegen/views"
)

// App is the central sitegen application. It wires together the content
// cache, the image generator, handlers, middleware, and page templates.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Logger    *log.Logger
	Posts     *PostCache
	Generator *ogimage.Generator
	Redirects *redirects.Table
	Views     *views.Views
	Registry  *prometheus.Registry

	loc          *time.Location
	now          func() time.Time
	imageCache   imagecache.Backend
	limiter      *RenderLimiter
	metrics      *httpMetrics
	customRoutes []func(*App)
}

// New validates cfg, loads the font asset and the content, and sets up
// middleware and routes. It fails when the font asset is missing
// (ogimage.ErrStartupAssetMissing) or the content cannot be loaded.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Registry: prometheus.NewRegistry(),
		now:      time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = log.Default()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a.loc = loc

	policy, err := ogimage.ParseFailurePolicy(cfg.OGFailurePolicy)
	if err != nil {
		return nil, fmt.Errorf("sitegen: %w", err)
	}

	md := markdown.New(markdown.WithThemes(cfg.HighlightLight, cfg.HighlightDark))
	css, err := md.CSS()
	if err != nil {
		return nil, fmt.Errorf("sitegen: highlight styles: %w", err)
	}
	if a.Views, err = views.New(views.Options{Location: loc, CSS: css}); err != nil {
		return nil, fmt.Errorf("sitegen: %w", err)
	}

	fonts, err := ogimage.LoadFontSet(cfg.FontPath, cfg.FontFace())
	if err != nil {
		return nil, err
	}

	if a.imageCache == nil {
		if a.imageCache, err = openImageCache(cfg); err != nil {
			return nil, err
		}
	}
	tmpl := ogimage.Template{
		Site: ogimage.SiteInfo{Title: cfg.Title, Description: cfg.Description, URL: cfg.Website},
		Font: cfg.FontFace(),
	}
	a.Generator, err = ogimage.NewGenerator(tmpl, fonts,
		ogimage.WithCache(a.imageCache),
		ogimage.WithFailurePolicy(policy),
		ogimage.WithMetrics(ogimage.NewMetrics(a.Registry)),
		ogimage.WithLogger(a.Logger.WithPrefix("og")),
	)
	if err != nil {
		a.imageCache.Close()
		return nil, err
	}

	a.Posts = NewPostCache(content.Loader{
		Dir:      cfg.ContentDir,
		Author:   cfg.Author,
		Location: loc,
		Markdown: md,
	}, cfg.PostCacheTTL)
	a.Posts.OnReloadError = func(err error) {
		a.Logger.Error("reloading content failed; serving previous posts", "err", err)
	}
	posts, err := a.Posts.All()
	if err != nil {
		a.imageCache.Close()
		return nil, fmt.Errorf("sitegen: load content: %w", err)
	}

	a.Redirects = redirects.Legacy()
	if cfg.DateRedirects {
		a.Redirects = a.Redirects.Merge(redirects.FromPosts(posts, loc))
	}

	if cfg.LightAndDarkMode && a.Config.SessionSecret == "" {
		a.Logger.Warn("no session secret configured; theme preferences will not survive a restart")
		a.Config.SessionSecret = rand.Text()
	}

	a.limiter = NewRenderLimiter(cfg.RenderRate, time.Minute)
	a.metrics = newHTTPMetrics(a.Registry)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// openImageCache builds the tiered image cache: memory, then the SQLite
// file unless CachePath is "-", then Redis when configured.
func openImageCache(cfg SiteConfig) (imagecache.Backend, error) {
	mem, err := imagecache.NewMemory(imagecache.DefaultMemoryEntries)
	if err != nil {
		return nil, err
	}
	tiers := []imagecache.Backend{mem}
	if cfg.CachePath != "-" {
		disk, err := imagecache.OpenSQLite(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("sitegen: init image cache: %w", err)
		}
		tiers = append(tiers, disk)
	}
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shared, err := imagecache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			imagecache.NewTiered(tiers...).Close()
			return nil, fmt.Errorf("sitegen: init image cache: %w", err)
		}
		tiers = append(tiers, shared)
	}
	return imagecache.NewTiered(tiers...), nil
}

// Start runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func (a *App) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		a.Logger.Info("serving", "addr", a.Config.Addr, "site", a.Config.Website)
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("sitegen: shutdown: %w", err)
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.imageCache != nil {
		return a.imageCache.Close()
	}
	return nil
}

// Location returns the site timezone.
func (a *App) Location() *time.Location {
	return a.loc
}

// PublishedPosts returns the posts visible on the site, newest first:
// drafts and posts scheduled beyond the margin are left out.
func (a *App) PublishedPosts() ([]content.Post, error) {
	all, err := a.Posts.All()
	if err != nil {
		return nil, err
	}
	return content.Filter(all, a.now(), a.Config.ScheduledPostMargin, a.Config.Dev), nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
