package sitegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"
	_ "time/tzdata"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ruofeng/sitegen/content"
	"github.com/ruofeng/sitegen/redirects"
)

type buildKey struct{}

// withBuild marks ctx as belonging to a static build request.
func withBuild(ctx context.Context) context.Context {
	return context.WithValue(ctx, buildKey{}, true)
}

// isBuild reports whether the request was issued by Build. Such requests
// are neither logged, counted, nor rate-limited.
func isBuild(c echo.Context) bool {
	v, _ := c.Request().Context().Value(buildKey{}).(bool)
	return v
}

// Routes returns every route of the site for the given published posts, in
// a stable order. Paths served by more than one route appear once.
func (a *App) Routes(posts []content.Post) []Route {
	per := a.Config.PostPerPage
	var routes []Route
	seen := make(map[string]bool)
	add := func(p string, kind RouteKind) {
		if !seen[p] {
			seen[p] = true
			routes = append(routes, Route{Path: p, Kind: kind})
		}
	}

	add("/", RoutePage)
	add("/posts/", RoutePage)
	for n := 2; n <= content.PageCount(len(posts), per); n++ {
		add(pageURL("/posts/", n), RoutePage)
	}
	for _, p := range posts {
		add(p.Path(), RoutePage)
	}
	add("/tags/", RoutePage)
	for _, t := range content.UniqueTags(posts) {
		prefix := "/tags/" + t.Slug + "/"
		add(prefix, RoutePage)
		for n := 2; n <= content.PageCount(t.Count, per); n++ {
			add(pageURL(prefix, n), RoutePage)
		}
	}
	if a.Config.ShowArchives {
		add("/archives/", RoutePage)
	}

	add("/rss.xml", RouteFile)
	add("/sitemap.xml", RouteFile)
	add("/robots.txt", RouteFile)
	if _, err := os.Stat(filepath.Join(a.Config.PublicDir, "favicon.svg")); err == nil {
		add("/favicon.svg", RouteFile)
	}

	if a.Config.DynamicOGImage || a.Config.OGImage != "" {
		add("/og.png", RouteImage)
	}
	if a.Config.DynamicOGImage {
		for _, p := range posts {
			if p.OGImage == "" {
				add(p.OGImagePath(), RouteImage)
			}
		}
	}
	add("/404.html", RouteNotFound)
	return routes
}

// Build writes the whole site to outDir: every route through the same
// handlers that serve it, redirect stubs for the redirect table, and a copy
// of the public directory. Routes are rendered concurrently.
func (a *App) Build(ctx context.Context, outDir string) error {
	start := time.Now()
	a.Posts.Invalidate()
	posts, err := a.PublishedPosts()
	if err != nil {
		return fmt.Errorf("sitegen: build: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("sitegen: build: %w", err)
	}

	routes := a.Routes(posts)
	var written, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, r := range routes {
		g.Go(func() error {
			ok, err := a.buildRoute(gctx, outDir, r)
			if err != nil {
				return err
			}
			if ok {
				written.Add(1)
			} else {
				skipped.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stubs, err := a.writeRedirectStubs(outDir, routes)
	if err != nil {
		return err
	}
	if err := copyDir(a.Config.PublicDir, filepath.Join(outDir, "public")); err != nil {
		return fmt.Errorf("sitegen: build: copy public: %w", err)
	}

	a.Logger.Info("build complete",
		"out", outDir,
		"posts", len(posts),
		"files", written.Load(),
		"skipped", skipped.Load(),
		"redirects", stubs,
		"took", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// buildRoute renders r and writes it below outDir. It reports false for a
// skipped image.
func (a *App) buildRoute(ctx context.Context, outDir string, r Route) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	target := (&url.URL{Path: r.Path}).EscapedPath()
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(withBuild(ctx))
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	switch {
	case r.Kind == RouteNotFound && rec.Code == http.StatusNotFound:
	case r.Kind == RouteImage && rec.Code == http.StatusNotFound:
		a.Logger.Warn("image skipped", "path", r.Path)
		return false, nil
	case rec.Code != http.StatusOK:
		return false, fmt.Errorf("sitegen: build %s: status %d", r.Path, rec.Code)
	}

	if err := writeFile(filepath.Join(outDir, filepath.FromSlash(r.OutputPath())), rec.Body.Bytes()); err != nil {
		return false, fmt.Errorf("sitegen: build %s: %w", r.Path, err)
	}
	a.Logger.Debug("wrote", "path", r.Path)
	return true, nil
}

// writeRedirectStubs writes a meta-refresh page at every redirect source
// that no route already occupies.
func (a *App) writeRedirectStubs(outDir string, routes []Route) (int, error) {
	taken := make(map[string]bool, len(routes))
	for _, r := range routes {
		taken[r.OutputPath()] = true
	}
	n := 0
	for _, e := range a.Redirects.Entries() {
		rel := (Route{Path: path.Clean(e.From) + "/"}).OutputPath()
		if taken[rel] {
			a.Logger.Warn("redirect shadows a page; stub not written", "from", e.From, "to", e.To)
			continue
		}
		if err := writeFile(filepath.Join(outDir, filepath.FromSlash(rel)), redirects.Stub(e.From, e.To, a.Config.Website)); err != nil {
			return n, fmt.Errorf("sitegen: build redirect %s: %w", e.From, err)
		}
		n++
	}
	return n, nil
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}

// copyDir copies the regular files below src into dst. A missing src is
// not an error.
func copyDir(src, dst string) error {
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(p, target)
	})
	if errors.Is(err, fs.ErrNotExist) {
		if _, serr := os.Stat(src); errors.Is(serr, fs.ErrNotExist) {
			return nil
		}
	}
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
