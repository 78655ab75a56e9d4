package sitegen

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/ruofeng/sitegen/content"
	"github.com/ruofeng/sitegen/ogimage"
	"github.com/ruofeng/sitegen/views"
)

func (a *App) setupRoutes() {
	e := a.Echo
	images := a.limiter.Middleware()

	e.Static("/public", a.Config.PublicDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/rss.xml", a.handleRSS)
	e.GET("/og.png", a.handleSiteImage, images)
	e.GET("/metrics", a.handleMetrics())

	e.GET("/", a.handleHome)
	e.GET("/posts/", a.handlePosts)
	e.GET("/posts/:slug/", a.handlePost)
	e.GET("/posts/:slug/index.png", a.handlePostImage, images)
	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/tags/:tag/:n/", a.handleTag)
	if a.Config.ShowArchives {
		e.GET("/archives/", a.handleArchives)
	}
	e.POST("/theme/", a.handleTheme)
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.PublishedPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(views.HomePage{
		Base: a.base(c, views.PageMeta{
			JSONLD: views.WebsiteJSONLD(a.site()),
		}),
		Featured: content.Featured(posts),
		Recent:   content.Recent(posts, a.Config.PostPerIndex),
	}))
}

func (a *App) handlePosts(c echo.Context) error {
	posts, err := a.PublishedPosts()
	if err != nil {
		return err
	}
	return a.renderPostList(c, posts, 1)
}

func (a *App) renderPostList(c echo.Context, posts []content.Post, n int) error {
	if n == 1 && c.Request().URL.Path != "/posts/" {
		return c.Redirect(http.StatusMovedPermanently, "/posts/")
	}
	page, ok := content.Paginate(posts, a.Config.PostPerPage, n)
	if !ok {
		return echo.ErrNotFound
	}
	prev, next := neighbours("/posts/", page)
	return Render(c, a.Views.List(views.ListPage{
		Base:    a.base(c, views.PageMeta{Title: "Posts", Description: "All the articles I've posted."}),
		Heading: "Posts",
		Intro:   "All the articles I've posted.",
		Page:    page,
		PrevURL: prev,
		NextURL: next,
	}))
}

// handlePost serves /posts/<slug>/. The same pattern carries the listing
// pages /posts/<n>/; a post whose slug is a number wins over the page.
func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	posts, err := a.PublishedPosts()
	if err != nil {
		return err
	}
	post, err := content.Find(posts, slug)
	if errors.Is(err, content.ErrNotFound) {
		if n, ok := pageNumber(slug); ok {
			return a.renderPostList(c, posts, n)
		}
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}

	image := a.postImageURL(post)
	meta := views.PageMeta{
		Title:       post.Title,
		Description: post.Description,
		URL:         post.CanonicalURL,
		OGType:      "article",
		OGImage:     image,
		Author:      post.Author,
		Published:   post.PubDatetime,
		JSONLD:      views.BlogPostingJSONLD(a.site(), post, image),
	}
	if post.Modified() {
		meta.Modified = *post.ModDatetime
	}
	newer, older := content.Adjacent(posts, slug)
	return Render(c, a.Views.Post(views.PostPage{
		Base:    a.base(c, meta),
		Post:    post,
		Newer:   newer,
		Older:   older,
		EditURL: a.editURL(post),
	}))
}

func (a *App) handlePostImage(c echo.Context) error {
	posts, err := a.PublishedPosts()
	if err != nil {
		return err
	}
	post, err := content.Find(posts, c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	if post.OGImage != "" || !a.Config.DynamicOGImage {
		return echo.ErrNotFound
	}
	png, err := a.Generator.ForPost(c.Request().Context(), post)
	if errors.Is(err, ogimage.ErrImageSkipped) {
		return echo.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("sitegen: image for %s: %w", post.Slug, err)
	}
	return renderPNG(c, png)
}

func (a *App) handleSiteImage(c echo.Context) error {
	var (
		png []byte
		err error
	)
	switch {
	case a.Config.DynamicOGImage:
		png, err = a.Generator.ForSite(c.Request().Context())
	case a.Config.OGImage != "":
		png, err = a.staticSiteImage()
	default:
		return echo.ErrNotFound
	}
	if errors.Is(err, ogimage.ErrImageSkipped) {
		return echo.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("sitegen: site image: %w", err)
	}
	return renderPNG(c, png)
}

func (a *App) handleTags(c echo.Context) error {
	posts, err := a.PublishedPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Tags(views.TagsPage{
		Base: a.base(c, views.PageMeta{Title: "Tags", Description: "All the tags used in posts."}),
		Tags: content.UniqueTags(posts),
	}))
}

// handleTag serves /tags/<tag>/ and its later pages /tags/<tag>/<n>/.
func (a *App) handleTag(c echo.Context) error {
	posts, err := a.PublishedPosts()
	if err != nil {
		return err
	}
	slug := c.Param("tag")
	tagged := content.PostsByTag(posts, slug)
	if len(tagged) == 0 {
		return echo.ErrNotFound
	}
	name := slug
	for _, t := range content.UniqueTags(tagged) {
		if t.Slug == slug {
			name = t.Name
			break
		}
	}

	prefix := "/tags/" + slug + "/"
	n := 1
	if raw := c.Param("n"); raw != "" {
		var ok bool
		if n, ok = pageNumber(raw); !ok {
			return echo.ErrNotFound
		}
		if n == 1 {
			return c.Redirect(http.StatusMovedPermanently, prefix)
		}
	}
	page, ok := content.Paginate(tagged, a.Config.PostPerPage, n)
	if !ok {
		return echo.ErrNotFound
	}
	prev, next := neighbours(prefix, page)
	intro := fmt.Sprintf("All the articles with the tag %q.", name)
	return Render(c, a.Views.List(views.ListPage{
		Base:    a.base(c, views.PageMeta{Title: "Tag: " + name, Description: intro}),
		Heading: "Tag: " + name,
		Intro:   intro,
		Page:    page,
		PrevURL: prev,
		NextURL: next,
	}))
}

func (a *App) handleArchives(c echo.Context) error {
	posts, err := a.PublishedPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Archives(views.ArchivesPage{
		Base:  a.base(c, views.PageMeta{Title: "Archives", Description: "All the articles I've archived."}),
		Years: content.Archive(posts, a.loc),
	}))
}

func (a *App) handleRSS(c echo.Context) error {
	posts, err := a.PublishedPosts()
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.PublishedPosts()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\n\nSitemap: "+a.absURL("/sitemap.xml")+"\n")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.PublicDir, "favicon.svg"))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderError(c, http.StatusNotFound, "Page Not Found", "")
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "err", err)
		_ = a.renderError(c, code, "Something went wrong", "")
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
