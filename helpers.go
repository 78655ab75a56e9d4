package sitegen

import (
	"path"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ruofeng/sitegen/content"
	"github.com/ruofeng/sitegen/views"
)

// site returns the site settings shared by every page.
func (a *App) site() views.Site {
	cfg := a.Config
	return views.Site{
		Title:            cfg.Title,
		Description:      cfg.Description,
		Author:           cfg.Author,
		Profile:          cfg.Profile,
		URL:              cfg.Website,
		Lang:             cfg.Lang,
		Dir:              cfg.Dir,
		LightAndDarkMode: cfg.LightAndDarkMode,
		ShowArchives:     cfg.ShowArchives,
		ShowBackButton:   cfg.ShowBackButton,
		EditPost: views.EditPost{
			Enabled: cfg.EditPost.Enabled,
			Text:    cfg.EditPost.Text,
			URL:     cfg.EditPost.URL,
		},
		GoogleSiteVerification: cfg.GoogleSiteVerification,
	}
}

// base fills the page metadata defaults: site title and description, the
// site image, and a canonical URL built from the request path.
func (a *App) base(c echo.Context, meta views.PageMeta) views.Base {
	site := a.site()
	if meta.Title == "" {
		meta.Title = site.Title
	} else {
		meta.Title = meta.Title + " | " + site.Title
	}
	if meta.Description == "" {
		meta.Description = site.Description
	}
	if meta.Author == "" {
		meta.Author = site.Author
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}
	if meta.OGImage == "" {
		meta.OGImage = a.siteImageURL()
	}
	if meta.URL == "" {
		meta.URL = a.absURL(c.Request().URL.Path)
	}
	return views.Base{Site: site, Meta: meta, Theme: a.theme(c)}
}

// absURL resolves a site path against the configured website.
func (a *App) absURL(p string) string {
	return views.Absolute(a.Config.Website, p)
}

// siteImageURL returns the absolute URL of the site preview image, or ""
// when the site has none.
func (a *App) siteImageURL() string {
	if !a.Config.DynamicOGImage && a.Config.OGImage == "" {
		return ""
	}
	return a.absURL("/og.png")
}

// postImageURL returns the absolute URL of the preview image of p.
func (a *App) postImageURL(p content.Post) string {
	switch {
	case p.OGImage != "":
		return a.absURL(p.OGImage)
	case a.Config.DynamicOGImage:
		return a.absURL(p.OGImagePath())
	}
	return a.siteImageURL()
}

// editURL returns the "edit page" link of p, or "" when disabled.
func (a *App) editURL(p content.Post) string {
	if !a.Config.EditPost.Enabled || p.HideEditPost || a.Config.EditPost.URL == "" {
		return ""
	}
	return a.Config.EditPost.URL + path.Join(a.Config.ContentDir, p.SourcePath)
}

// pageURL returns the path of page n of a listing rooted at prefix. Page 1
// is the prefix itself.
func pageURL(prefix string, n int) string {
	if n <= 1 {
		return prefix
	}
	return prefix + strconv.Itoa(n) + "/"
}

// neighbours returns the previous and next page paths of page.
func neighbours(prefix string, page content.Page) (prev, next string) {
	if page.HasPrev() {
		prev = pageURL(prefix, page.Number-1)
	}
	if page.HasNext() {
		next = pageURL(prefix, page.Number+1)
	}
	return prev, next
}

// pageNumber parses a listing page number: a positive decimal without
// leading zeros.
func pageNumber(s string) (int, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
