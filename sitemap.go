package sitegen

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ruofeng/sitegen/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists every page route. The archives page only appears
// when it is enabled.
func (a *App) renderSitemap(c echo.Context, posts []content.Post) error {
	lastmod := make(map[string]string, len(posts))
	for _, p := range posts {
		lastmod[p.Path()] = p.Date().UTC().Format(time.RFC3339)
	}
	var urls []sitemapURL
	for _, r := range a.Routes(posts) {
		if r.Kind != RoutePage {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     a.absURL(r.Path),
			LastMod: lastmod[r.Path],
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
