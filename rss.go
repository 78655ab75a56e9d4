package sitegen

import (
	"encoding/xml"
	"html"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/ruofeng/sitegen/content"
)

// feedPolicy reduces descriptions to plain text.
var feedPolicy = bluemonday.StrictPolicy()

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

func (a *App) renderRSS(c echo.Context, posts []content.Post) error {
	items := make([]rssItem, 0, len(posts))
	var latest time.Time
	for _, p := range posts {
		postURL := a.absURL(p.Path())
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: plainText(p.Description),
			PubDate:     p.Date().Format(time.RFC1123Z),
			GUID:        postURL,
			Categories:  p.Tags,
		})
		if p.Date().After(latest) {
			latest = p.Date()
		}
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Title,
			Link:        a.absURL("/"),
			Description: a.Config.Description,
			Language:    a.Config.Lang,
			Items:       items,
		},
	}
	if !latest.IsZero() {
		feed.Channel.LastBuildDate = latest.Format(time.RFC1123Z)
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

func plainText(s string) string {
	return html.UnescapeString(feedPolicy.Sanitize(s))
}
