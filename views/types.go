package views

import (
	"time"

	"github.com/ruofeng/sitegen/content"
)

// Site holds the site-wide settings every page template reads.
type Site struct {
	Title       string
	Description string
	Author      string
	Profile     string
	URL         string // canonical base URL
	Lang        string
	Dir         string

	LightAndDarkMode bool
	ShowArchives     bool
	ShowBackButton   bool
	EditPost         EditPost

	GoogleSiteVerification string
}

// EditPost configures the "edit page" link on posts.
type EditPost struct {
	Enabled bool
	Text    string
	URL     string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	OGImage     string // absolute image URL
	Author      string
	Published   time.Time
	Modified    time.Time
	JSONLD      string
	NoIndex     bool
}

// Base is embedded in the data of every page.
type Base struct {
	Site  Site
	Meta  PageMeta
	Theme string // "light" or "dark"
}

// HomePage is the data of the index page.
type HomePage struct {
	Base
	Featured []content.Post
	Recent   []content.Post
}

// ListPage is a paginated list of posts: /posts/ and the per-tag lists.
type ListPage struct {
	Base
	Heading string
	Intro   string
	Page    content.Page
	PrevURL string
	NextURL string
}

// PostPage is a single post.
type PostPage struct {
	Base
	Post    content.Post
	Newer   *content.Post
	Older   *content.Post
	EditURL string
}

// TagsPage lists every tag.
type TagsPage struct {
	Base
	Tags []content.Tag
}

// ArchivesPage lists every post grouped by year and month.
type ArchivesPage struct {
	Base
	Years []content.YearGroup
}

// ErrorPage is shown for 404 and 5xx responses.
type ErrorPage struct {
	Base
	Code    int
	Heading string
	Message string
}
