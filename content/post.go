// Package content loads blog posts from a directory of Markdown files with
// YAML frontmatter and provides the collection helpers the site pages use:
// filtering, sorting, tags, and pagination.
package content

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("content: post not found")

// Post is a single blog entry. Posts are immutable once loaded.
type Post struct {
	Title        string
	Slug         string
	PubDatetime  time.Time
	ModDatetime  *time.Time
	Description  string
	Tags         []string
	Author       string
	Featured     bool
	Draft        bool
	OGImage      string // explicit image path; disables generation for this post
	CanonicalURL string
	HideEditPost bool
	Timezone     string

	Body       string    // raw markdown
	HTML       string    // rendered body
	Headings   []Heading // h2..h4, in document order
	SourcePath string    // path relative to the content directory
}

// Heading is a section heading of a rendered post.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Date returns the modification time when set, else the publish time.
func (p Post) Date() time.Time {
	if p.ModDatetime != nil && !p.ModDatetime.IsZero() {
		return *p.ModDatetime
	}
	return p.PubDatetime
}

// Modified reports whether the post carries a modification time later than
// its publish time.
func (p Post) Modified() bool {
	return p.ModDatetime != nil && p.ModDatetime.After(p.PubDatetime)
}

// Path returns the site-relative URL path of the post page.
func (p Post) Path() string {
	return "/posts/" + p.Slug + "/"
}

// OGImagePath returns the site-relative path of the post's preview image.
func (p Post) OGImagePath() string {
	if p.OGImage != "" {
		return p.OGImage
	}
	return "/posts/" + p.Slug + "/index.png"
}
