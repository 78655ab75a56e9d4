package redirects

import (
	"time"

	"github.com/ruofeng/sitegen/content"
)

// DatePath returns the date-based permalink of p: /YYYY/MM/DD/<slug> with
// the date taken in loc.
func DatePath(p content.Post, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return "/" + p.PubDatetime.In(loc).Format("2006/01/02") + "/" + p.Slug
}

// FromPosts derives a redirect from each post's date-based permalink to
// /posts/<slug>. Posts sharing a permalink keep the first one.
func FromPosts(posts []content.Post, loc *time.Location) *Table {
	t := &Table{m: make(map[string]string, len(posts))}
	for _, p := range posts {
		if p.Slug == "" {
			continue
		}
		from := DatePath(p, loc)
		if _, ok := t.m[from]; ok {
			continue
		}
		t.m[from] = "/posts/" + p.Slug
	}
	return t
}
