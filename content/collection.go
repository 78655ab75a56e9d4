package content

import (
	"sort"
	"time"
)

// Filter drops drafts and, unless dev is set, posts whose publish time is
// still more than margin in the future.
func Filter(posts []Post, now time.Time, margin time.Duration, dev bool) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Draft {
			continue
		}
		if !dev && p.PubDatetime.Add(-margin).After(now) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Featured returns the featured posts in their current order.
func Featured(posts []Post) []Post {
	var out []Post
	for _, p := range posts {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Recent returns up to n non-featured posts in their current order.
func Recent(posts []Post, n int) []Post {
	var out []Post
	for _, p := range posts {
		if p.Featured {
			continue
		}
		if n > 0 && len(out) == n {
			break
		}
		out = append(out, p)
	}
	return out
}

// Tag is a tag as shown on tag pages.
type Tag struct {
	Slug  string
	Name  string
	Count int
}

// UniqueTags returns one entry per tag slug sorted by slug. The display name
// is the first spelling encountered.
func UniqueTags(posts []Post) []Tag {
	idx := make(map[string]int)
	var tags []Tag
	for _, p := range posts {
		seen := make(map[string]struct{})
		for _, t := range p.Tags {
			slug := Slugify(t)
			if slug == "" {
				continue
			}
			if _, dup := seen[slug]; dup {
				continue
			}
			seen[slug] = struct{}{}
			if i, ok := idx[slug]; ok {
				tags[i].Count++
				continue
			}
			idx[slug] = len(tags)
			tags = append(tags, Tag{Slug: slug, Name: t, Count: 1})
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Slug < tags[j].Slug })
	return tags
}

// PostsByTag returns the posts carrying the tag with the given slug.
func PostsByTag(posts []Post, tagSlug string) []Post {
	var out []Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if Slugify(t) == tagSlug {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Find returns the post with the given slug.
func Find(posts []Post, slug string) (Post, error) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Adjacent returns the newer and older neighbours of the post with the
// given slug in posts (which must be sorted newest first).
func Adjacent(posts []Post, slug string) (newer, older *Post) {
	for i := range posts {
		if posts[i].Slug != slug {
			continue
		}
		if i > 0 {
			newer = &posts[i-1]
		}
		if i+1 < len(posts) {
			older = &posts[i+1]
		}
		return newer, older
	}
	return nil, nil
}

// Page is one page of a paginated listing. Number is 1-based.
type Page struct {
	Posts      []Post
	Number     int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Paginate returns page number (1-based) of posts split into pages of
// perPage. ok is false when the page does not exist. An empty list has a
// single empty page.
func Paginate(posts []Post, perPage, number int) (page Page, ok bool) {
	if perPage <= 0 {
		perPage = len(posts)
		if perPage == 0 {
			perPage = 1
		}
	}
	total := (len(posts) + perPage - 1) / perPage
	if total == 0 {
		total = 1
	}
	if number < 1 || number > total {
		return Page{}, false
	}
	start := (number - 1) * perPage
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}
	return Page{Posts: posts[start:end], Number: number, TotalPages: total}, true
}

// PageCount returns the number of pages Paginate produces.
func PageCount(n, perPage int) int {
	if perPage <= 0 || n == 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// YearGroup is a year's worth of posts for the archives page.
type YearGroup struct {
	Year   int
	Months []MonthGroup
}

// MonthGroup holds the posts of one month, newest first.
type MonthGroup struct {
	Month time.Month
	Posts []Post
}

// Archive groups posts by publish year and month in loc, newest first.
func Archive(posts []Post, loc *time.Location) []YearGroup {
	if loc == nil {
		loc = time.UTC
	}
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PubDatetime.After(sorted[j].PubDatetime)
	})
	var years []YearGroup
	for _, p := range sorted {
		t := p.PubDatetime.In(loc)
		if len(years) == 0 || years[len(years)-1].Year != t.Year() {
			years = append(years, YearGroup{Year: t.Year()})
		}
		y := &years[len(years)-1]
		if len(y.Months) == 0 || y.Months[len(y.Months)-1].Month != t.Month() {
			y.Months = append(y.Months, MonthGroup{Month: t.Month()})
		}
		m := &y.Months[len(y.Months)-1]
		m.Posts = append(m.Posts, p)
	}
	return years
}
