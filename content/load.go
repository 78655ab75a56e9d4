package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ruofeng/sitegen/markdown"
)

// Loader reads posts from a content directory. Files whose name starts with
// an underscore are ignored.
type Loader struct {
	Dir      string
	Author   string         // default author for posts without one
	Location *time.Location // default timezone for frontmatter times
	Markdown *markdown.Renderer
}

// Load parses every Markdown file under l.Dir and returns the posts sorted
// newest first. Drafts and scheduled posts are included; see Filter.
func (l Loader) Load() ([]Post, error) {
	if l.Markdown == nil {
		l.Markdown = markdown.New()
	}
	if l.Location == nil {
		l.Location = time.UTC
	}

	var posts []Post
	seen := make(map[string]string)
	err := filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.Dir && strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), "_") || !isMarkdown(d.Name()) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.Dir, path)
		if err != nil {
			rel = path
		}
		p, err := l.Parse(filepath.ToSlash(rel), data)
		if err != nil {
			return err
		}
		if prev, ok := seen[p.Slug]; ok {
			return fmt.Errorf("content: duplicate slug %q in %s and %s", p.Slug, prev, p.SourcePath)
		}
		seen[p.Slug] = p.SourcePath
		posts = append(posts, p)
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("content: load %s: %w", l.Dir, err)
		}
		return nil, err
	}
	Sort(posts)
	return posts, nil
}

// Parse builds a post from a single Markdown document. name is used for
// error messages and as the slug fallback when the post has no title.
func (l Loader) Parse(name string, data []byte) (Post, error) {
	if l.Markdown == nil {
		l.Markdown = markdown.New()
	}
	if l.Location == nil {
		l.Location = time.UTC
	}

	raw, body, ok := splitFrontmatter(data)
	if !ok {
		return Post{}, &FrontmatterError{Path: name, Err: errors.New("missing frontmatter block")}
	}
	var fm frontmatter
	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return Post{}, &FrontmatterError{Path: name, Err: err}
	}

	loc := l.Location
	if fm.Timezone != "" {
		tz, err := time.LoadLocation(fm.Timezone)
		if err != nil {
			return Post{}, &FrontmatterError{Path: name, Field: "timezone", Err: err}
		}
		loc = tz
	}
	if fm.PubDatetime.isZero() {
		return Post{}, &FrontmatterError{Path: name, Field: "pubDatetime", Err: errors.New("required")}
	}
	pub, err := fm.PubDatetime.parse(loc)
	if err != nil {
		return Post{}, &FrontmatterError{Path: name, Field: "pubDatetime", Err: err}
	}
	var mod *time.Time
	if !fm.ModDatetime.isZero() {
		t, err := fm.ModDatetime.parse(loc)
		if err != nil {
			return Post{}, &FrontmatterError{Path: name, Field: "modDatetime", Err: err}
		}
		mod = &t
	}

	slug := Slugify(fm.Slug)
	if slug == "" {
		slug = Slugify(fm.Title)
	}
	if slug == "" {
		slug = Slugify(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	}

	author := strings.TrimSpace(fm.Author)
	if author == "" {
		author = l.Author
	}
	tags := fm.Tags
	if len(tags) == 0 {
		tags = []string{"others"}
	}

	res, err := l.Markdown.Render(body)
	if err != nil {
		return Post{}, fmt.Errorf("content: render %s: %w", name, err)
	}
	headings := make([]Heading, 0, len(res.Headings))
	for _, h := range res.Headings {
		headings = append(headings, Heading{Level: h.Level, ID: h.ID, Text: h.Text})
	}

	return Post{
		Title:        fm.Title,
		Slug:         slug,
		PubDatetime:  pub,
		ModDatetime:  mod,
		Description:  fm.Description,
		Tags:         tags,
		Author:       author,
		Featured:     fm.Featured,
		Draft:        fm.Draft,
		OGImage:      fm.OGImage,
		CanonicalURL: fm.CanonicalURL,
		HideEditPost: fm.HideEditPost,
		Timezone:     fm.Timezone,
		Body:         string(body),
		HTML:         res.HTML,
		Headings:     headings,
		SourcePath:   name,
	}, nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Sort orders posts newest first by Date, breaking ties by slug.
func Sort(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		di, dj := posts[i].Date(), posts[j].Date()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return posts[i].Slug < posts[j].Slug
	})
}
