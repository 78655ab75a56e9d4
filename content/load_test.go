package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloPost = `---
title: Hello World
description: A first post
pubDatetime: 2024-03-01T10:00:00Z
tags:
  - intro
---
## Intro

Hello.
`

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestParse(t *testing.T) {
	p, err := Loader{Author: "Lei"}.Parse("hello.md", []byte(helloPost))
	require.NoError(t, err)

	assert.Equal(t, "Hello World", p.Title)
	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, "A first post", p.Description)
	assert.Equal(t, []string{"intro"}, p.Tags)
	assert.Equal(t, "Lei", p.Author)
	assert.True(t, p.PubDatetime.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.Nil(t, p.ModDatetime)
	assert.Contains(t, p.HTML, `<h2 id="intro">Intro</h2>`)
	require.Len(t, p.Headings, 1)
	assert.Equal(t, "intro", p.Headings[0].ID)
	assert.Equal(t, "/posts/hello-world/", p.Path())
	assert.Equal(t, "/posts/hello-world/index.png", p.OGImagePath())
}

func TestParseDefaults(t *testing.T) {
	src := "---\ntitle: Untagged\npubDatetime: 2024-01-02\n---\nbody\n"
	p, err := Loader{Author: "Site Author"}.Parse("x.md", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"others"}, p.Tags)
	assert.Equal(t, "Site Author", p.Author)
}

func TestParseExplicitSlugIsSlugified(t *testing.T) {
	src := "---\ntitle: Whatever\nslug: My Custom Slug\npubDatetime: 2024-01-02\n---\n"
	p, err := Loader{}.Parse("x.md", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "my-custom-slug", p.Slug)
}

func TestParseSlugFallsBackToFileName(t *testing.T) {
	src := "---\npubDatetime: 2024-01-02\n---\n"
	p, err := Loader{}.Parse("notes/Some File.md", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "some-file", p.Slug)
	assert.Equal(t, "", p.Title)
}

func TestParseTimezone(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	src := "---\ntitle: T\npubDatetime: 2024-05-01 08:30:00\nmodDatetime: 2024-05-02 09:00\n---\n"
	p, err := Loader{Location: shanghai}.Parse("t.md", []byte(src))
	require.NoError(t, err)
	assert.True(t, p.PubDatetime.Equal(time.Date(2024, 5, 1, 0, 30, 0, 0, time.UTC)))
	require.NotNil(t, p.ModDatetime)
	assert.True(t, p.Modified())
	assert.True(t, p.Date().Equal(*p.ModDatetime))

	src = "---\ntitle: T\ntimezone: UTC\npubDatetime: 2024-05-01 08:30:00\n---\n"
	p, err = Loader{Location: shanghai}.Parse("t.md", []byte(src))
	require.NoError(t, err)
	assert.True(t, p.PubDatetime.Equal(time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"no frontmatter", "# Just markdown\n", ""},
		{"unterminated", "---\ntitle: x\n", ""},
		{"missing pubDatetime", "---\ntitle: x\n---\n", "pubDatetime"},
		{"bad pubDatetime", "---\ntitle: x\npubDatetime: yesterday\n---\n", "pubDatetime"},
		{"bad timezone", "---\ntitle: x\ntimezone: Mars/Base\npubDatetime: 2024-01-01\n---\n", "timezone"},
		{"invalid yaml", "---\ntitle: [x\n---\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Loader{}.Parse("bad.md", []byte(tt.src))
			require.Error(t, err)
			var fe *FrontmatterError
			require.True(t, errors.As(err, &fe), "want FrontmatterError, got %T", err)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, "bad.md", fe.Path)
		})
	}
}

func TestSplitFrontmatterCRLFAndBOM(t *testing.T) {
	fm, body, ok := splitFrontmatter([]byte("\ufeff---\r\ntitle: x\r\n---\r\nbody\r\n"))
	require.True(t, ok)
	assert.Equal(t, "title: x\n", string(fm))
	assert.Equal(t, "body\n", string(body))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hello.md", helloPost)
	writeFile(t, dir, "2024/second.md", "---\ntitle: Second\npubDatetime: 2024-04-01T00:00:00Z\n---\n")
	writeFile(t, dir, "_draft-notes.md", "not a post")
	writeFile(t, dir, "_private/hidden.md", "---\ntitle: Hidden\npubDatetime: 2024-04-01\n---\n")
	writeFile(t, dir, "readme.txt", "ignored")

	posts, err := Loader{Dir: dir}.Load()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Slug)
	assert.Equal(t, "hello-world", posts[1].Slug)
	assert.Equal(t, "2024/second.md", posts[0].SourcePath)
}

func TestLoadDuplicateSlug(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", helloPost)
	writeFile(t, dir, "b.md", helloPost)

	_, err := Loader{Dir: dir}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate slug")
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Loader{Dir: filepath.Join(t.TempDir(), "nope")}.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
