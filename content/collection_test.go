package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(slug string, pub time.Time, tags ...string) Post {
	return Post{Title: slug, Slug: slug, PubDatetime: pub, Tags: tags}
}

func slugs(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestFilter(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	draft := post("draft", now.Add(-time.Hour))
	draft.Draft = true
	posts := []Post{
		post("past", now.Add(-24*time.Hour)),
		post("within-margin", now.Add(10*time.Minute)),
		post("scheduled", now.Add(time.Hour)),
		draft,
	}

	got := Filter(posts, now, 15*time.Minute, false)
	assert.Equal(t, []string{"past", "within-margin"}, slugs(got))

	got = Filter(posts, now, 15*time.Minute, true)
	assert.Equal(t, []string{"past", "within-margin", "scheduled"}, slugs(got))
}

func TestSortByModifiedThenPublished(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mod := base.Add(72 * time.Hour)
	a := post("a", base)
	a.ModDatetime = &mod
	posts := []Post{post("b", base.Add(24*time.Hour)), a, post("c", base.Add(24*time.Hour))}

	Sort(posts)
	assert.Equal(t, []string{"a", "b", "c"}, slugs(posts))
}

func TestFeaturedAndRecent(t *testing.T) {
	base := time.Now()
	f := post("featured", base)
	f.Featured = true
	posts := []Post{f, post("one", base), post("two", base), post("three", base)}

	assert.Equal(t, []string{"featured"}, slugs(Featured(posts)))
	assert.Equal(t, []string{"one", "two"}, slugs(Recent(posts, 2)))
	assert.Len(t, Recent(posts, 0), 3)
}

func TestUniqueTagsAndPostsByTag(t *testing.T) {
	base := time.Now()
	posts := []Post{
		post("a", base, "Go", "Web Dev"),
		post("b", base, "go", "go"),
		post("c", base, "web-dev"),
	}

	tags := UniqueTags(posts)
	require.Len(t, tags, 2)
	assert.Equal(t, Tag{Slug: "go", Name: "Go", Count: 2}, tags[0])
	assert.Equal(t, Tag{Slug: "web-dev", Name: "Web Dev", Count: 2}, tags[1])

	assert.Equal(t, []string{"a", "c"}, slugs(PostsByTag(posts, "web-dev")))
	assert.Empty(t, PostsByTag(posts, "rust"))
}

func TestFindAndAdjacent(t *testing.T) {
	base := time.Now()
	posts := []Post{post("new", base), post("mid", base), post("old", base)}

	p, err := Find(posts, "mid")
	require.NoError(t, err)
	assert.Equal(t, "mid", p.Slug)

	_, err = Find(posts, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	newer, older := Adjacent(posts, "mid")
	require.NotNil(t, newer)
	require.NotNil(t, older)
	assert.Equal(t, "new", newer.Slug)
	assert.Equal(t, "old", older.Slug)

	newer, older = Adjacent(posts, "new")
	assert.Nil(t, newer)
	assert.Equal(t, "mid", older.Slug)
}

func TestPaginate(t *testing.T) {
	base := time.Now()
	var posts []Post
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		posts = append(posts, post(s, base))
	}

	tests := []struct {
		number int
		ok     bool
		want   []string
	}{
		{1, true, []string{"a", "b"}},
		{3, true, []string{"e"}},
		{0, false, nil},
		{4, false, nil},
	}
	for _, tt := range tests {
		page, ok := Paginate(posts, 2, tt.number)
		assert.Equal(t, tt.ok, ok, "page %d", tt.number)
		if !ok {
			continue
		}
		assert.Equal(t, tt.want, slugs(page.Posts))
		assert.Equal(t, 3, page.TotalPages)
	}

	page, ok := Paginate(posts, 2, 2)
	require.True(t, ok)
	assert.True(t, page.HasPrev())
	assert.True(t, page.HasNext())

	page, ok = Paginate(nil, 10, 1)
	require.True(t, ok)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasNext())

	assert.Equal(t, 3, PageCount(5, 2))
	assert.Equal(t, 1, PageCount(0, 10))
}

func TestArchive(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	posts := []Post{
		post("jan-2023", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)),
		// 2023-12-31 20:00 UTC is already January in Shanghai.
		post("new-year", time.Date(2023, 12, 31, 20, 0, 0, 0, time.UTC)),
		post("mar-2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	years := Archive(posts, shanghai)
	require.Len(t, years, 2)
	assert.Equal(t, 2024, years[0].Year)
	require.Len(t, years[0].Months, 2)
	assert.Equal(t, time.March, years[0].Months[0].Month)
	assert.Equal(t, time.January, years[0].Months[1].Month)
	assert.Equal(t, "new-year", years[0].Months[1].Posts[0].Slug)
	assert.Equal(t, 2023, years[1].Year)
}
