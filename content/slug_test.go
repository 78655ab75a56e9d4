package content

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Go's   Memory Model!  ", "go-s-memory-model"},
		{"LRU Cache", "lru-cache"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"", ""},
		{"C++ & Rust", "c-rust"},
		{"Año Nuevo", "año-nuevo"},
		{"中文 标题", "中文-标题"},
		{"v1.2.3", "v1-2-3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.input), "Slugify(%q)", tt.input)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	f := func(s string) bool {
		once := Slugify(s)
		return Slugify(once) == once
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestSlugifyNoEdgeHyphens(t *testing.T) {
	f := func(s string) bool {
		out := Slugify(s)
		if out == "" {
			return true
		}
		return out[0] != '-' && out[len(out)-1] != '-'
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
