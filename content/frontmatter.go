package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FrontmatterError reports a post whose frontmatter is missing or invalid.
type FrontmatterError struct {
	Path  string
	Field string
	Err   error
}

func (e *FrontmatterError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("content: %s: frontmatter: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("content: %s: frontmatter field %q: %v", e.Path, e.Field, e.Err)
}

func (e *FrontmatterError) Unwrap() error { return e.Err }

type frontmatter struct {
	Author       string    `yaml:"author"`
	PubDatetime  timestamp `yaml:"pubDatetime"`
	ModDatetime  timestamp `yaml:"modDatetime"`
	Title        string    `yaml:"title"`
	Slug         string    `yaml:"slug"`
	Featured     bool      `yaml:"featured"`
	Draft        bool      `yaml:"draft"`
	Tags         []string  `yaml:"tags"`
	OGImage      string    `yaml:"ogImage"`
	Description  string    `yaml:"description"`
	CanonicalURL string    `yaml:"canonicalURL"`
	HideEditPost bool      `yaml:"hideEditPost"`
	Timezone     string    `yaml:"timezone"`
}

// timestamp keeps the scalar text so it can be parsed in the post's own
// timezone once the whole document is decoded.
type timestamp struct {
	raw string
}

func (t *timestamp) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected a timestamp, got %s", kindName(n.Kind))
	}
	t.raw = strings.TrimSpace(n.Value)
	return nil
}

func (t timestamp) isZero() bool { return t.raw == "" }

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func (t timestamp) parse(loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if v, err := time.ParseInLocation(layout, t.raw, loc); err == nil {
			return v, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", t.raw)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

var fence = []byte("---")

// splitFrontmatter separates a leading "---" delimited YAML block from the
// markdown body.
func splitFrontmatter(data []byte) (fm, body []byte, ok bool) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, fence) {
		return nil, data, false
	}
	first := bytes.IndexByte(data, '\n')
	if first < 0 || len(bytes.TrimSpace(data[:first])) != len(fence) {
		return nil, data, false
	}
	rest := data[first+1:]
	for off := 0; off <= len(rest); {
		end := bytes.IndexByte(rest[off:], '\n')
		line := rest[off:]
		if end >= 0 {
			line = rest[off : off+end]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t"), fence) {
			fm = rest[:off]
			if end < 0 {
				return fm, nil, true
			}
			return fm, rest[off+end+1:], true
		}
		if end < 0 {
			break
		}
		off += end + 1
	}
	return nil, data, false
}
