package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, src string) Result {
	t.Helper()
	res, err := New().Render([]byte(src))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return res
}

func TestRenderInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"~~gone~~", "<del>gone</del>"},
		{"[link](https://example.com)", `<a href="https://example.com">link</a>`},
		{"`code`", "<code>code</code>"},
	}
	for _, tt := range tests {
		got := render(t, tt.input).HTML
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Render(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderHeadingsCollected(t *testing.T) {
	res := render(t, "# Title\n\n## First Section\n\ntext\n\n### Sub Part\n\n## Second\n")
	if len(res.Headings) != 4 {
		t.Fatalf("Headings = %d, want 4: %+v", len(res.Headings), res.Headings)
	}
	if res.Headings[1].Text != "First Section" || res.Headings[1].Level != 2 {
		t.Errorf("Headings[1] = %+v, want level 2 %q", res.Headings[1], "First Section")
	}
	if res.Headings[1].ID != "first-section" {
		t.Errorf("Headings[1].ID = %q, want %q", res.Headings[1].ID, "first-section")
	}
	if !strings.Contains(res.HTML, `<h2 id="first-section">`) {
		t.Errorf("heading should carry its id: %q", res.HTML)
	}
}

func TestTableOfContents(t *testing.T) {
	src := strings.Join([]string{
		"Intro paragraph.",
		"",
		"## Table of contents",
		"",
		"placeholder that gets replaced",
		"",
		"## Setup",
		"",
		"### Install",
		"",
		"## Usage",
		"",
	}, "\n")
	got := render(t, src).HTML

	if !strings.Contains(got, "<details><summary>Open Table of contents</summary>") {
		t.Fatalf("toc should be collapsed into details: %q", got)
	}
	if strings.Contains(got, "placeholder that gets replaced") {
		t.Errorf("content under the toc heading should be replaced: %q", got)
	}
	for _, href := range []string{`href="#setup"`, `href="#install"`, `href="#usage"`} {
		if !strings.Contains(got, href) {
			t.Errorf("toc missing %s: %q", href, got)
		}
	}
	// Install is nested below Setup.
	setup := strings.Index(got, `href="#setup"`)
	nested := strings.Index(got[setup:], "<ul>")
	usage := strings.Index(got[setup:], `href="#usage"`)
	if nested < 0 || nested > usage {
		t.Errorf("sub-heading should be in a nested list: %q", got)
	}
	if strings.Contains(got, `href="#table-of-contents"`) {
		t.Errorf("toc should not link to itself: %q", got)
	}
}

func TestTableOfContentsOptions(t *testing.T) {
	r := New(WithTOCHeading("Contents"), WithTOCDepth(2, 2))
	res, err := r.Render([]byte("## Contents\n\n## Setup\n\n### Install\n"))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(res.HTML, "<summary>Open Contents</summary>") {
		t.Fatalf("toc should use the configured heading: %q", res.HTML)
	}
	if !strings.Contains(res.HTML, `href="#setup"`) {
		t.Errorf("toc missing #setup: %q", res.HTML)
	}
	if strings.Contains(res.HTML, `href="#install"`) {
		t.Errorf("h3 should be outside the configured depth: %q", res.HTML)
	}
}

func TestNoTableOfContentsWithoutHeading(t *testing.T) {
	got := render(t, "## One\n\n## Two\n").HTML
	if strings.Contains(got, "<details>") {
		t.Errorf("no toc expected without the heading: %q", got)
	}
}

func TestCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```go\nfmt.Println(\"hello\")\n```").HTML
	if !strings.Contains(got, `data-language="go"`) {
		t.Errorf("code block should carry its language: %q", got)
	}
	if !strings.Contains(got, `<pre class="chroma"><code>`) {
		t.Errorf("code block should use the chroma wrapper: %q", got)
	}
	if !strings.Contains(got, `<span class="line">`) {
		t.Errorf("code block should be split into lines: %q", got)
	}
	if !strings.Contains(got, "&#34;hello&#34;") && !strings.Contains(got, "&quot;hello&quot;") {
		t.Errorf("string literal should be escaped: %q", got)
	}
}

func TestCodeBlockWithoutLanguage(t *testing.T) {
	got := render(t, "```\nplain <code>\n```").HTML
	if strings.Contains(got, "data-language") {
		t.Errorf("code block without language should not declare one: %q", got)
	}
	if !strings.Contains(got, "plain &lt;code&gt;") {
		t.Errorf("code should be escaped: %q", got)
	}
}

func TestCodeBlockFileName(t *testing.T) {
	got := render(t, "```js file=\"app.js\"\nconst a = 1;\n```").HTML
	if !strings.Contains(got, `<figcaption class="code-filename">app.js</figcaption>`) {
		t.Errorf("code block should show its file name: %q", got)
	}
}

func TestCodeNotations(t *testing.T) {
	src := "```js\n" +
		"const a = 1; // [!code highlight]\n" +
		"const b = 2; // [!code ++]\n" +
		"const c = 3; // [!code --]\n" +
		"// [!code word:answer]\n" +
		"const answer = 42;\n" +
		"```"
	got := render(t, src).HTML

	if strings.Contains(got, "[!code") {
		t.Errorf("notations should be stripped: %q", got)
	}
	for _, want := range []string{
		`<span class="line highlighted">`,
		`<span class="line diff add">`,
		`<span class="line diff remove">`,
		`<span class="highlighted-word">answer</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in %q", want, got)
		}
	}
	if n := strings.Count(got, `<span class="line`); n != 4 {
		t.Errorf("line count = %d, want 4 (word notation line dropped)", n)
	}
}

func TestParseNotations(t *testing.T) {
	lines, words := parseNotations([]string{
		"x := 1 // [!code hl]",
		"# [!code word:foo]",
		"plain",
	})
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].text != "x := 1" || len(lines[0].classes) != 1 || lines[0].classes[0] != "highlighted" {
		t.Errorf("lines[0] = %+v", lines[0])
	}
	if len(words) != 1 || words[0] != "foo" {
		t.Errorf("words = %v, want [foo]", words)
	}
}

func TestRawHTMLAllowed(t *testing.T) {
	got := render(t, "<div class=\"note\">hi</div>\n").HTML
	if !strings.Contains(got, `<div class="note">hi</div>`) {
		t.Errorf("raw html should pass through: %q", got)
	}
}

func TestCSSIncludesBothThemes(t *testing.T) {
	css, err := New().CSS()
	if err != nil {
		t.Fatalf("CSS failed: %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("css should style the chroma wrapper")
	}
	if !strings.Contains(css, `html[data-theme="dark"] {`) {
		t.Errorf("css should nest the dark theme")
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Markdown("# Hi").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<h1") {
		t.Errorf("component output = %q", buf.String())
	}
}
