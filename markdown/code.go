package markdown

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var (
	reNotation = regexp.MustCompile(`\s*(?://|#|--|;|%|/\*|<!--)\s*\[!code\s+(highlight|hl|\+\+|--|focus|word:[^\]]+)\]\s*(?:\*/|-->)?\s*$`)
	reFileMeta = regexp.MustCompile(`(?:file|title)=(?:"([^"]*)"|'([^']*)')`)
)

// codeLine is a source line with its notation-derived classes.
type codeLine struct {
	text    string
	classes []string
}

// parseNotations strips [!code ...] comments from lines and returns the
// cleaned lines plus the words to highlight across the block.
func parseNotations(lines []string) ([]codeLine, []string) {
	out := make([]codeLine, 0, len(lines))
	var words []string
	for _, l := range lines {
		m := reNotation.FindStringSubmatchIndex(l)
		if m == nil {
			out = append(out, codeLine{text: l})
			continue
		}
		kind := l[m[2]:m[3]]
		text := l[:m[0]]
		var classes []string
		switch {
		case kind == "highlight" || kind == "hl":
			classes = []string{"highlighted"}
		case kind == "++":
			classes = []string{"diff", "add"}
		case kind == "--":
			classes = []string{"diff", "remove"}
		case kind == "focus":
			classes = []string{"focused"}
		case strings.HasPrefix(kind, "word:"):
			if w := strings.TrimSpace(strings.TrimPrefix(kind, "word:")); w != "" {
				words = append(words, w)
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
		}
		out = append(out, codeLine{text: text, classes: classes})
	}
	return out, words
}

// fileName extracts file="..." or title="..." from a fence info string.
func fileName(info string) string {
	m := reFileMeta.FindStringSubmatch(info)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

type codeRenderer struct{}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFenced)
	reg.Register(ast.KindCodeBlock, r.renderIndented)
}

func (r *codeRenderer) renderFenced(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := string(n.Language(source))
	info := ""
	if n.Info != nil {
		info = string(n.Info.Segment.Value(source))
	}
	return ast.WalkSkipChildren, writeCode(w, lang, fileName(info), blockLines(n, source))
}

func (r *codeRenderer) renderIndented(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	return ast.WalkSkipChildren, writeCode(w, "", "", blockLines(node, source))
}

func blockLines(n ast.Node, source []byte) []string {
	segs := n.Lines()
	lines := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		lines = append(lines, strings.TrimRight(string(seg.Value(source)), "\n"))
	}
	return lines
}

func writeCode(w io.Writer, lang, file string, raw []string) error {
	lines, words := parseNotations(raw)

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.text
	}
	it, err := lexer.Tokenise(nil, strings.Join(texts, "\n")+"\n")
	if err != nil {
		return fmt.Errorf("markdown: tokenise %s: %w", lang, err)
	}
	tokenLines := chroma.SplitTokensIntoLines(it.Tokens())

	var b strings.Builder
	b.WriteString(`<figure class="code-block"`)
	if lang != "" {
		fmt.Fprintf(&b, ` data-language="%s"`, html.EscapeString(lang))
	}
	b.WriteString(">")
	if file != "" {
		fmt.Fprintf(&b, `<figcaption class="code-filename">%s</figcaption>`, html.EscapeString(file))
	}
	b.WriteString(`<pre class="chroma"><code>`)
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(`<span class="line`)
		for _, c := range l.classes {
			b.WriteByte(' ')
			b.WriteString(c)
		}
		b.WriteString(`">`)
		if i < len(tokenLines) {
			for _, tok := range tokenLines[i] {
				writeToken(&b, tok, words)
			}
		}
		b.WriteString("</span>")
	}
	b.WriteString("</code></pre></figure>\n")
	_, err = io.WriteString(w, b.String())
	return err
}

func writeToken(b *strings.Builder, tok chroma.Token, words []string) {
	value := strings.TrimRight(tok.Value, "\n")
	if value == "" {
		return
	}
	escaped := html.EscapeString(value)
	for _, word := range words {
		ew := html.EscapeString(word)
		escaped = strings.ReplaceAll(escaped, ew, `<span class="highlighted-word">`+ew+`</span>`)
	}
	class := tokenClass(tok.Type)
	if class == "" {
		b.WriteString(escaped)
		return
	}
	fmt.Fprintf(b, `<span class="%s">%s</span>`, class, escaped)
}

func tokenClass(t chroma.TokenType) string {
	if t == chroma.Text || t == chroma.Background {
		return ""
	}
	for _, tt := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if cls, ok := chroma.StandardTypes[tt]; ok && cls != "" {
			return cls
		}
	}
	return ""
}

func writeStyleCSS(w io.Writer, name string) error {
	style := styles.Get(name)
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(w, style); err != nil {
		return fmt.Errorf("markdown: write %s css: %w", name, err)
	}
	return nil
}
