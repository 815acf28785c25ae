// Package markdown converts CommonMark post bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// wordsPerMinute is the reading speed used for the estimated reading time.
const wordsPerMinute = 200

// Renderer converts markdown to HTML. It is safe for concurrent use and
// deterministic: the same source always yields the same output.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GFM extensions, auto heading IDs and
// inline-styled syntax highlighting for fenced code blocks. Raw HTML in
// markdown stays disabled.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github-dark"),
					highlighting.WithFormatOptions(
						chromahtml.TabWidth(4),
					),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Render converts src to HTML.
func (r *Renderer) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// WordCount counts whitespace-separated words in the markdown source.
func WordCount(src []byte) int {
	return len(strings.Fields(string(src)))
}

// ReadingMinutes estimates reading time for the markdown source, never less
// than one minute.
func ReadingMinutes(src []byte) int {
	minutes := (WordCount(src) + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
