// Package goldmark renders markdown to HTML using github.com/yuin/goldmark.
package goldmark

import (
	"bytes"

	"github.com/fwojciec/kavach"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Ensure Renderer implements kavach.MarkdownRenderer at compile time.
var _ kavach.MarkdownRenderer = (*Renderer)(nil)

// Renderer wraps goldmark to convert Markdown to HTML.
// Raw HTML in the input is omitted from the output.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a new Renderer with GitHub Flavored Markdown enabled.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &Renderer{md: md}
}

// Render transforms Markdown content into HTML.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
