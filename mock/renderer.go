package mock

import "github.com/fwojciec/kavach"

var _ kavach.MarkdownRenderer = (*MarkdownRenderer)(nil)

// MarkdownRenderer is a mock implementation of kavach.MarkdownRenderer.
type MarkdownRenderer struct {
	RenderFn func(markdown string) (string, error)
}

func (r *MarkdownRenderer) Render(markdown string) (string, error) {
	return r.RenderFn(markdown)
}
