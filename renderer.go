package kavach

// MarkdownRenderer converts markdown into HTML for display in a browser.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}
