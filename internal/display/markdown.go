package display

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	mdOnce     sync.Once
	mdRenderer *glamour.TermRenderer
)

// Markdown renders assistant text as terminal markdown. Falls back to the
// raw text when the renderer cannot be built or rendering fails.
func Markdown(text string) string {
	mdOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
			glamour.WithEmoji(),
		)
		if err == nil {
			mdRenderer = r
		}
	})
	if mdRenderer == nil {
		return text
	}
	out, err := mdRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}
