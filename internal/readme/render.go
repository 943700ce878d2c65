// ABOUTME: Markdown to HTML conversion for resolved README content
// ABOUTME: Thin wrapper over goldmark

package readme

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// Render converts raw README markdown into render-ready HTML.
func Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}
