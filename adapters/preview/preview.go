package preview

import (
	"fmt"
	"html"
	"strings"

	"docgen/domain/render"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTML converts a rendered text artifact into an HTML preview. A non-empty
// unresolved-reference list becomes a warning banner above the document, so
// missing data stays visible to the reviewer without failing the preview.
func HTML(rendered string, unresolved []render.UnresolvedReference) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	opts := mdhtml.RendererOptions{Flags: mdhtml.CommonFlags}
	body := markdown.ToHTML([]byte(rendered), p, mdhtml.NewRenderer(opts))

	if len(unresolved) == 0 {
		return body
	}
	return append([]byte(warningBanner(unresolved)), body...)
}

func warningBanner(unresolved []render.UnresolvedReference) string {
	var b strings.Builder
	b.WriteString(`<div class="render-warnings">`)
	fmt.Fprintf(&b, "<p>%d placeholder(s) could not be resolved:</p><ul>", len(unresolved))
	for _, ref := range unresolved {
		fmt.Fprintf(&b, "<li><code>%s</code> (offset %d)</li>", html.EscapeString(ref.Path), ref.Location)
	}
	b.WriteString("</ul></div>\n")
	return b.String()
}
