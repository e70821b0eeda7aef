package template

import "regexp"

// Dialect identifies the templating tag family a template uses.
type Dialect int

const (
	// PlainText has no control structures, at most bare {{ expr }} tags.
	PlainText Dialect = iota
	// DialectA marks loops with {{#name}}...{{/name}} section pairs and has
	// no native control-flow keywords.
	DialectA
	// DialectB uses explicit {% for %}/{% endfor %} and {% if %}/{% endif %}
	// control tags plus {{ expr }} interpolation.
	DialectB
	// Mixed templates contain both tag families.
	Mixed
)

func (d Dialect) String() string {
	switch d {
	case DialectA:
		return "dialect_a"
	case DialectB:
		return "dialect_b"
	case Mixed:
		return "mixed"
	default:
		return "plain_text"
	}
}

var (
	sectionOpenRe  = regexp.MustCompile(`\{\{#\s*([A-Za-z_][\w.]*)\s*\}\}`)
	sectionCloseRe = regexp.MustCompile(`\{\{/\s*([A-Za-z_][\w.]*)\s*\}\}`)
	controlTagRe   = regexp.MustCompile(`\{%[^%]*%\}`)
)

// Detect classifies a template by counting DialectA section markers against
// DialectB control tags. Detection is idempotent over Translate output:
// a fully translated template contains control tags only and reports
// DialectB, never Mixed.
func Detect(text string) Dialect {
	sections := len(sectionOpenRe.FindAllString(text, -1)) + len(sectionCloseRe.FindAllString(text, -1))
	controls := len(controlTagRe.FindAllString(text, -1))

	switch {
	case sections > 0 && controls > 0:
		return Mixed
	case sections > 0:
		return DialectA
	case controls > 0:
		return DialectB
	default:
		return PlainText
	}
}
