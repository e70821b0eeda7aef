package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"docgen/domain/core"
)

var exprTagRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][\w.]*)\s*\}\}`)

// Translate rewrites every DialectA section span into a DialectB loop,
// leaving pre-existing DialectB tags untouched. Each nesting level gets a
// distinct loop variable; bare field references inside a loop body are
// qualified with that level's variable (inner binding shadows outer scope),
// and item/this/section-name aliases are renamed to the same variable.
// Unbalanced section tags are fatal: a half-translated document is worse
// than a rejected one.
func Translate(text string) (string, error) {
	return translatePart(text, 1, "", "", 0)
}

// sectionSpan is one top-level {{#name}}...{{/name}} pair within a body.
type sectionSpan struct {
	name       string
	openStart  int
	openEnd    int
	closeStart int
	closeEnd   int
}

func translatePart(text string, depth int, loopVar, sectionName string, base int) (string, error) {
	spans, err := topLevelSections(text, base)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	last := 0
	for _, span := range spans {
		b.WriteString(rewriteExprs(text[last:span.openStart], loopVar, sectionName))

		v := loopVarName(depth)
		body, err := translatePart(text[span.openEnd:span.closeStart], depth+1, v, span.name, base+span.openEnd)
		if err != nil {
			return "", err
		}

		b.WriteString("{% for ")
		b.WriteString(v)
		b.WriteString(" in ")
		b.WriteString(rewritePath(span.name, loopVar, sectionName))
		b.WriteString(" %}")
		b.WriteString(body)
		b.WriteString("{% endfor %}")

		last = span.closeEnd
	}
	b.WriteString(rewriteExprs(text[last:], loopVar, sectionName))
	return b.String(), nil
}

// loopVarName assigns the canonical loop variable for a nesting level, so
// outer and inner bindings never collide.
func loopVarName(depth int) string {
	if depth == 1 {
		return "item"
	}
	return fmt.Sprintf("item%d", depth)
}

// topLevelSections pairs open and close tags at nesting depth zero of the
// given body. Offsets in errors are absolute within the original template.
func topLevelSections(text string, base int) ([]sectionSpan, error) {
	type tag struct {
		name       string
		start, end int
		open       bool
	}

	var tags []tag
	for _, m := range sectionOpenRe.FindAllStringSubmatchIndex(text, -1) {
		tags = append(tags, tag{name: text[m[2]:m[3]], start: m[0], end: m[1], open: true})
	}
	for _, m := range sectionCloseRe.FindAllStringSubmatchIndex(text, -1) {
		tags = append(tags, tag{name: text[m[2]:m[3]], start: m[0], end: m[1]})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].start < tags[j].start })

	var spans []sectionSpan
	var stack []tag
	for _, t := range tags {
		if t.open {
			stack = append(stack, t)
			continue
		}
		if len(stack) == 0 {
			return nil, core.NewUnbalancedSectionError(fmt.Sprintf("{{/%s}} without matching open", t.name), base+t.start)
		}
		top := stack[len(stack)-1]
		if top.name != t.name {
			return nil, core.NewUnbalancedSectionError(fmt.Sprintf("{{/%s}} closes {{#%s}}", t.name, top.name), base+t.start)
		}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			spans = append(spans, sectionSpan{
				name:       top.name,
				openStart:  top.start,
				openEnd:    top.end,
				closeStart: t.start,
				closeEnd:   t.end,
			})
		}
	}
	if len(stack) > 0 {
		open := stack[0]
		return nil, core.NewUnbalancedSectionError(fmt.Sprintf("{{#%s}} without matching close", open.name), base+open.start)
	}
	return spans, nil
}

// rewriteExprs qualifies bare {{ expr }} tags in a plain segment against the
// current loop variable. Pre-existing control tags pass through untouched.
func rewriteExprs(segment, loopVar, sectionName string) string {
	if loopVar == "" {
		return segment
	}
	return exprTagRe.ReplaceAllStringFunc(segment, func(tag string) string {
		path := exprTagRe.FindStringSubmatch(tag)[1]
		return "{{ " + rewritePath(path, loopVar, sectionName) + " }}"
	})
}

// rewritePath applies the shadowing rules for one dotted reference inside a
// loop body: bare names bind to the loop element, loop aliases are renamed
// to the canonical variable, and already-qualified outer paths are left
// alone.
func rewritePath(path, loopVar, sectionName string) string {
	if loopVar == "" {
		return path
	}
	root, rest, qualified := strings.Cut(path, ".")
	switch {
	case root == loopVar:
		return path
	case root == "item" || root == "this":
		if qualified {
			return loopVar + "." + rest
		}
		return loopVar
	case qualified && sectionName != "" && root == sectionName:
		return loopVar + "." + rest
	case !qualified:
		return loopVar + "." + path
	default:
		return path
	}
}
