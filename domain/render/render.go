package render

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"docgen/domain/core"
)

// UnresolvedReference records an expression the renderer could not resolve.
// These are collected and returned, never raised and never dropped.
type UnresolvedReference struct {
	Path     string `json:"path"`
	Location int    `json:"location"` // byte offset of the tag in the template
}

var (
	renderExprRe = regexp.MustCompile(`\{\{\s*([^{}%]+?)\s*\}\}`)
	renderCtrlRe = regexp.MustCompile(`\{%\s*([^%]+?)\s*%\}`)
)

type node any

type textNode struct {
	text string
}

type exprNode struct {
	path   string
	raw    string // original tag source, emitted verbatim when unresolved
	offset int
}

type forNode struct {
	varName  string
	path     string
	body     []node
	offset   int
	srcStart int
	srcEnd   int
}

type ifNode struct {
	path   string
	body   []node
	offset int
}

// Render evaluates a DialectB-normalized template against the context.
// Expressions that do not resolve are emitted verbatim into the output and
// reported in the returned diagnostics; callers wanting strict behavior can
// fail when the list is non-empty.
func Render(text string, ctx Context) (string, []UnresolvedReference, error) {
	nodes, err := parse(text)
	if err != nil {
		return "", nil, err
	}

	r := &renderer{src: text, ctx: ctx}
	var b strings.Builder
	r.eval(&b, nodes, nil)
	return b.String(), r.unresolved, nil
}

type renderer struct {
	src        string
	ctx        Context
	unresolved []UnresolvedReference
}

// locals is the loop-variable scope chain, innermost last.
type locals []map[string]any

func (r *renderer) eval(b *strings.Builder, nodes []node, scope locals) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *textNode:
			b.WriteString(n.text)
		case *exprNode:
			value, ok := r.resolve(n.path, scope)
			if !ok {
				b.WriteString(n.raw)
				r.unresolved = append(r.unresolved, UnresolvedReference{Path: n.path, Location: n.offset})
				continue
			}
			b.WriteString(formatValue(value))
		case *ifNode:
			value, ok := r.resolve(n.path, scope)
			if !ok {
				r.unresolved = append(r.unresolved, UnresolvedReference{Path: n.path, Location: n.offset})
				continue
			}
			if truthy(value) {
				r.eval(b, n.body, scope)
			}
		case *forNode:
			value, ok := r.resolve(n.path, scope)
			if !ok {
				// The whole block stays visible in the artifact, with one
				// diagnostic for the loop path.
				b.WriteString(r.src[n.srcStart:n.srcEnd])
				r.unresolved = append(r.unresolved, UnresolvedReference{Path: n.path, Location: n.offset})
				continue
			}
			for _, element := range asSequence(value) {
				r.eval(b, n.body, append(scope, map[string]any{n.varName: element}))
			}
		}
	}
}

// resolve looks the path's root up in the loop scopes, innermost first, then
// falls back to the root context. Inner bindings shadow outer ones.
func (r *renderer) resolve(path string, scope locals) (any, bool) {
	root, rest, qualified := strings.Cut(path, ".")
	for i := len(scope) - 1; i >= 0; i-- {
		value, ok := scope[i][root]
		if !ok {
			continue
		}
		if !qualified {
			return value, true
		}
		return resolveIn(value, rest)
	}
	return r.ctx.Resolve(path)
}

func resolveIn(value any, path string) (any, bool) {
	for _, segment := range strings.Split(path, ".") {
		node, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return value, true
}

// asSequence iterates resolved loop targets. Maps iterate their values in
// sorted key order; a scalar target evaluates the body once.
func asSequence(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		elements := make([]any, 0, len(v))
		for _, key := range keys {
			elements = append(elements, v[key])
		}
		return elements
	default:
		return []any{value}
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// parse builds the node tree for the control-tag subset the renderer
// evaluates: for/endfor, if/endif, and interpolation tags.
func parse(text string) ([]node, error) {
	type tag struct {
		start, end int
		content    string
		control    bool
	}

	var tags []tag
	for _, m := range renderCtrlRe.FindAllStringSubmatchIndex(text, -1) {
		tags = append(tags, tag{start: m[0], end: m[1], content: strings.TrimSpace(text[m[2]:m[3]]), control: true})
	}
	for _, m := range renderExprRe.FindAllStringSubmatchIndex(text, -1) {
		tags = append(tags, tag{start: m[0], end: m[1], content: strings.TrimSpace(text[m[2]:m[3]])})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].start < tags[j].start })

	root := []node{}
	stack := []*[]node{&root}
	var open []node // open for/if nodes matching the stack tail
	last := 0

	appendNode := func(n node) {
		top := stack[len(stack)-1]
		*top = append(*top, n)
	}

	for _, t := range tags {
		if t.start > last {
			appendNode(&textNode{text: text[last:t.start]})
		}
		last = t.end

		if !t.control {
			appendNode(&exprNode{path: t.content, raw: text[t.start:t.end], offset: t.start})
			continue
		}

		fields := strings.Fields(t.content)
		switch fields[0] {
		case "for":
			if len(fields) != 4 || fields[2] != "in" {
				return nil, fmt.Errorf("malformed for tag %q at offset %d", text[t.start:t.end], t.start)
			}
			n := &forNode{varName: fields[1], path: fields[3], offset: t.start, srcStart: t.start}
			appendNode(n)
			stack = append(stack, &n.body)
			open = append(open, n)
		case "if":
			if len(fields) != 2 {
				return nil, fmt.Errorf("malformed if tag %q at offset %d", text[t.start:t.end], t.start)
			}
			n := &ifNode{path: fields[1], offset: t.start}
			appendNode(n)
			stack = append(stack, &n.body)
			open = append(open, n)
		case "endfor":
			if len(open) == 0 {
				return nil, core.NewUnbalancedSectionError("endfor without matching for", t.start)
			}
			n, ok := open[len(open)-1].(*forNode)
			if !ok {
				return nil, core.NewUnbalancedSectionError("endfor closes an if block", t.start)
			}
			n.srcEnd = t.end
			open = open[:len(open)-1]
			stack = stack[:len(stack)-1]
		case "endif":
			if len(open) == 0 {
				return nil, core.NewUnbalancedSectionError("endif without matching if", t.start)
			}
			if _, ok := open[len(open)-1].(*ifNode); !ok {
				return nil, core.NewUnbalancedSectionError("endif closes a for block", t.start)
			}
			open = open[:len(open)-1]
			stack = stack[:len(stack)-1]
		default:
			return nil, fmt.Errorf("unsupported control tag %q at offset %d", text[t.start:t.end], t.start)
		}
	}

	if len(open) > 0 {
		switch n := open[len(open)-1].(type) {
		case *forNode:
			return nil, core.NewUnbalancedSectionError("for without matching endfor", n.offset)
		case *ifNode:
			return nil, core.NewUnbalancedSectionError("if without matching endif", n.offset)
		}
	}

	if last < len(text) {
		appendNode(&textNode{text: text[last:]})
	}
	return root, nil
}
