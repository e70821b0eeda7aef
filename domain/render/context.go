package render

import (
	"sort"
	"strings"
	"time"

	"docgen/domain/mapping"
)

// Context is the tree every template expression resolves against. It is
// built once per model and never mutated afterwards.
type Context map[string]any

// Nest splits dotted keys into nested maps, merging overlapping prefixes so
// "program.title" and "program.date" share one "program" node.
func Nest(flat map[string]any) Context {
	root := Context{}

	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		segments := strings.Split(key, ".")
		node := map[string]any(root)
		for _, segment := range segments[:len(segments)-1] {
			child, ok := node[segment].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[segment] = child
			}
			node = child
		}
		node[segments[len(segments)-1]] = flat[key]
	}
	return root
}

// BuildContext flattens a canonical model to dotted keys and nests them into
// a render context. Sequences stay ordered; every nested mapping is
// normalized to map[string]any so path resolution needs a single shape.
func BuildContext(model mapping.CanonicalDocumentModel) Context {
	flat := make(map[string]any)

	for key, value := range model.ProgramInfo {
		flat["program_info."+key] = value
	}
	for key, value := range model.Attendance {
		flat["attendance."+key] = value
	}

	participants := make([]any, 0, len(model.Participants))
	for _, p := range model.Participants {
		entry := make(map[string]any, len(p))
		for k, v := range p {
			entry[k] = v
		}
		participants = append(participants, entry)
	}
	flat["participants"] = participants

	for section, metrics := range model.Evaluation {
		for metric, dist := range metrics {
			for rating, count := range dist {
				flat["evaluation."+section+"."+metric+"."+rating] = count
			}
		}
	}

	for day, entries := range model.Tentative {
		converted := make([]any, 0, len(entries))
		for _, e := range entries {
			converted = append(converted, map[string]any{
				"time":        e.Time,
				"activity":    e.Activity,
				"description": e.Description,
				"handler":     e.Handler,
			})
		}
		flat["tentative."+day] = converted
	}

	for category, texts := range model.Suggestions {
		converted := make([]any, 0, len(texts))
		for _, t := range texts {
			converted = append(converted, t)
		}
		flat["suggestions."+category] = converted
	}

	flat["metadata.source_file"] = model.Metadata.SourceFile
	if !model.Metadata.ExtractedAt.IsZero() {
		flat["metadata.extracted_at"] = model.Metadata.ExtractedAt.Format(time.RFC3339)
	}
	sheets := make([]any, 0, len(model.Metadata.Sheets))
	for _, s := range model.Metadata.Sheets {
		sheets = append(sheets, s)
	}
	flat["metadata.sheets"] = sheets

	return Nest(flat)
}

// Resolve walks a dotted path through the context tree.
func (c Context) Resolve(path string) (any, bool) {
	var value any = map[string]any(c)
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
