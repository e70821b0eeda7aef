package render

import (
	"testing"

	"docgen/domain/core"
	"docgen/domain/mapping"
	"docgen/domain/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNestMergesDottedPrefixes(t *testing.T) {
	ctx := Nest(map[string]any{
		"program.title": "Program X",
		"program.date":  "12 Mac 2024",
		"count":         3.0,
	})

	program, ok := ctx["program"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Program X", program["title"])
	assert.Equal(t, "12 Mac 2024", program["date"])
	assert.Equal(t, 3.0, ctx["count"])
}

func TestResolveDottedPath(t *testing.T) {
	ctx := Nest(map[string]any{"a.b.c": "deep"})

	value, ok := ctx.Resolve("a.b.c")
	require.True(t, ok)
	assert.Equal(t, "deep", value)

	_, ok = ctx.Resolve("a.b.missing")
	assert.False(t, ok)
	_, ok = ctx.Resolve("a.b.c.too.far")
	assert.False(t, ok)
}

func TestRenderInterpolation(t *testing.T) {
	ctx := Nest(map[string]any{"program.title": "Program X"})

	out, unresolved, err := Render("# {{ program.title }}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "# Program X", out)
	assert.Empty(t, unresolved)
}

func TestRenderUnresolvedTagStaysVerbatim(t *testing.T) {
	out, unresolved, err := Render("before {{missing.field}} after", Context{})
	require.NoError(t, err)
	assert.Equal(t, "before {{missing.field}} after", out)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "missing.field", unresolved[0].Path)
	assert.Equal(t, 7, unresolved[0].Location)
}

func TestRenderLoopInElementOrder(t *testing.T) {
	ctx := Context{"items": []any{
		map[string]any{"name": "X"},
		map[string]any{"name": "Y"},
	}}

	out, unresolved, err := Render("{% for item in items %}{{ item.name }}{% endfor %}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "XY", out)
	assert.Empty(t, unresolved)
}

func TestTranslatedSectionRoundTrip(t *testing.T) {
	normalized, err := template.Translate("{{#items}}{{name}}{{/items}}")
	require.NoError(t, err)

	ctx := Context{"items": []any{
		map[string]any{"name": "X"},
		map[string]any{"name": "Y"},
	}}
	out, unresolved, err := Render(normalized, ctx)
	require.NoError(t, err)
	assert.Equal(t, "XY", out)
	assert.Empty(t, unresolved)
}

func TestRenderLoopShadowsOuterBinding(t *testing.T) {
	ctx := Context{
		"name": "outer",
		"items": []any{
			map[string]any{"name": "inner"},
		},
	}

	out, _, err := Render("{% for item in items %}{{ item.name }}{% endfor %} {{ name }}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "inner outer", out)
}

func TestRenderLoopOverMissingCollectionEmitsBlockVerbatim(t *testing.T) {
	src := "{% for item in nope %}x {{ item.name }}{% endfor %}"
	out, unresolved, err := Render(src, Context{})
	require.NoError(t, err)
	assert.Equal(t, src, out)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "nope", unresolved[0].Path)
}

func TestRenderUnresolvedInsideLoopRecordsEachIteration(t *testing.T) {
	ctx := Context{"items": []any{
		map[string]any{"name": "X"},
		map[string]any{},
	}}

	out, unresolved, err := Render("{% for item in items %}{{ item.name }}{% endfor %}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "X{{ item.name }}", out)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "item.name", unresolved[0].Path)
}

func TestRenderIf(t *testing.T) {
	ctx := Nest(map[string]any{"program.title": "X", "program.empty": ""})

	out, _, err := Render("{% if program.title %}has title{% endif %}{% if program.empty %}never{% endif %}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "has title", out)
}

func TestRenderIfUnresolvedConditionSkipsBody(t *testing.T) {
	out, unresolved, err := Render("{% if nope %}body{% endif %}", Context{})
	require.NoError(t, err)
	assert.Equal(t, "", out)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "nope", unresolved[0].Path)
}

func TestRenderUnbalancedControlTags(t *testing.T) {
	_, _, err := Render("{% for item in items %}x", Context{})
	require.Error(t, err)
	assert.True(t, core.IsUnbalancedSectionTags(err))

	_, _, err = Render("x{% endfor %}", Context{})
	require.Error(t, err)
	assert.True(t, core.IsUnbalancedSectionTags(err))
}

func TestRenderFormatsNumbersWithoutTrailingZeros(t *testing.T) {
	ctx := Context{"count": 42.0, "ratio": 2.5}

	out, _, err := Render("{{ count }} {{ ratio }}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "42 2.5", out)
}

func TestBuildContextFromModel(t *testing.T) {
	model := mapping.NewEmptyModel()
	model.ProgramInfo[mapping.FieldTitle] = "Program X"
	model.Participants = append(model.Participants, map[string]any{"name": "Ali", "score": 85.0})
	model.Tentative["Hari 1"] = []mapping.ScheduleEntry{{Time: "0900", Activity: "Pendaftaran"}}
	model.Suggestions["participants"] = []string{"More breaks"}
	model.Metadata.SourceFile = "report.xlsx"

	ctx := BuildContext(model)

	title, ok := ctx.Resolve("program_info.title")
	require.True(t, ok)
	assert.Equal(t, "Program X", title)

	participants, ok := ctx.Resolve("participants")
	require.True(t, ok)
	require.Len(t, participants.([]any), 1)

	entry, ok := ctx.Resolve("tentative.Hari 1")
	require.True(t, ok)
	assert.Equal(t, "Pendaftaran", entry.([]any)[0].(map[string]any)["activity"])

	source, ok := ctx.Resolve("metadata.source_file")
	require.True(t, ok)
	assert.Equal(t, "report.xlsx", source)
}
