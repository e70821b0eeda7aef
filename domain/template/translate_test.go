package template

import (
	"testing"

	"docgen/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateSimpleSection(t *testing.T) {
	out, err := Translate("{{#items}}{{name}}{{/items}}")
	require.NoError(t, err)
	assert.Equal(t, "{% for item in items %}{{ item.name }}{% endfor %}", out)
}

func TestTranslateKeepsSurroundingTextAndOuterRefs(t *testing.T) {
	out, err := Translate("Title: {{program_info.title}}\n{{#items}}- {{name}}\n{{/items}}Done")
	require.NoError(t, err)
	assert.Equal(t, "Title: {{program_info.title}}\n{% for item in items %}- {{ item.name }}\n{% endfor %}Done", out)
}

func TestTranslateNestedSectionsGetDistinctLoopVariables(t *testing.T) {
	out, err := Translate("{{#days}}{{label}}{{#sessions}}{{topic}} by {{item.speaker}}{{/sessions}}{{/days}}")
	require.NoError(t, err)
	assert.Equal(t,
		"{% for item in days %}{{ item.label }}{% for item2 in item.sessions %}{{ item2.topic }} by {{ item2.speaker }}{% endfor %}{% endfor %}",
		out)
}

func TestTranslateRenamesLoopAliasesConsistently(t *testing.T) {
	out, err := Translate("{{#participants}}{{this.name}} {{participants.score}}{{/participants}}")
	require.NoError(t, err)
	assert.Equal(t, "{% for item in participants %}{{ item.name }} {{ item.score }}{% endfor %}", out)
}

func TestTranslateLeavesQualifiedOuterPathsAlone(t *testing.T) {
	out, err := Translate("{{#items}}{{name}} of {{program_info.title}}{{/items}}")
	require.NoError(t, err)
	assert.Equal(t, "{% for item in items %}{{ item.name }} of {{program_info.title}}{% endfor %}", out)
}

func TestTranslateMixedLeavesControlTagsUntouched(t *testing.T) {
	out, err := Translate("{% if flag %}A{% endif %}{{#items}}{{name}}{{/items}}")
	require.NoError(t, err)
	assert.Equal(t, "{% if flag %}A{% endif %}{% for item in items %}{{ item.name }}{% endfor %}", out)
}

func TestTranslatePassesDialectBThroughUnchanged(t *testing.T) {
	src := "{% for item in items %}{{ item.name }}{% endfor %}"
	out, err := Translate(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestTranslateSameNameNestedSections(t *testing.T) {
	out, err := Translate("{{#items}}{{#items}}{{x}}{{/items}}{{/items}}")
	require.NoError(t, err)
	assert.Equal(t, "{% for item in items %}{% for item2 in item.items %}{{ item2.x }}{% endfor %}{% endfor %}", out)
}

func TestTranslateUnbalancedSections(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "open without close", src: "{{#items}}{{name}}"},
		{name: "close without open", src: "{{name}}{{/items}}"},
		{name: "mismatched close", src: "{{#a}}{{#b}}{{/a}}{{/b}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Translate(tt.src)
			require.Error(t, err)
			assert.True(t, core.IsUnbalancedSectionTags(err), "got %v", err)
		})
	}
}

func TestTranslateReportsTagOffset(t *testing.T) {
	_, err := Translate("abc{{#items}}x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 3")
}
