package template

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Dialect
	}{
		{name: "section markers only", text: "{{#items}}{{name}}{{/items}}", want: DialectA},
		{name: "control tags only", text: "{% for item in items %}{{ item.name }}{% endfor %}", want: DialectB},
		{name: "both families", text: "{% if x %}a{% endif %}{{#items}}b{{/items}}", want: Mixed},
		{name: "interpolation only", text: "Hello {{ name }}", want: PlainText},
		{name: "no tags at all", text: "Hello world", want: PlainText},
		{name: "close tag alone still counts as dialect a", text: "x {{/items}} y", want: DialectA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectIsIdempotentOverTranslate(t *testing.T) {
	src := "{{#days}}{{label}}{{#sessions}}{{topic}}{{/sessions}}{{/days}}"
	translated, err := Translate(src)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got := Detect(translated); got != DialectB {
		t.Errorf("Detect(translated) = %v, want DialectB", got)
	}
}
