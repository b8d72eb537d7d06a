package codegen

import "testing"

func TestEscapeJSString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://x.test/f?a=1&b=2", "https://x.test/f?a=1&b=2"},
		{`say "hi"`, `say \"hi\"`},
		{"it's", `it\'s`},
		{`back\slash`, `back\\slash`},
		{"line\nbreak", `line\nbreak`},
		{"</script>", `\u003c/script\u003e`},
	}
	for _, tt := range tests {
		if got := EscapeJSString(tt.in); got != tt.want {
			t.Errorf("EscapeJSString(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestEscapeCSSString(t *testing.T) {
	if got := EscapeCSSString("https://x.test/f?a=1&b=2"); got != "https://x.test/f?a=1&b=2" {
		t.Errorf("expected URL unchanged, got %q", got)
	}
	if got := EscapeCSSString(`a"]{}`); got != `a\"]{}` {
		t.Errorf("expected quote escaped, got %q", got)
	}
	if got := EscapeCSSString("</style>"); got != `\3c /style\3e ` {
		t.Errorf("expected angle brackets escaped, got %q", got)
	}
}

func TestEscapeCSSValue(t *testing.T) {
	tests := []struct {
		in, fallback, want string
	}{
		{"#2563eb", "#000", "#2563eb"},
		{"rgba(0, 0, 0, 0.5)", "#000", "rgba(0, 0, 0, 0.5)"},
		{"red;} body{display:none", "#000", "red bodydisplaynone"},
		{"", "#000", "#000"},
		{";{}", "#fff", "#fff"},
	}
	for _, tt := range tests {
		if got := EscapeCSSValue(tt.in, tt.fallback); got != tt.want {
			t.Errorf("EscapeCSSValue(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
