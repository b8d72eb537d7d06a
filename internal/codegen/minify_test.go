package codegen

import (
	"strings"
	"testing"

	"directoryEngine/internal/models"
)

func TestMinifyCSS(t *testing.T) {
	in := `/* comment */
.a {
  color: red;
  margin: 0 auto;
}

.b > .c {
  display: none !important;
}`
	want := `.a{color:red;margin:0 auto}.b>.c{display:none !important}`
	if got := MinifyCSS(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMinifyJS(t *testing.T) {
	in := `/* header */
(function () {
  // setup
  var a = 1;

  var b = "https://x.test/f";
})();`
	got := MinifyJS(in)
	if strings.Contains(got, "setup") || strings.Contains(got, "header") {
		t.Errorf("expected comments removed, got %q", got)
	}
	if !strings.Contains(got, `var b = "https://x.test/f";`) {
		t.Errorf("expected URL string preserved, got %q", got)
	}
	if strings.Contains(got, "\n\n") {
		t.Errorf("expected blank lines removed, got %q", got)
	}
}

func TestMinifyKeepsCommentMarkersInStrings(t *testing.T) {
	js := `/* first */
var FORM_URL = "https://x.test/f/*/x";
var LABEL = 'it\'s // not a comment';
/* second */
var after = 1; // trailing`
	got := MinifyJS(js)
	want := "var FORM_URL = \"https://x.test/f/*/x\";\nvar LABEL = 'it\\'s // not a comment';\nvar after = 1;"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	css := `iframe[src*="https://x.test/f/*/x"] { width: 600px; }
/* next rule */
.a { color: red; }`
	if got, want := MinifyCSS(css), `iframe[src*="https://x.test/f/*/x"]{width:600px}.a{color:red}`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMinifiedDirectoryKeepsFormURL(t *testing.T) {
	formURL := "https://x.test/f/*/x"
	cfg := models.DefaultDirectoryConfig()
	cfg.FormEmbedURL = formURL
	cfg.ShowDescription = true
	style := models.DefaultStyling()
	style.DescriptionContent = "hello"
	style.Minify = true

	code := NewGenerator(nil).Generate(cfg, style)
	if !code.IsValid {
		t.Fatal("expected valid code")
	}
	if !strings.Contains(code.FooterCode, `var FORM_URL = "`+formURL+`";`) {
		t.Errorf("expected form URL to survive minification, got %q", code.FooterCode)
	}
	if !strings.Contains(code.FooterCode, "deOpenPopup") {
		t.Error("expected popup installer to survive minification")
	}
	if !strings.Contains(code.HeaderCode, formURL) {
		t.Error("expected form URL selector to survive CSS minification")
	}
}
