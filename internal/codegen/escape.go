package codegen

import (
	"strings"
	"unicode"
)

var jsStringReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`'`, `\'`,
	"`", "\\`",
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"<", `\u003c`,
	">", `\u003e`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// EscapeJSString makes s safe inside a quoted JavaScript string literal that
// is itself inside a <script> block. URL characters pass through unchanged.
func EscapeJSString(s string) string {
	return jsStringReplacer.Replace(s)
}

var cssStringReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`'`, `\'`,
	"\n", `\a `,
	"\r", ``,
	"<", `\3c `,
	">", `\3e `,
)

// EscapeCSSString makes s safe inside a quoted CSS string, such as an
// attribute selector value.
func EscapeCSSString(s string) string {
	return cssStringReplacer.Replace(s)
}

// EscapeCSSValue keeps only characters that can appear in a color or length
// value. Anything that could close a declaration or rule is dropped. An empty
// result is replaced by fallback.
func EscapeCSSValue(s, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case strings.ContainsRune("#%.,() -", r):
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
