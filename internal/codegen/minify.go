package codegen

import (
	"regexp"
	"strings"
)

var (
	cssSpaceRe = regexp.MustCompile(`\s+`)
	cssPunctRe = regexp.MustCompile(`\s*([{};,>~])\s*`)
	cssColonRe = regexp.MustCompile(`\s*:\s+`)
	cssSemiRe  = regexp.MustCompile(`;}`)
)

// eachCodeRun drops comments from src and passes every stretch of text
// outside a quoted string through fn. Quoted strings are copied verbatim,
// so user values such as URLs containing "/*" survive. Line comments are
// only recognized when lineComments is set, since "//" is not a comment in
// CSS.
func eachCodeRun(src string, lineComments bool, fn func(string) string) string {
	var out, run strings.Builder
	flush := func() {
		out.WriteString(fn(run.String()))
		run.Reset()
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			flush()
			j := i + 1
			for j < len(src) && src[j] != c {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				j = len(src) - 1
			}
			out.WriteString(src[i : j+1])
			i = j + 1
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				i = len(src)
			} else {
				i += end + 4
			}
		case lineComments && strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				i = len(src)
			} else {
				i += end
			}
		default:
			run.WriteByte(c)
			i++
		}
	}
	flush()
	return out.String()
}

// MinifyCSS strips comments and redundant whitespace from generated CSS.
func MinifyCSS(content string) string {
	content = eachCodeRun(content, false, func(run string) string {
		run = cssSpaceRe.ReplaceAllString(run, " ")

		// Remove spaces around punctuation
		run = cssPunctRe.ReplaceAllString(run, "$1")
		run = cssColonRe.ReplaceAllString(run, ":")

		// Remove trailing semicolons before }
		return cssSemiRe.ReplaceAllString(run, "}")
	})
	return strings.TrimSpace(content)
}

// MinifyJS removes comments and blank lines from generated JavaScript.
// Lines are kept intact so statements without semicolons still parse.
// Generated strings never hold raw newlines, so trimming lines cannot
// reach inside a literal.
func MinifyJS(content string) string {
	content = eachCodeRun(content, true, func(run string) string { return run })

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
