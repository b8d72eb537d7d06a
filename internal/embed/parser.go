// Package embed extracts the form source and dimensions from a pasted
// GoHighLevel embed snippet.
package embed

import (
	"regexp"
	"strconv"
	"strings"

	"directoryEngine/internal/models"
)

// Fallback dimensions used when the snippet does not declare them.
const (
	DefaultWidth  = 500
	DefaultHeight = 600
)

var (
	srcPattern    = regexp.MustCompile(`(?i)\bsrc\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	widthPattern  = regexp.MustCompile(`(?i)\bwidth\s*=\s*["']?\s*(\d+)(?:px)?(?:["'\s/]|$)`)
	heightPattern = regexp.MustCompile(`(?i)\bheight\s*=\s*["']?\s*(\d+)(?:px)?(?:["'\s/]|$)`)
)

// Parse returns the source URL and size declared by raw. Input without an
// <iframe tag is treated as the source itself. Malformed input degrades to
// the default dimensions; only empty input yields nil.
func Parse(raw string) *models.ParsedEmbedData {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	data := &models.ParsedEmbedData{
		Src:    raw,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}

	lower := strings.ToLower(raw)
	start := strings.Index(lower, "<iframe")
	if start < 0 {
		return data
	}

	// Attributes are read from the first iframe tag only.
	tag := raw[start:]
	if end := strings.Index(tag, ">"); end >= 0 {
		tag = tag[:end]
	}

	data.Src = ""
	if m := srcPattern.FindStringSubmatch(tag); m != nil {
		data.Src = strings.TrimSpace(m[1] + m[2])
	}
	data.Width = dimension(widthPattern, tag, DefaultWidth)
	data.Height = dimension(heightPattern, tag, DefaultHeight)
	return data
}

// FormURL returns the source URL from raw, or "" when none can be found.
func FormURL(raw string) string {
	if p := Parse(raw); p != nil {
		return p.Src
	}
	return ""
}

func dimension(re *regexp.Regexp, tag string, fallback int) int {
	m := re.FindStringSubmatch(tag)
	if m == nil {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
