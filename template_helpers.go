package main

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateCache holds parsed templates with inheritance support
type TemplateCache struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateCache creates a new template cache
func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		templates: make(map[string]*template.Template),
	}
}

// GetTemplate returns a cached template or parses it with the base layout
func (tc *TemplateCache) GetTemplate(name string) (*template.Template, error) {
	tc.mutex.RLock()
	tmpl, exists := tc.templates[name]
	tc.mutex.RUnlock()

	if exists {
		return tmpl, nil
	}

	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	// Double-check after acquiring write lock
	if tmpl, exists := tc.templates[name]; exists {
		return tmpl, nil
	}

	tmpl, err := template.New("").Funcs(CreateTemplateFuncMap()).
		ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	tc.templates[name] = tmpl
	return tmpl, nil
}

// RenderTemplate renders a template with the given data
func (tc *TemplateCache) RenderTemplate(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, err := tc.GetTemplate(name)
	if err != nil {
		return err
	}

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write([]byte(buf.String()))
	return err
}

// AlertBox creates an alert message HTML
func AlertBox(alertType, message, linkText, linkURL string) template.HTML {
	linkHTML := ""
	if linkText != "" && linkURL != "" {
		linkHTML = fmt.Sprintf(`<a href="%s" class="alert-link">%s</a>`,
			template.HTMLEscapeString(linkURL), template.HTMLEscapeString(linkText))
	}

	return template.HTML(fmt.Sprintf(
		`<div class="alert alert-%s">%s %s</div>`,
		template.HTMLEscapeString(alertType), template.HTMLEscapeString(message), linkHTML,
	))
}

// FormGroup creates a labelled form input
func FormGroup(label, inputType, inputID, placeholder, value string, required bool) template.HTML {
	requiredAttr := ""
	if required {
		requiredAttr = " required"
	}

	esc := template.HTMLEscapeString
	return template.HTML(fmt.Sprintf(`<div class="form-group">
  <label for="%s">%s</label>
  <input type="%s" id="%s" name="%s" placeholder="%s" value="%s"%s>
</div>`, esc(inputID), esc(label), esc(inputType), esc(inputID), esc(inputID), esc(placeholder), esc(value), requiredAttr))
}

// Truncate shortens text to length runes
func Truncate(text string, length int) string {
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	return string(runes[:length]) + "..."
}

// CreateTemplateFuncMap creates the function map for templates
func CreateTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"alertBox":  AlertBox,
		"formGroup": FormGroup,
		"truncate":  Truncate,
		"join":      strings.Join,
	}
}

// renderPage renders a page and logs failures.
func (app *App) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	if err := app.Templates.RenderTemplate(w, status, name, data); err != nil {
		app.Logger.WithError(err).WithFields(map[string]interface{}{
			"template": name,
			"path":     r.URL.Path,
		}).Error("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
