package codegen

import (
	"strings"

	"directoryEngine/internal/models"
)

const (
	iconPhone    = `<svg viewBox="0 0 24 24" width="18" height="18" fill="currentColor"><path d="M6.6 10.8a15.1 15.1 0 0 0 6.6 6.6l2.2-2.2a1 1 0 0 1 1-.25 11.4 11.4 0 0 0 3.6.57 1 1 0 0 1 1 1V20a1 1 0 0 1-1 1A17 17 0 0 1 3 4a1 1 0 0 1 1-1h3.5a1 1 0 0 1 1 1c0 1.25.2 2.46.57 3.6a1 1 0 0 1-.25 1z"/></svg>`
	iconEmail    = `<svg viewBox="0 0 24 24" width="18" height="18" fill="currentColor"><path d="M20 4H4a2 2 0 0 0-2 2v12a2 2 0 0 0 2 2h16a2 2 0 0 0 2-2V6a2 2 0 0 0-2-2zm0 4-8 5-8-5V6l8 5 8-5z"/></svg>`
	iconWebsite  = `<svg viewBox="0 0 24 24" width="18" height="18" fill="currentColor"><path d="M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20zm6.9 6h-2.9a15.7 15.7 0 0 0-1.4-3.6A8 8 0 0 1 18.9 8zM12 4a14 14 0 0 1 1.9 4h-3.8A14 14 0 0 1 12 4zM4.3 14a8.2 8.2 0 0 1 0-4h3.4a16.5 16.5 0 0 0 0 4zm.8 2h2.9a15.7 15.7 0 0 0 1.4 3.6A8 8 0 0 1 5.1 16zM8 8H5.1a8 8 0 0 1 4.3-3.6A15.7 15.7 0 0 0 8 8zm4 12a14 14 0 0 1-1.9-4h3.8A14 14 0 0 1 12 20zm2.3-6H9.7a14.7 14.7 0 0 1 0-4h4.6a14.7 14.7 0 0 1 0 4z"/></svg>`
	iconLocation = `<svg viewBox="0 0 24 24" width="18" height="18" fill="currentColor"><path d="M12 2a7 7 0 0 0-7 7c0 5.25 7 13 7 13s7-7.75 7-13a7 7 0 0 0-7-7zm0 9.5A2.5 2.5 0 1 1 12 6.5a2.5 2.5 0 0 1 0 5z"/></svg>`
	iconClock    = `<svg viewBox="0 0 24 24" width="18" height="18" fill="currentColor"><path d="M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20zm1 11H7v-2h4V6h2z"/></svg>`
	iconTag      = `<svg viewBox="0 0 24 24" width="18" height="18" fill="currentColor"><path d="M21.4 11.6 12.4 2.6A2 2 0 0 0 11 2H4a2 2 0 0 0-2 2v7c0 .55.22 1.05.59 1.42l9 9a2 2 0 0 0 2.82 0l7-7a2 2 0 0 0 0-2.82zM6.5 8A1.5 1.5 0 1 1 6.5 5a1.5 1.5 0 0 1 0 3z"/></svg>`
	iconInfo     = `<svg viewBox="0 0 24 24" width="18" height="18" fill="currentColor"><path d="M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20zm1 15h-2v-6h2zm0-8h-2V7h2z"/></svg>`
)

// DefaultMetadataCatalog returns the metadata fields offered by the wizard.
func DefaultMetadataCatalog() []MetadataField {
	return []MetadataField{
		{ID: "phone", Label: "Phone", Icon: iconPhone},
		{ID: "email", Label: "Email", Icon: iconEmail},
		{ID: "website", Label: "Website", Icon: iconWebsite},
		{ID: "address", Label: "Address", Icon: iconLocation},
		{ID: "hours", Label: "Hours", Icon: iconClock, DefaultValue: "Contact for hours"},
		{ID: "category", Label: "Category", Icon: iconTag},
	}
}

// Generator assembles the final header and footer code for a directory.
// It is safe for concurrent use.
type Generator struct {
	catalog []MetadataField
	index   map[string]MetadataField
}

// NewGenerator creates a generator over the given metadata catalog. A nil
// catalog selects DefaultMetadataCatalog.
func NewGenerator(catalog []MetadataField) *Generator {
	if catalog == nil {
		catalog = DefaultMetadataCatalog()
	}
	index := make(map[string]MetadataField, len(catalog))
	for _, f := range catalog {
		index[strings.ToLower(f.ID)] = f
	}
	return &Generator{catalog: catalog, index: index}
}

// Catalog returns a copy of the metadata fields the generator knows.
func (g *Generator) Catalog() []MetadataField {
	out := make([]MetadataField, len(g.catalog))
	copy(out, g.catalog)
	return out
}

// ResolveFields maps field ids to catalog entries in the given order.
// Unknown ids get a generic icon and a label derived from the id.
func (g *Generator) ResolveFields(ids []string) []MetadataField {
	fields := make([]MetadataField, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		key := strings.ToLower(strings.TrimSpace(id))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if f, ok := g.index[key]; ok {
			fields = append(fields, f)
			continue
		}
		fields = append(fields, MetadataField{ID: key, Label: labelFromID(key), Icon: iconInfo})
	}
	return fields
}

func labelFromID(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Action generates the code for the configured button action alone.
func (g *Generator) Action(cfg models.DirectoryConfig, style models.Styling) models.GeneratedCode {
	button := ButtonOptionsFrom(style.Button)
	switch cfg.Type {
	case models.ButtonPopup:
		return GenerateActionButtonPopup(PopupOptions{
			Button:                 button,
			CustomFieldName:        cfg.CustomFieldName,
			FormURL:                cfg.FormEmbedURL,
			ExtraSpacing:           style.ExtraSpacing,
			EnableQuantitySelector: style.EnableQuantitySelector,
			EnableBuyNow:           style.EnableBuyNow,
		})
	case models.ButtonEmbed:
		return GenerateEmbeddedForm(EmbeddedFormOptions{
			CustomFieldName: cfg.CustomFieldName,
			FormURL:         cfg.FormEmbedURL,
			Radius:          style.Button.Radius,
			Animation:       style.FormAnimation,
			ExtraSpacing:    style.ExtraSpacing,
		})
	case models.ButtonRedirect:
		if cfg.Redirect == nil {
			return models.GeneratedCode{}
		}
		return GenerateRedirectButton(RedirectOptions{
			Button:          button,
			CustomFieldName: cfg.CustomFieldName,
			URL:             cfg.Redirect.URL,
			NewTab:          cfg.Redirect.NewTab,
			EnableQuantity:  style.EnableQuantitySelector,
			EnableBuyNow:    style.EnableBuyNow,
		})
	case models.ButtonDownload:
		if cfg.Download == nil {
			return models.GeneratedCode{}
		}
		return GenerateDownloadButton(DownloadOptions{
			Button:         button,
			FileURL:        cfg.Download.FileURL,
			FileName:       cfg.Download.FileName,
			EnableQuantity: style.EnableQuantitySelector,
			EnableBuyNow:   style.EnableBuyNow,
		})
	}
	return models.GeneratedCode{}
}

// Generate assembles every fragment the configuration enables. Parts are
// joined with a blank line in a fixed order. CSS: global, price removal,
// action, description, metadata. JS: action, description, metadata.
// IsValid reports whether the button action produced code.
func (g *Generator) Generate(cfg models.DirectoryConfig, style models.Styling) models.GeneratedCode {
	action := g.Action(cfg, style)

	var description, metadata Fragment
	if cfg.ShowDescription {
		description = ExpandedDescription(DescriptionOptions{
			Content:  style.DescriptionContent,
			Fade:     style.DescriptionFade,
			Markdown: style.DescriptionMarkdown,
		})
	}
	if cfg.ShowMetadata {
		metadata = MetadataBar(MetadataBarOptions{
			Fields:   g.ResolveFields(cfg.MetadataFields),
			Position: style.MetadataPosition,
			ShowMaps: cfg.ShowMaps,
		})
	}

	var price string
	if !cfg.ShowPrice {
		price = PriceRemovalCSS()
	}

	code := models.GeneratedCode{
		HeaderCode: joinParts(GlobalCSS(), price, action.HeaderCode, description.CSS, metadata.CSS),
		FooterCode: joinParts(action.FooterCode, description.JS, metadata.JS),
		IsValid:    action.IsValid,
	}
	if style.Minify {
		code.HeaderCode = MinifyCSS(code.HeaderCode)
		code.FooterCode = MinifyJS(code.FooterCode)
	}
	return code
}
