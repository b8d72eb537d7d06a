package models

import "strings"

// DirectoryConfig is the feature configuration the wizard produces for a
// directory. It is stored inside the directory record as a JSON blob and
// replayed by the public submission form.
type DirectoryConfig struct {
	CustomFieldName string   `json:"customFieldName"`
	ShowDescription bool     `json:"showDescription"`
	ShowMetadata    bool     `json:"showMetadata"`
	ShowMaps        bool     `json:"showMaps"`
	ShowPrice       bool     `json:"showPrice"`
	MetadataFields  []string `json:"metadataFields"`
	FormEmbedURL    string   `json:"formEmbedUrl"`
	ButtonAction
}

// DefaultDirectoryConfig returns the configuration a new wizard starts from.
func DefaultDirectoryConfig() DirectoryConfig {
	return DirectoryConfig{
		CustomFieldName: "listing",
		ShowDescription: true,
		ShowPrice:       true,
		MetadataFields:  []string{},
		ButtonAction:    NewPopupAction(),
	}
}

// Validate checks the variant-specific requirements of the button action.
func (c DirectoryConfig) Validate() error {
	return c.ButtonAction.validate(c.FormEmbedURL)
}

// HasMetadataField reports whether id is selected for the metadata bar.
func (c DirectoryConfig) HasMetadataField(id string) bool {
	for _, f := range c.MetadataFields {
		if strings.EqualFold(f, id) {
			return true
		}
	}
	return false
}

// ButtonStyle holds the visual parameters of the action button.
type ButtonStyle struct {
	Text      string `json:"text"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
	Radius    int    `json:"radius"`
}

// Metadata bar positions
const (
	PositionTop    = "top"
	PositionBottom = "bottom"
)

// Embedded form animations
const (
	AnimationFade    = "fade"
	AnimationSqueeze = "squeeze"
	AnimationNone    = "none"
)

// Styling carries the presentation choices that, together with a
// DirectoryConfig, determine the generated embed code.
type Styling struct {
	Button                 ButtonStyle `json:"button"`
	ExtraSpacing           bool        `json:"extraSpacing"`
	EnableQuantitySelector bool        `json:"enableQuantitySelector"`
	EnableBuyNow           bool        `json:"enableBuyNow"`
	DescriptionContent     string      `json:"descriptionContent"`
	DescriptionFade        bool        `json:"descriptionFade"`
	DescriptionMarkdown    bool        `json:"descriptionMarkdown"`
	MetadataPosition       string      `json:"metadataPosition"`
	FormAnimation          string      `json:"formAnimation"`
	Minify                 bool        `json:"minify"`
}

// DefaultStyling returns the styling a new wizard starts from.
func DefaultStyling() Styling {
	return Styling{
		Button: ButtonStyle{
			Text:      "Get More Info",
			Color:     "#2563eb",
			TextColor: "#ffffff",
			Radius:    6,
		},
		ExtraSpacing:     true,
		DescriptionFade:  true,
		MetadataPosition: PositionBottom,
		FormAnimation:    AnimationFade,
	}
}

// GeneratedCode is the header (CSS) and footer (JS) pair produced by the
// code generators. IsValid is false when the generator had nothing to emit.
type GeneratedCode struct {
	HeaderCode string `json:"headerCode"`
	FooterCode string `json:"footerCode"`
	IsValid    bool   `json:"isValid"`
}

// Snippet wraps both halves in the tags GHL's custom code fields expect.
func (g GeneratedCode) Snippet() (header, footer string) {
	if g.HeaderCode != "" {
		header = "<style>\n" + g.HeaderCode + "\n</style>"
	}
	if g.FooterCode != "" {
		footer = "<script>\n" + g.FooterCode + "\n</script>"
	}
	return header, footer
}

// ParsedEmbedData is the result of parsing a pasted iframe or form URL.
type ParsedEmbedData struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// WithSpacing returns a copy grown by px on both axes.
func (p ParsedEmbedData) WithSpacing(px int) ParsedEmbedData {
	p.Width += px
	p.Height += px
	return p
}
