package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"directoryEngine/internal/models"
)

// State is everything the user has entered so far.
type State struct {
	DirectoryName string                 `json:"directoryName"`
	Description   string                 `json:"description"`
	Config        models.DirectoryConfig `json:"config"`
	Styling       models.Styling         `json:"styling"`
}

// DefaultState is the state a new wizard starts from.
func DefaultState() State {
	return State{
		Config:  models.DefaultDirectoryConfig(),
		Styling: models.DefaultStyling(),
	}
}

// clone copies the state so slices are not shared.
func (s State) clone() State {
	c := s
	c.Config.MetadataFields = append([]string(nil), s.Config.MetadataFields...)
	if s.Config.Redirect != nil {
		r := *s.Config.Redirect
		c.Config.Redirect = &r
	}
	if s.Config.Download != nil {
		d := *s.Config.Download
		c.Config.Download = &d
	}
	return c
}

// normalized drops the payloads that do not belong to the selected action.
func (s State) normalized() State {
	c := s.clone()
	c.DirectoryName = strings.TrimSpace(c.DirectoryName)
	c.Config.FormEmbedURL = strings.TrimSpace(c.Config.FormEmbedURL)
	if c.Config.Type != models.ButtonRedirect {
		c.Config.Redirect = nil
	}
	if c.Config.Type != models.ButtonDownload {
		c.Config.Download = nil
	}
	if c.Config.MetadataFields == nil {
		c.Config.MetadataFields = []string{}
	}
	return c
}

// Field types shown to front ends
const (
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypeBool     = "bool"
	TypeNumber   = "number"
	TypeColor    = "color"
	TypeSelect   = "select"
	TypeList     = "list"
)

// field binds one editable key to the state.
type field struct {
	key     string
	label   string
	typ     string
	options func(w *Wizard) []string
	visible func(s *State) bool
	get     func(s *State) string
	set     func(s *State, v string) error
}

func textField(key, label string, ptr func(*State) *string) field {
	return field{
		key:   key,
		label: label,
		typ:   TypeText,
		get:   func(s *State) string { return *ptr(s) },
		set: func(s *State, v string) error {
			*ptr(s) = v
			return nil
		},
	}
}

func boolField(key, label string, ptr func(*State) *bool) field {
	return field{
		key:   key,
		label: label,
		typ:   TypeBool,
		get:   func(s *State) string { return strconv.FormatBool(*ptr(s)) },
		set: func(s *State, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s must be true or false", key)
			}
			*ptr(s) = b
			return nil
		},
	}
}

func choiceField(key, label string, choices []string, ptr func(*State) *string) field {
	return field{
		key:     key,
		label:   label,
		typ:     TypeSelect,
		options: func(*Wizard) []string { return choices },
		get:     func(s *State) string { return *ptr(s) },
		set: func(s *State, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			for _, c := range choices {
				if v == c {
					*ptr(s) = v
					return nil
				}
			}
			return fmt.Errorf("%s must be one of %s", key, strings.Join(choices, ", "))
		},
	}
}

func usesForm(s *State) bool   { return s.Config.UsesForm() }
func isRedirect(s *State) bool { return s.Config.Type == models.ButtonRedirect }
func isDownload(s *State) bool { return s.Config.Type == models.ButtonDownload }
func isEmbed(s *State) bool    { return s.Config.Type == models.ButtonEmbed }

func redirectOf(s *State) *models.RedirectOptions {
	if s.Config.Redirect == nil {
		s.Config.Redirect = &models.RedirectOptions{}
	}
	return s.Config.Redirect
}

func downloadOf(s *State) *models.DownloadOptions {
	if s.Config.Download == nil {
		s.Config.Download = &models.DownloadOptions{}
	}
	return s.Config.Download
}

func buttonTypeNames() []string {
	names := make([]string, len(models.ButtonTypes))
	for i, t := range models.ButtonTypes {
		names[i] = string(t)
	}
	return names
}

var fields = []field{
	textField("directoryName", "Directory name", func(s *State) *string { return &s.DirectoryName }),
	withType(textField("description", "Description", func(s *State) *string { return &s.Description }), TypeTextarea),
	textField("customFieldName", "Hidden field name", func(s *State) *string { return &s.Config.CustomFieldName }),

	{
		key:     "buttonType",
		label:   "Button action",
		typ:     TypeSelect,
		options: func(*Wizard) []string { return buttonTypeNames() },
		get:     func(s *State) string { return string(s.Config.Type) },
		set: func(s *State, v string) error {
			t := models.ButtonType(strings.ToLower(strings.TrimSpace(v)))
			if !t.IsValid() {
				return fmt.Errorf("buttonType must be one of %s", strings.Join(buttonTypeNames(), ", "))
			}
			s.Config.Type = t
			return nil
		},
	},
	visibleWhen(textField("formEmbedUrl", "Form embed code or URL", func(s *State) *string { return &s.Config.FormEmbedURL }), usesForm),
	visibleWhen(textField("redirectUrl", "Redirect URL", func(s *State) *string { return &redirectOf(s).URL }), isRedirect),
	visibleWhen(boolField("redirectNewTab", "Open in new tab", func(s *State) *bool { return &redirectOf(s).NewTab }), isRedirect),
	visibleWhen(textField("downloadUrl", "File URL", func(s *State) *string { return &downloadOf(s).FileURL }), isDownload),
	visibleWhen(textField("downloadName", "File name", func(s *State) *string { return &downloadOf(s).FileName }), isDownload),

	textField("buttonText", "Button text", func(s *State) *string { return &s.Styling.Button.Text }),
	withType(textField("buttonColor", "Button color", func(s *State) *string { return &s.Styling.Button.Color }), TypeColor),
	withType(textField("buttonTextColor", "Button text color", func(s *State) *string { return &s.Styling.Button.TextColor }), TypeColor),
	{
		key:   "buttonRadius",
		label: "Corner radius (px)",
		typ:   TypeNumber,
		get:   func(s *State) string { return strconv.Itoa(s.Styling.Button.Radius) },
		set: func(s *State, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				return fmt.Errorf("buttonRadius must be a non-negative whole number")
			}
			s.Styling.Button.Radius = n
			return nil
		},
	},
	boolField("extraSpacing", "Add 100px popup spacing", func(s *State) *bool { return &s.Styling.ExtraSpacing }),
	boolField("enableQuantity", "Show quantity selector", func(s *State) *bool { return &s.Styling.EnableQuantitySelector }),
	boolField("enableBuyNow", "Show buy now button", func(s *State) *bool { return &s.Styling.EnableBuyNow }),
	visibleWhen(choiceField("formAnimation", "Form animation",
		[]string{models.AnimationFade, models.AnimationSqueeze, models.AnimationNone},
		func(s *State) *string { return &s.Styling.FormAnimation }), isEmbed),

	boolField("showDescription", "Show expanded description", func(s *State) *bool { return &s.Config.ShowDescription }),
	boolField("showMetadata", "Show metadata bar", func(s *State) *bool { return &s.Config.ShowMetadata }),
	boolField("showMaps", "Show map", func(s *State) *bool { return &s.Config.ShowMaps }),
	boolField("showPrice", "Show price", func(s *State) *bool { return &s.Config.ShowPrice }),

	{
		key:   "metadataFields",
		label: "Metadata fields",
		typ:   TypeList,
		options: func(w *Wizard) []string {
			catalog := w.gen.Catalog()
			ids := make([]string, len(catalog))
			for i, f := range catalog {
				ids[i] = f.ID
			}
			return ids
		},
		get: func(s *State) string { return strings.Join(s.Config.MetadataFields, ",") },
		set: func(s *State, v string) error {
			s.Config.MetadataFields = splitList(v)
			return nil
		},
	},
	choiceField("metadataPosition", "Metadata position",
		[]string{models.PositionTop, models.PositionBottom},
		func(s *State) *string { return &s.Styling.MetadataPosition }),

	withType(textField("descriptionContent", "Description content", func(s *State) *string { return &s.Styling.DescriptionContent }), TypeTextarea),
	boolField("descriptionFade", "Fade in", func(s *State) *bool { return &s.Styling.DescriptionFade }),
	boolField("descriptionMarkdown", "Content is Markdown", func(s *State) *bool { return &s.Styling.DescriptionMarkdown }),
}

var fieldIndex = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[f.key] = f
	}
	return m
}()

// slideFields lists the keys each slide kind edits, in display order.
var slideFields = map[SlideKind][]string{
	KindBasics:      {"directoryName", "description", "customFieldName"},
	KindAction:      {"buttonType", "formEmbedUrl", "redirectUrl", "redirectNewTab", "downloadUrl", "downloadName"},
	KindButtonStyle: {"buttonText", "buttonColor", "buttonTextColor", "buttonRadius", "extraSpacing", "enableQuantity", "enableBuyNow", "formAnimation"},
	KindDisplay:     {"showDescription", "showMetadata", "showMaps", "showPrice"},
	KindMetadata:    {"metadataFields", "metadataPosition"},
	KindDescription: {"descriptionContent", "descriptionFade", "descriptionMarkdown"},
}

// Keys returns every settable key.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

func withType(f field, typ string) field {
	f.typ = typ
	return f
}

func visibleWhen(f field, fn func(*State) bool) field {
	f.visible = fn
	return f
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
