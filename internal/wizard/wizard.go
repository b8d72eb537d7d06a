package wizard

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"directoryEngine/internal/codegen"
	"directoryEngine/internal/models"
)

// Wizard is a linear slide sequence over one State. Navigation never
// depends on form completeness; validation happens on Submit. A Wizard is
// not safe for concurrent use.
type Wizard struct {
	slides []Slide
	index  int
	state  State
	gen    *codegen.Generator
	done   bool
}

// New creates a wizard over slides. Empty slides select FullSlides and a
// nil generator uses the default metadata catalog.
func New(slides []Slide, gen *codegen.Generator) *Wizard {
	if len(slides) == 0 {
		slides = FullSlides()
	}
	if gen == nil {
		gen = codegen.NewGenerator(nil)
	}
	return &Wizard{
		slides: append([]Slide(nil), slides...),
		state:  DefaultState(),
		gen:    gen,
	}
}

// Len returns the number of slides.
func (w *Wizard) Len() int { return len(w.slides) }

// Index returns the current slide index.
func (w *Wizard) Index() int { return w.index }

// Current returns the current slide.
func (w *Wizard) Current() Slide { return w.slides[w.index] }

// Slides returns a copy of the slide list.
func (w *Wizard) Slides() []Slide { return append([]Slide(nil), w.slides...) }

// Done reports whether the last Submit succeeded with no edits since.
func (w *Wizard) Done() bool { return w.done }

// State returns a copy of the current state.
func (w *Wizard) State() State { return w.state.clone() }

// Load replaces the state, for editing an existing directory.
func (w *Wizard) Load(s State) {
	w.state = s.clone()
	w.done = false
}

// Next advances one slide. It is a no-op on the last slide.
func (w *Wizard) Next() int {
	if w.index < len(w.slides)-1 {
		w.index++
	}
	return w.index
}

// Prev goes back one slide. It is a no-op on the first slide.
func (w *Wizard) Prev() int {
	if w.index > 0 {
		w.index--
	}
	return w.index
}

// GoTo jumps to slide i, clamped to the valid range.
func (w *Wizard) GoTo(i int) int {
	switch {
	case i < 0:
		w.index = 0
	case i >= len(w.slides):
		w.index = len(w.slides) - 1
	default:
		w.index = i
	}
	return w.index
}

// Reset discards all input and returns to the first slide.
func (w *Wizard) Reset() {
	w.index = 0
	w.state = DefaultState()
	w.done = false
}

// Set updates one field by key.
func (w *Wizard) Set(key, value string) error {
	f, ok := fieldIndex[key]
	if !ok {
		return fmt.Errorf("unknown field %q", key)
	}
	if err := f.set(&w.state, value); err != nil {
		return err
	}
	w.done = false
	return nil
}

// Patch overlays a JSON object of key/value pairs onto the state. Values
// may be strings, booleans, numbers or string arrays. Either every key is
// applied or none is.
func (w *Wizard) Patch(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid patch: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	next := w.state.clone()
	for _, k := range keys {
		f, ok := fieldIndex[k]
		if !ok {
			return fmt.Errorf("unknown field %q", k)
		}
		v, err := patchValue(raw[k])
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		if err := f.set(&next, v); err != nil {
			return err
		}
	}

	w.state = next
	w.done = false
	return nil
}

func patchValue(raw json.RawMessage) (string, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case nil:
		return "", nil
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return "", fmt.Errorf("list items must be strings")
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported value")
	}
}

// Code generates the embed code for the current state.
func (w *Wizard) Code() models.GeneratedCode {
	s := w.state.normalized()
	return w.gen.Generate(s.Config, s.Styling)
}

// FieldView is one editable field as rendered by a front end.
type FieldView struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Value   string   `json:"value"`
	Options []string `json:"options,omitempty"`
}

// View is the render model of the current slide.
type View struct {
	Index  int                   `json:"index"`
	Total  int                   `json:"total"`
	Slide  Slide                 `json:"slide"`
	First  bool                  `json:"first"`
	Last   bool                  `json:"last"`
	Fields []FieldView           `json:"fields"`
	Code   *models.GeneratedCode `json:"code,omitempty"`
	Errors []string              `json:"errors,omitempty"`
}

// View renders the current slide from the state. The review slide carries
// freshly generated code and any problems Submit would report.
func (w *Wizard) View() View {
	slide := w.Current()
	s := w.state.clone()

	v := View{
		Index:  w.index,
		Total:  len(w.slides),
		Slide:  slide,
		First:  w.index == 0,
		Last:   w.index == len(w.slides)-1,
		Fields: []FieldView{},
	}

	for _, key := range slideFields[slide.Kind] {
		f := fieldIndex[key]
		if f.visible != nil && !f.visible(&s) {
			continue
		}
		fv := FieldView{Key: f.key, Label: f.label, Type: f.typ, Value: f.get(&s)}
		if f.options != nil {
			fv.Options = f.options(w)
		}
		v.Fields = append(v.Fields, fv)
	}

	if slide.Kind == KindReview {
		code := w.Code()
		v.Code = &code
		if err := w.validate(); err != nil {
			v.Errors = append(v.Errors, err.Error())
		}
	}
	return v
}
