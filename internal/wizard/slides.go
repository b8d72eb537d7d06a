// Package wizard implements the directory configuration wizard as a
// declarative list of slides over one in-memory State.
package wizard

// SlideKind identifies what a slide edits.
type SlideKind string

const (
	KindBasics      SlideKind = "basics"
	KindAction      SlideKind = "action"
	KindButtonStyle SlideKind = "button-style"
	KindDisplay     SlideKind = "display"
	KindMetadata    SlideKind = "metadata"
	KindDescription SlideKind = "description"
	KindReview      SlideKind = "review"
)

// Slide is one step of the wizard.
type Slide struct {
	Kind     SlideKind `json:"kind"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
}

// Wizard variants
const (
	VariantFull  = "full"
	VariantQuick = "quick"
)

// FullSlides walks through every option.
func FullSlides() []Slide {
	return []Slide{
		{Kind: KindBasics, Title: "Directory Basics", Subtitle: "Name your directory and the field that tags submissions"},
		{Kind: KindAction, Title: "Action Button", Subtitle: "Choose what happens when a visitor clicks the button"},
		{Kind: KindButtonStyle, Title: "Button Style", Subtitle: "Colors, corners and product controls"},
		{Kind: KindDisplay, Title: "Display Options", Subtitle: "Pick which listing sections are shown"},
		{Kind: KindMetadata, Title: "Metadata Bar", Subtitle: "Select the fields shown with each listing"},
		{Kind: KindDescription, Title: "Expanded Description", Subtitle: "Extra content below the product description"},
		{Kind: KindReview, Title: "Review & Create", Subtitle: "Copy your code and create the directory"},
	}
}

// QuickSlides keeps the essentials and uses default styling.
func QuickSlides() []Slide {
	return []Slide{
		{Kind: KindBasics, Title: "Directory Basics"},
		{Kind: KindAction, Title: "Action Button"},
		{Kind: KindDisplay, Title: "Display Options"},
		{Kind: KindReview, Title: "Review & Create"},
	}
}

// SlidesFor returns the slide list for a variant name. Unknown names get
// the full wizard.
func SlidesFor(variant string) []Slide {
	if variant == VariantQuick {
		return QuickSlides()
	}
	return FullSlides()
}
