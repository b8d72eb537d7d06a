package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"directoryEngine/internal/models"
)

func TestNavigationClamps(t *testing.T) {
	for _, slides := range [][]Slide{FullSlides(), QuickSlides()} {
		w := New(slides, nil)

		if got := w.Prev(); got != 0 {
			t.Errorf("expected prev at first slide to stay at 0, got %d", got)
		}

		last := len(slides) - 1
		for i := 0; i < last; i++ {
			w.Next()
		}
		if w.Index() != last {
			t.Fatalf("expected index %d, got %d", last, w.Index())
		}
		if got := w.Next(); got != last {
			t.Errorf("expected next at last slide to stay at %d, got %d", last, got)
		}
		if w.Current().Kind != KindReview {
			t.Errorf("expected review as last slide, got %s", w.Current().Kind)
		}
	}
}

func TestGoTo(t *testing.T) {
	w := New(FullSlides(), nil)
	tests := []struct{ in, want int }{
		{3, 3},
		{-4, 0},
		{99, len(FullSlides()) - 1},
		{0, 0},
	}
	for _, tt := range tests {
		if got := w.GoTo(tt.in); got != tt.want {
			t.Errorf("GoTo(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestNavigationIgnoresCompleteness(t *testing.T) {
	w := New(QuickSlides(), nil)
	w.GoTo(w.Len() - 1)
	if w.Index() != w.Len()-1 {
		t.Error("expected jump to review without a directory name")
	}
	view := w.View()
	if view.Code == nil {
		t.Fatal("expected generated code on review slide")
	}
	if len(view.Errors) == 0 {
		t.Error("expected review slide to list missing input")
	}
}

func TestSetAndView(t *testing.T) {
	w := New(FullSlides(), nil)
	steps := []struct{ key, value string }{
		{"directoryName", "Plumbers"},
		{"buttonType", "redirect"},
		{"redirectUrl", "https://example.com/quote"},
		{"showPrice", "false"},
		{"metadataFields", "phone, address,,"},
		{"buttonRadius", "12"},
	}
	for _, s := range steps {
		if err := w.Set(s.key, s.value); err != nil {
			t.Fatalf("Set(%q, %q): %v", s.key, s.value, err)
		}
	}

	st := w.State()
	if st.Config.Type != models.ButtonRedirect || st.Config.Redirect.URL != "https://example.com/quote" {
		t.Errorf("unexpected action %+v", st.Config.ButtonAction)
	}
	if st.Config.ShowPrice {
		t.Error("expected showPrice false")
	}
	if strings.Join(st.Config.MetadataFields, "|") != "phone|address" {
		t.Errorf("unexpected metadata fields %v", st.Config.MetadataFields)
	}

	w.GoTo(1)
	view := w.View()
	keys := make([]string, 0, len(view.Fields))
	for _, f := range view.Fields {
		keys = append(keys, f.Key)
	}
	if got := strings.Join(keys, ","); got != "buttonType,redirectUrl,redirectNewTab" {
		t.Errorf("unexpected action slide fields %s", got)
	}
}

func TestSetErrors(t *testing.T) {
	w := New(nil, nil)
	bad := []struct{ key, value string }{
		{"nope", "x"},
		{"buttonType", "carousel"},
		{"showPrice", "maybe"},
		{"buttonRadius", "-1"},
		{"metadataPosition", "left"},
	}
	for _, b := range bad {
		if err := w.Set(b.key, b.value); err == nil {
			t.Errorf("expected error for Set(%q, %q)", b.key, b.value)
		}
	}
}

func TestPatchIsAtomic(t *testing.T) {
	w := New(nil, nil)
	err := w.Patch([]byte(`{"directoryName": "Cafes", "showPrice": "sometimes"}`))
	if err == nil {
		t.Fatal("expected patch error")
	}
	if w.State().DirectoryName != "" {
		t.Error("expected failed patch to leave state untouched")
	}

	err = w.Patch([]byte(`{"directoryName": "Cafes", "showMaps": true, "buttonRadius": 4, "metadataFields": ["hours", "website"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := w.State()
	if st.DirectoryName != "Cafes" || !st.Config.ShowMaps || st.Styling.Button.Radius != 4 {
		t.Errorf("unexpected state %+v", st)
	}
	if strings.Join(st.Config.MetadataFields, ",") != "hours,website" {
		t.Errorf("unexpected metadata fields %v", st.Config.MetadataFields)
	}
}

type fakeSubmitter struct {
	err   error
	calls int
	last  CreateDirectoryRequest
}

func (f *fakeSubmitter) CreateDirectory(ctx context.Context, req CreateDirectoryRequest) (*models.Directory, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Directory{ID: "d1", DirectoryName: req.DirectoryName, Config: req.Config}, nil
}

func TestSubmitRequiresDirectoryName(t *testing.T) {
	w := New(nil, nil)
	w.Set("formEmbedUrl", "https://x.test/form")
	sub := &fakeSubmitter{}

	_, err := w.Submit(context.Background(), sub)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "directoryName" {
		t.Errorf("expected directoryName field, got %s", verr.Field)
	}
	if sub.calls != 0 {
		t.Error("expected nothing to be submitted")
	}
}

func TestSubmitRequiresFormURLForPopup(t *testing.T) {
	w := New(nil, nil)
	w.Set("directoryName", "Gyms")
	sub := &fakeSubmitter{}

	_, err := w.Submit(context.Background(), sub)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if sub.calls != 0 {
		t.Error("expected nothing to be submitted")
	}
}

func TestSubmitFailureKeepsState(t *testing.T) {
	w := New(nil, nil)
	w.Set("directoryName", "Gyms")
	w.Set("formEmbedUrl", "https://x.test/form")
	w.GoTo(w.Len() - 1)
	sub := &fakeSubmitter{err: errors.New("boom")}

	if _, err := w.Submit(context.Background(), sub); err == nil {
		t.Fatal("expected submit error")
	}
	if w.Index() != w.Len()-1 {
		t.Errorf("expected index kept at %d, got %d", w.Len()-1, w.Index())
	}
	if w.State().DirectoryName != "Gyms" || w.Done() {
		t.Error("expected state kept after failed submit")
	}

	sub.err = nil
	dir, err := w.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected retry error: %v", err)
	}
	if dir.DirectoryName != "Gyms" {
		t.Errorf("expected directory Gyms, got %s", dir.DirectoryName)
	}
	if sub.calls != 2 {
		t.Errorf("expected 2 calls, got %d", sub.calls)
	}
	if !w.Done() || w.Index() != 0 || w.State().DirectoryName != "" {
		t.Error("expected wizard reset after successful submit")
	}
	if !sub.last.Code.IsValid || !strings.Contains(sub.last.Code.FooterCode, "https://x.test/form") {
		t.Error("expected generated code in request")
	}
}

func TestRequestDropsInactivePayloads(t *testing.T) {
	w := New(nil, nil)
	w.Set("redirectUrl", "https://example.com")
	w.Set("buttonType", "download")
	w.Set("downloadUrl", "https://example.com/a.pdf")

	req := w.Request()
	if req.Config.Redirect != nil {
		t.Error("expected redirect payload dropped for download button")
	}
	if req.Config.Download == nil || req.Config.Download.FileURL != "https://example.com/a.pdf" {
		t.Errorf("unexpected download payload %+v", req.Config.Download)
	}
}

func TestSlidesFor(t *testing.T) {
	if len(SlidesFor(VariantQuick)) != 4 {
		t.Error("expected 4 quick slides")
	}
	if len(SlidesFor("anything")) != 7 {
		t.Error("expected 7 full slides")
	}
}

func TestSubmitOnlyFromLastSlide(t *testing.T) {
	w := New(nil, nil)
	w.Set("directoryName", "Gyms")
	w.Set("formEmbedUrl", "https://x.test/form")
	sub := &fakeSubmitter{}

	_, err := w.Submit(context.Background(), sub)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "review" {
		t.Fatalf("expected review ValidationError, got %v", err)
	}
	if sub.calls != 0 || w.Done() || w.State().DirectoryName != "Gyms" {
		t.Error("expected nothing submitted and state kept")
	}

	w.GoTo(w.Len() - 1)
	if _, err := w.Submit(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error from last slide: %v", err)
	}
	if sub.calls != 1 {
		t.Errorf("expected 1 call, got %d", sub.calls)
	}
}
