package wizard

import (
	"context"
	"strings"

	"directoryEngine/internal/models"
)

// ValidationError is returned by Submit when required input is missing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CreateDirectoryRequest is the body the wizard's terminal action sends.
type CreateDirectoryRequest struct {
	DirectoryName string                 `json:"directoryName"`
	Description   string                 `json:"description"`
	Config        models.DirectoryConfig `json:"config"`
	Styling       models.Styling         `json:"styling"`
	Code          models.GeneratedCode   `json:"code"`
}

// Submitter persists a finished wizard.
type Submitter interface {
	CreateDirectory(ctx context.Context, req CreateDirectoryRequest) (*models.Directory, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req CreateDirectoryRequest) (*models.Directory, error)

func (f SubmitterFunc) CreateDirectory(ctx context.Context, req CreateDirectoryRequest) (*models.Directory, error) {
	return f(ctx, req)
}

func (w *Wizard) validate() error {
	if strings.TrimSpace(w.state.DirectoryName) == "" {
		return &ValidationError{Field: "directoryName", Message: "Directory name is required"}
	}
	if err := w.state.normalized().Config.Validate(); err != nil {
		return &ValidationError{Field: "buttonType", Message: err.Error()}
	}
	return nil
}

// Request builds the creation request from the current state.
func (w *Wizard) Request() CreateDirectoryRequest {
	s := w.state.normalized()
	return CreateDirectoryRequest{
		DirectoryName: s.DirectoryName,
		Description:   strings.TrimSpace(s.Description),
		Config:        s.Config,
		Styling:       s.Styling,
		Code:          w.gen.Generate(s.Config, s.Styling),
	}
}

// Submit validates the state and hands it to sub. It only runs from the
// last slide; field errors are reported first so they can be fixed from
// anywhere. Validation failures send nothing. When sub fails the index and
// state are kept so the call can be retried. On success the wizard resets
// and Done reports true.
func (w *Wizard) Submit(ctx context.Context, sub Submitter) (*models.Directory, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if w.index != len(w.slides)-1 {
		return nil, &ValidationError{Field: "review", Message: "Finish the remaining steps before creating the directory"}
	}

	dir, err := sub.CreateDirectory(ctx, w.Request())
	if err != nil {
		return nil, err
	}

	w.Reset()
	w.done = true
	return dir, nil
}
