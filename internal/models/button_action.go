package models

import (
	"fmt"
	"strings"
)

// ButtonType selects what a directory's action button does on the listing page.
type ButtonType string

const (
	ButtonPopup    ButtonType = "popup"
	ButtonRedirect ButtonType = "redirect"
	ButtonDownload ButtonType = "download"
	ButtonEmbed    ButtonType = "embed"
)

// ButtonTypes lists the accepted button types in display order.
var ButtonTypes = []ButtonType{ButtonPopup, ButtonRedirect, ButtonDownload, ButtonEmbed}

// IsValid reports whether t is a known button type.
func (t ButtonType) IsValid() bool {
	switch t {
	case ButtonPopup, ButtonRedirect, ButtonDownload, ButtonEmbed:
		return true
	default:
		return false
	}
}

// RedirectOptions is the payload of a redirect button.
type RedirectOptions struct {
	URL    string `json:"url"`
	NewTab bool   `json:"newTab,omitempty"`
}

// DownloadOptions is the payload of a download button.
type DownloadOptions struct {
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName,omitempty"`
}

// ButtonAction is the tagged variant behind the action button. Only the
// payload matching Type is read. Popup and embed buttons have no payload of
// their own: they use the form URL of the owning DirectoryConfig.
type ButtonAction struct {
	Type     ButtonType       `json:"buttonType"`
	Redirect *RedirectOptions `json:"redirect,omitempty"`
	Download *DownloadOptions `json:"download,omitempty"`
}

// Constructor functions for type safety
func NewPopupAction() ButtonAction {
	return ButtonAction{Type: ButtonPopup}
}

func NewEmbedAction() ButtonAction {
	return ButtonAction{Type: ButtonEmbed}
}

func NewRedirectAction(url string, newTab bool) ButtonAction {
	return ButtonAction{
		Type:     ButtonRedirect,
		Redirect: &RedirectOptions{URL: url, NewTab: newTab},
	}
}

func NewDownloadAction(fileURL, fileName string) ButtonAction {
	return ButtonAction{
		Type:     ButtonDownload,
		Download: &DownloadOptions{FileURL: fileURL, FileName: fileName},
	}
}

// UsesForm reports whether the action loads the configured form URL.
func (a ButtonAction) UsesForm() bool {
	return a.Type == ButtonPopup || a.Type == ButtonEmbed
}

// validate checks the payload for the selected variant. formURL is the
// owning config's form URL.
func (a ButtonAction) validate(formURL string) error {
	switch a.Type {
	case ButtonPopup, ButtonEmbed:
		if strings.TrimSpace(formURL) == "" {
			return fmt.Errorf("%s button requires a form embed URL", a.Type)
		}
	case ButtonRedirect:
		if a.Redirect == nil || strings.TrimSpace(a.Redirect.URL) == "" {
			return fmt.Errorf("redirect button requires a URL")
		}
	case ButtonDownload:
		if a.Download == nil || strings.TrimSpace(a.Download.FileURL) == "" {
			return fmt.Errorf("download button requires a file URL")
		}
	case "":
		return fmt.Errorf("buttonType is required")
	default:
		return fmt.Errorf("unknown buttonType %q", a.Type)
	}
	return nil
}
