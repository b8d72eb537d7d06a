// Package gdrive uploads directory logos to the owner's Google Drive.
package gdrive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Scopes requested for the Drive connection.
var Scopes = []string{
	drive.DriveFileScope,
	oauth2api.UserinfoEmailScope,
}

// OAuthConfig creates the Google OAuth2 configuration, or nil when the app
// has no client credentials.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}
}

// Account identifies the connected Google user.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserInfo looks up the Google account behind an authorized client.
func UserInfo(ctx context.Context, client *http.Client) (*Account, error) {
	svc, err := oauth2api.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	return &Account{ID: info.Id, Email: info.Email, Name: info.Name}, nil
}

// UploadedFile describes a file stored in Drive.
type UploadedFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
	PublicURL   string `json:"publicUrl"`
}

// Upload stores data in Drive under name and makes it readable by anyone
// with the link so it can be used as an image source on listing pages.
func Upload(ctx context.Context, client *http.Client, name, mimeType string, data []byte) (*UploadedFile, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %w", err)
	}

	file, err := svc.Files.Create(&drive.File{Name: name, MimeType: mimeType}).
		Media(bytes.NewReader(data)).
		Fields("id", "name", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	_, err = svc.Permissions.Create(file.Id, &drive.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to share file: %w", err)
	}

	return &UploadedFile{
		ID:          file.Id,
		Name:        file.Name,
		WebViewLink: file.WebViewLink,
		PublicURL:   "https://drive.google.com/uc?export=view&id=" + file.Id,
	}, nil
}
