package models

import "time"

// OAuth providers
const (
	ProviderGHL         = "ghl"
	ProviderGoogleDrive = "google_drive"
)

// OAuthConnection is a stored third-party connection for a location. The
// token itself is kept encrypted and never serialized to clients.
type OAuthConnection struct {
	LocationID   string    `json:"locationId"`
	Provider     string    `json:"provider"`
	AccountID    string    `json:"accountId"`
	AccountName  string    `json:"accountName"`
	CompanyID    string    `json:"companyId,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ConnectedAt  time.Time `json:"connectedAt"`
	TokenExpires time.Time `json:"tokenExpires"`
}

// SessionData represents session information
type SessionData struct {
	LocationID    string    `json:"location_id"`
	UserID        string    `json:"user_id"`
	CompanyID     string    `json:"company_id"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsExpired checks if the session has expired
func (s *SessionData) IsExpired(maxAge int) bool {
	return time.Since(s.CreatedAt) > time.Duration(maxAge)*time.Second
}
