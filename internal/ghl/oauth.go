// Package ghl is a thin client for the GoHighLevel marketplace API.
package ghl

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// Marketplace OAuth endpoints
const (
	AuthURL  = "https://marketplace.gohighlevel.com/oauth/chooselocation"
	TokenURL = "https://services.leadconnectorhq.com/oauth/token"
)

// DefaultScopes are requested when none are configured.
var DefaultScopes = []string{
	"locations.readonly",
	"products.readonly",
	"products.write",
	"products/prices.write",
	"medias.write",
}

// OAuthConfig creates the marketplace OAuth2 configuration. It returns nil
// when the app has no client credentials.
func OAuthConfig(clientID, clientSecret, redirectURL string, scopes []string) *oauth2.Config {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// TokenIdentity is the account information GHL returns alongside a token.
type TokenIdentity struct {
	LocationID string
	CompanyID  string
	UserID     string
	UserType   string
}

// IdentityFromToken reads the extra fields of a marketplace token response.
func IdentityFromToken(tok *oauth2.Token) (TokenIdentity, error) {
	str := func(key string) string {
		if v, ok := tok.Extra(key).(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}
	id := TokenIdentity{
		LocationID: str("locationId"),
		CompanyID:  str("companyId"),
		UserID:     str("userId"),
		UserType:   str("userType"),
	}
	if id.LocationID == "" {
		return id, fmt.Errorf("token response has no locationId")
	}
	return id, nil
}
