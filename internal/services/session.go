// Package services holds the session and token logic shared by handlers.
package services

import (
	"directoryEngine/internal/models"
)

// Error definitions
var (
	ErrInvalidSession = NewError("invalid session")
	ErrExpiredSession = NewError("session expired")
)

// Error represents a service error
type Error struct {
	message string
}

func NewError(message string) *Error {
	return &Error{message: message}
}

func (e *Error) Error() string {
	return e.message
}

// SessionService decides whether an admin session may act for a location.
type SessionService struct {
	maxAge int
}

// NewSessionService creates a service that expires sessions after maxAge
// seconds.
func NewSessionService(maxAge int) *SessionService {
	return &SessionService{maxAge: maxAge}
}

// ValidateSession validates a session
func (s *SessionService) ValidateSession(sessionData *models.SessionData) error {
	if sessionData == nil || !sessionData.Authenticated || sessionData.LocationID == "" {
		return ErrInvalidSession
	}
	if sessionData.IsExpired(s.maxAge) {
		return ErrExpiredSession
	}
	return nil
}
