package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"directoryEngine/internal/models"
	"directoryEngine/internal/services"
	"directoryEngine/internal/utils"
	"github.com/justinas/nosurf"
)

// Cookie session names
const (
	authSessionName  = "auth-session"
	oauthSessionName = "oauth-session"
)

func (app *App) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		fields := map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
			"status_code": wrapper.statusCode,
			"remote_addr": getRealIP(r),
			"user_agent":  r.UserAgent(),
		}
		app.Logger.WithFields(fields).Info("HTTP request completed")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Hijack lets the live wizard socket upgrade through the logger.
func (w *responseWriterWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (w *responseWriterWrapper) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (app *App) RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				app.Logger.WithFields(map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"panic":       fmt.Sprintf("%v", err),
					"remote_addr": r.RemoteAddr,
				}).Error("Panic recovered in HTTP handler")
				utils.InternalServerError(w, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// SecurityHeadersMiddleware sets the response headers shared by every
// route. Public form pages are meant to be framed by GHL funnels, so
// framing is only restricted on the API.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		if len(r.URL.Path) >= 5 && r.URL.Path[:5] == "/api/" {
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Cache-Control", "no-store")
		}
		next.ServeHTTP(w, r)
	})
}

// loadSession reads and validates the admin session cookie.
func (app *App) loadSession(r *http.Request) (*models.SessionData, error) {
	session, err := app.SessionStore.Get(r, authSessionName)
	if err != nil {
		return nil, services.ErrInvalidSession
	}

	sessionDataJSON, ok := session.Values["session_data"].(string)
	if !ok || sessionDataJSON == "" {
		return nil, services.ErrInvalidSession
	}

	var sessionData models.SessionData
	if err := json.Unmarshal([]byte(sessionDataJSON), &sessionData); err != nil {
		return nil, services.ErrInvalidSession
	}

	if err := app.Sessions.ValidateSession(&sessionData); err != nil {
		return nil, err
	}
	return &sessionData, nil
}

// saveSession binds the browser to a GHL location.
func (app *App) saveSession(w http.ResponseWriter, r *http.Request, data models.SessionData) error {
	session, err := app.SessionStore.Get(r, authSessionName)
	if err != nil && session == nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	data.Authenticated = true
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	session.Values["session_data"] = string(payload)
	return session.Save(r, w)
}

// clearSession drops the admin session cookie.
func (app *App) clearSession(w http.ResponseWriter, r *http.Request) error {
	session, _ := app.SessionStore.Get(r, authSessionName)
	if session == nil {
		return nil
	}
	delete(session.Values, "session_data")
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// AuthMiddleware requires a session bound to a GHL location and exposes
// the location through the request context.
func (app *App) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionData, err := app.loadSession(r)
		if err != nil {
			app.Logger.WithFields(map[string]interface{}{
				"path":   r.URL.Path,
				"reason": err.Error(),
			}).Debug("Rejected unauthenticated request")
			if err == services.ErrExpiredSession {
				app.clearSession(w, r)
				utils.RespondWithError(w, http.StatusUnauthorized, "Session expired")
				return
			}
			utils.AuthenticationError(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithSession(r.Context(), sessionData)))
	})
}

// CSRFMiddleware protects cookie-authenticated mutations with a double
// submit token. Clients fetch the token from /api/csrf-token and send it
// in the X-CSRF-Token header.
func (app *App) CSRFMiddleware(next http.Handler) http.Handler {
	h := nosurf.New(next)
	h.SetBaseCookie(http.Cookie{
		Path:     "/",
		HttpOnly: true,
		Secure:   app.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   app.Config.SessionMaxAge,
	})
	h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.Logger.WithError(nosurf.Reason(r)).WithFields(map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Warn("CSRF check failed")
		utils.RespondWithError(w, http.StatusForbidden, "CSRF token missing or invalid")
	}))
	return h
}
