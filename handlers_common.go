package main

import (
	"errors"
	"net/http"

	"directoryEngine/internal/utils"
)

// respondWithStoreError maps a manager error to an HTTP response.
func (app *App) respondWithStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		switch dbErr.Type {
		case ErrTypeNotFound:
			utils.RespondWithError(w, http.StatusNotFound, dbErr.Message)
			return
		case ErrTypeValidation:
			utils.ValidationError(w, dbErr.Message)
			return
		case ErrTypeConstraint:
			utils.RespondWithError(w, http.StatusConflict, dbErr.Message)
			return
		}
	}

	app.Logger.WithError(err).WithFields(map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("Store operation failed")
	utils.DatabaseError(w)
}
