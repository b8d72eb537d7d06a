package main

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
	"github.com/gorilla/mux"
)

// Review actions
const (
	ReviewApprove = "approve"
	ReviewReject  = "reject"
)

// ReviewRequest approves or rejects a public submission.
type ReviewRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// ListSubmissions returns public submissions still waiting for review.
func (app *App) ListSubmissions(ctx context.Context, locationID, directoryName string) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
		WHERE location_id = ? AND active = 0 AND sync_status = ?`
	args := []interface{}{locationID, models.SyncPending}
	if directoryName != "" {
		query += ` AND directory_name = ?`
		args = append(args, directoryName)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := app.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to list submissions", err)
	}
	defer rows.Close()

	submissions := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, WrapDatabaseError(ErrTypeConnection, "failed to scan submission", err)
		}
		submissions = append(submissions, *l)
	}
	return submissions, rows.Err()
}

// ReviewSubmission publishes an approved submission or removes a rejected
// one. Listings that are already live cannot be reviewed.
func (app *App) ReviewSubmission(ctx context.Context, locationID, id, action string) (*models.Listing, error) {
	var reviewed *models.Listing
	err := app.WithTransaction(ctx, func(tx *sql.Tx) error {
		l, err := scanListing(tx.QueryRowContext(ctx,
			`SELECT `+listingColumns+` FROM listings WHERE id = ? AND location_id = ?`, id, locationID))
		if err == sql.ErrNoRows {
			return notFound("submission")
		}
		if err != nil {
			return WrapDatabaseError(ErrTypeConnection, "failed to query submission", err)
		}
		if l.Active || l.SyncStatus != models.SyncPending {
			return WrapDatabaseError(ErrTypeConstraint, "listing is not awaiting review", nil)
		}

		switch action {
		case ReviewApprove:
			l.Active = true
			l.UpdatedAt = time.Now().UTC()
			if _, err := tx.ExecContext(ctx, `UPDATE listings SET active = 1, updated_at = ? WHERE id = ?`,
				l.UpdatedAt, l.ID); err != nil {
				return WrapDatabaseError(ErrTypeConnection, "failed to approve submission", err)
			}
		case ReviewReject:
			if _, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, l.ID); err != nil {
				return WrapDatabaseError(ErrTypeConnection, "failed to reject submission", err)
			}
		default:
			return WrapDatabaseError(ErrTypeValidation, "action must be 'approve' or 'reject'", nil)
		}
		reviewed = l
		return nil
	})
	return reviewed, err
}

func (app *App) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	submissions, err := app.ListSubmissions(r.Context(), locationID, r.URL.Query().Get("directoryName"))
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, submissions)
}

func (app *App) handleReviewSubmission(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))

	l, err := app.ReviewSubmission(r.Context(), locationID, mux.Vars(r)["id"], req.Action)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}

	reviewer, _ := utils.GetUserID(r)
	app.Logger.WithFields(map[string]interface{}{
		"location_id": locationID,
		"listing_id":  l.ID,
		"action":      req.Action,
		"reason":      req.Reason,
		"reviewed_by": reviewer,
	}).Info("Submission reviewed")

	if req.Action == ReviewReject {
		utils.RespondWithSuccess(w, nil, "Submission rejected")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, l)
}
