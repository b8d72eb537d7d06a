package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
	"directoryEngine/internal/wizard"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// wizardSession is one in-progress configuration wizard. The mutex
// serializes HTTP and websocket operations on the same wizard.
type wizardSession struct {
	mu         sync.Mutex
	id         string
	variant    string
	locationID string
	wiz        *wizard.Wizard
}

// WizardResponse is returned by every wizard endpoint.
type WizardResponse struct {
	ID        string            `json:"id"`
	Variant   string            `json:"variant"`
	Done      bool              `json:"done"`
	View      wizard.View       `json:"view"`
	Directory *models.Directory `json:"directory,omitempty"`
}

func (s *wizardSession) response() WizardResponse {
	return WizardResponse{ID: s.id, Variant: s.variant, Done: s.wiz.Done(), View: s.wiz.View()}
}

func (app *App) handleCreateWizard(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}

	variant := r.URL.Query().Get("variant")
	if variant != wizard.VariantQuick {
		variant = wizard.VariantFull
	}

	sess := &wizardSession{
		id:         uuid.NewString(),
		variant:    variant,
		locationID: locationID,
		wiz:        wizard.New(wizard.SlidesFor(variant), app.Generator),
	}
	app.Wizards.Set(sess.id, sess)

	utils.RespondWithJSON(w, http.StatusCreated, sess.response())
}

// wizardFor looks up a wizard owned by the request's location.
func (app *App) wizardFor(w http.ResponseWriter, r *http.Request) (*wizardSession, bool) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return nil, false
	}
	id := mux.Vars(r)["id"]
	v, found := app.Wizards.Get(id)
	if !found {
		utils.NotFoundError(w, "Wizard")
		return nil, false
	}
	sess := v.(*wizardSession)
	if sess.locationID != locationID {
		utils.NotFoundError(w, "Wizard")
		return nil, false
	}
	app.Wizards.Touch(id)
	return sess, true
}

// withWizard runs fn under the wizard lock and responds with its view.
func (app *App) withWizard(w http.ResponseWriter, r *http.Request, fn func(*wizardSession) error) {
	sess, ok := app.wizardFor(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess); err != nil {
		utils.ValidationError(w, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sess.response())
}

func (app *App) handleGetWizard(w http.ResponseWriter, r *http.Request) {
	app.withWizard(w, r, func(*wizardSession) error { return nil })
}

func (app *App) handleWizardNext(w http.ResponseWriter, r *http.Request) {
	app.withWizard(w, r, func(s *wizardSession) error {
		s.wiz.Next()
		return nil
	})
}

func (app *App) handleWizardPrev(w http.ResponseWriter, r *http.Request) {
	app.withWizard(w, r, func(s *wizardSession) error {
		s.wiz.Prev()
		return nil
	})
}

func (app *App) handleWizardGoTo(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		utils.BadRequestError(w, "index must be a number")
		return
	}
	app.withWizard(w, r, func(s *wizardSession) error {
		s.wiz.GoTo(index)
		return nil
	})
}

func (app *App) handleWizardPatch(w http.ResponseWriter, r *http.Request) {
	var patch json.RawMessage
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}
	app.withWizard(w, r, func(s *wizardSession) error {
		return s.wiz.Patch(patch)
	})
}

func (app *App) handleDeleteWizard(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.wizardFor(w, r)
	if !ok {
		return
	}
	app.Wizards.Delete(sess.id)
	utils.RespondWithSuccess(w, nil, "Wizard discarded")
}

// submitWizard runs the terminal action. On failure the wizard keeps its
// slide and state so the user can retry.
func (app *App) submitWizard(ctx context.Context, sess *wizardSession) (*models.Directory, error) {
	dir, err := sess.wiz.Submit(ctx, app.directorySubmitter(sess.locationID))
	if err != nil {
		app.Logger.WithError(err).WithFields(map[string]interface{}{
			"wizard_id":   sess.id,
			"location_id": sess.locationID,
		}).Warn("Wizard submission failed")
		return nil, err
	}
	return dir, nil
}

func (app *App) handleWizardSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.wizardFor(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	dir, err := app.submitWizard(r.Context(), sess)
	if err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			utils.RespondWithFieldError(w, verr.Field, verr.Message)
			return
		}
		app.respondWithStoreError(w, r, err)
		return
	}

	resp := sess.response()
	resp.Directory = dir
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// liveRequest is one websocket operation on a wizard.
type liveRequest struct {
	Op    string          `json:"op"` // next, prev, goto, set, patch, submit, view
	Index int             `json:"index,omitempty"`
	Key   string          `json:"key,omitempty"`
	Value string          `json:"value,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
}

// liveResponse carries the refreshed view after every operation.
type liveResponse struct {
	Type   string          `json:"type"` // "view" or "error"
	Wizard *WizardResponse `json:"wizard,omitempty"`
	Field  string          `json:"field,omitempty"`
	Error  string          `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: sameOrigin,
}

// sameOrigin allows non-browser clients and pages served by this host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// handleWizardLive streams the wizard view as the user edits, so the
// preview can be regenerated on every keystroke without polling.
func (app *App) handleWizardLive(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.wizardFor(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.Logger.WithError(err).WithField("wizard_id", sess.id).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	sess.mu.Lock()
	initial := sess.response()
	sess.mu.Unlock()
	if err := conn.WriteJSON(liveResponse{Type: "view", Wizard: &initial}); err != nil {
		return
	}

	for {
		var req liveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				app.Logger.WithError(err).WithField("wizard_id", sess.id).Warn("Websocket read failed")
			}
			return
		}
		app.Wizards.Touch(sess.id)

		if err := conn.WriteJSON(app.applyLive(r.Context(), sess, req)); err != nil {
			return
		}
	}
}

func (app *App) applyLive(ctx context.Context, sess *wizardSession, req liveRequest) liveResponse {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	var dir *models.Directory
	var err error
	switch req.Op {
	case "next":
		sess.wiz.Next()
	case "prev":
		sess.wiz.Prev()
	case "goto":
		sess.wiz.GoTo(req.Index)
	case "set":
		err = sess.wiz.Set(req.Key, req.Value)
	case "patch":
		err = sess.wiz.Patch(req.State)
	case "submit":
		dir, err = app.submitWizard(ctx, sess)
	case "view", "":
	default:
		return liveResponse{Type: "error", Error: "unknown op: " + req.Op}
	}

	if err != nil {
		resp := liveResponse{Type: "error", Error: err.Error()}
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			resp.Field = verr.Field
		} else if req.Op == "submit" && errorType(err) == "" {
			resp.Error = "Failed to save directory"
		}
		view := sess.response()
		resp.Wizard = &view
		return resp
	}

	view := sess.response()
	view.Directory = dir
	return liveResponse{Type: "view", Wizard: &view}
}
