package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/auth"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/draft"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/inventory"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/models"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/storage"

	"github.com/go-chi/chi/v5"
)

const authCookie = "catalog_admin"

// API is the HTTP surface: the public catalog plus the admin-gated
// inventory operations.
type API struct {
	gate   *auth.Gate
	inv    *inventory.Controller
	drafts *draft.Manager
	blobs  *storage.Storage // nil when blob storage is not configured
}

func New(gate *auth.Gate, inv *inventory.Controller, drafts *draft.Manager, blobs *storage.Storage) *API {
	return &API{gate: gate, inv: inv, drafts: drafts, blobs: blobs}
}

// requestToken pulls the session token from the Authorization header or
// the auth cookie.
func requestToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie(authCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// AdminMiddleware rejects requests without a valid admin session.
func (a *API) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.gate.ValidateToken(requestToken(r)) {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	// Public endpoints
	r.Get("/cards", a.listCards)
	r.Post("/auth/login", a.login)
	r.Post("/auth/logout", a.logout)
	r.Get("/auth/check", a.checkAuth)
	r.Get("/auth/lockout", a.checkLockout)

	// Admin endpoints
	r.Group(func(r chi.Router) {
		r.Use(a.AdminMiddleware)

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", a.createCard)
			r.Put("/{id}", a.updateCard)
			r.Delete("/{id}", a.deleteCard)
			r.Post("/{id}/sold", a.toggleSold)
			r.Post("/bulk/sold", a.bulkSetSold)
			r.Post("/bulk/delete", a.bulkDelete)
		})

		r.Route("/select", func(r chi.Router) {
			r.Get("/", a.getSelection)
			r.Post("/", a.setSelectMode)
			r.Post("/{id}", a.toggleSelect)
		})

		r.Route("/draft", func(r chi.Router) {
			r.Get("/", a.getDraft)
			r.Put("/", a.putDraft)
			r.Delete("/", a.deleteDraft)
		})

		r.Post("/upload", a.upload)
	})

	return r
}

// Auth handlers

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := a.gate.AttemptLogin(req.Secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	switch result.Status {
	case auth.LoginLockedOut:
		respondJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":             "Too many attempts",
			"retryAfterMinutes": auth.RemainingMinutes(result.RetryAfter),
		})
	case auth.LoginIncorrect:
		respondJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error":             "Incorrect password",
			"attemptsRemaining": result.AttemptsLeft,
		})
	case auth.LoginOK:
		http.SetCookie(w, &http.Cookie{
			Name:     authCookie,
			Value:    result.Token,
			Path:     "/",
			Expires:  result.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
		})
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"token":     result.Token,
			"expiresAt": result.ExpiresAt.UnixMilli(),
		})
	}
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	a.gate.Logout()

	// Logging out abandons any in-progress selection.
	a.inv.ExitSelectMode()

	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// checkAuth reports the session state. With ?admin=true and no valid
// session it also tells the front end to open the login prompt; that
// query parameter is the sole admin entry trigger.
func (a *API) checkAuth(w http.ResponseWriter, r *http.Request) {
	authenticated := a.gate.ValidateToken(requestToken(r))

	resp := map[string]interface{}{"authenticated": authenticated}
	if r.URL.Query().Get("admin") == "true" && !authenticated {
		resp["promptLogin"] = true
	}
	respondJSON(w, http.StatusOK, resp)
}

func (a *API) checkLockout(w http.ResponseWriter, r *http.Request) {
	locked, remaining := a.gate.CheckLockout()
	resp := map[string]interface{}{"locked": locked}
	if locked {
		resp["remainingMinutes"] = auth.RemainingMinutes(remaining)
	}
	respondJSON(w, http.StatusOK, resp)
}

// Card handlers

func (a *API) listCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	section := q.Get("section")
	if section == "" {
		section = models.SectionForSale
	}
	filter := q.Get("filter")
	if filter == "" {
		filter = inventory.FilterAll
	}

	a.inv.SetView(section, filter, q.Get("q"))
	respondJSON(w, http.StatusOK, a.inv.VisibleCards())
}

func (a *API) createCard(w http.ResponseWriter, r *http.Request) {
	var card models.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if card.Section == "" {
		card.Section = models.SectionForSale
	}

	saved, err := a.inv.Save(r.Context(), card, false)
	if err != nil {
		respondSaveError(w, err)
		return
	}

	// A successful save always consumes the draft.
	a.drafts.Clear()

	respondJSON(w, http.StatusCreated, saved)
}

func (a *API) updateCard(w http.ResponseWriter, r *http.Request) {
	var card models.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	card.ID = chi.URLParam(r, "id")

	saved, err := a.inv.Save(r.Context(), card, true)
	if err != nil {
		respondSaveError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, saved)
}

func (a *API) deleteCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.inv.ConfirmDelete(id); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	if err := a.inv.PerformConfirmedDelete(); err != nil {
		respondError(w, http.StatusBadGateway, "Store unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) toggleSold(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !a.inv.ToggleSold(id) {
		respondError(w, http.StatusNotFound, "Card not found")
		return
	}

	card, _ := a.inv.Get(id)
	respondJSON(w, http.StatusOK, card)
}

func (a *API) bulkSetSold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs  []string `json:"ids"`
		Sold bool     `json:"sold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.IDs == nil {
		req.IDs = a.inv.Selected()
	}

	if err := a.inv.BulkSetSold(req.IDs, req.Sold); err != nil {
		respondError(w, http.StatusBadGateway, "Store unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "updated": len(req.IDs)})
}

func (a *API) bulkDelete(w http.ResponseWriter, r *http.Request) {
	count := len(a.inv.Selected())

	if err := a.inv.ConfirmDelete(inventory.SelectionTarget); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	if err := a.inv.PerformConfirmedDelete(); err != nil {
		respondError(w, http.StatusBadGateway, "Store unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "deleted": count})
}

// Selection handlers

func (a *API) getSelection(w http.ResponseWriter, r *http.Request) {
	ids := a.inv.Selected()
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"active": a.inv.SelectMode(),
		"ids":    ids,
	})
}

func (a *API) setSelectMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Active {
		if err := a.inv.EnterSelectMode(); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
	} else {
		a.inv.ExitSelectMode()
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) toggleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.inv.ToggleSelect(id); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"selected": a.inv.Selected(),
	})
}

// Draft handlers

func (a *API) getDraft(w http.ResponseWriter, r *http.Request) {
	form, found := a.drafts.Load()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"exists": found,
		"draft":  form,
	})
}

func (a *API) putDraft(w http.ResponseWriter, r *http.Request) {
	var form draft.FormState
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := a.drafts.Save(form); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save draft")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) deleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := a.drafts.Clear(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear draft")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Upload handler

func (a *API) upload(w http.ResponseWriter, r *http.Request) {
	if a.blobs == nil {
		respondError(w, http.StatusServiceUnavailable, "Blob storage not configured")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := a.blobs.Upload(r.Context(), file, contentType, filepath.Ext(header.Filename))
	if err != nil {
		respondError(w, http.StatusBadGateway, "Upload failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// JSON helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondSaveError(w http.ResponseWriter, err error) {
	if errors.Is(err, inventory.ErrMissingFields) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondError(w, http.StatusBadGateway, "Store unavailable")
}
