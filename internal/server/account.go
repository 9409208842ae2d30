package server

import (
	"net/http"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/desertthunder/jobtrack/internal/tasks"
)

// AccountHandler serves the user namespace, the remembered session and settings.
type AccountHandler struct {
	tracker *tasks.Tracker
	mux     *http.ServeMux
}

type usernameBody struct {
	Username string `json:"username"`
}

type settingBody struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewAccountHandler creates an [AccountHandler] over tracker.
func NewAccountHandler(tracker *tasks.Tracker) *AccountHandler {
	h := &AccountHandler{tracker: tracker, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /api/users", h.listUsers)
	h.mux.HandleFunc("POST /api/users", h.saveUser)
	h.mux.HandleFunc("GET /api/users/{username}", h.getUser)
	h.mux.HandleFunc("GET /api/session", h.currentSession)
	h.mux.HandleFunc("POST /api/session", h.login)
	h.mux.HandleFunc("DELETE /api/session", h.logout)
	h.mux.HandleFunc("GET /api/settings", h.listSettings)
	h.mux.HandleFunc("GET /api/settings/{key}", h.getSetting)
	h.mux.HandleFunc("PUT /api/settings/{key}", h.setSetting)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *AccountHandler) Routes() []string {
	return []string{"/api/users", "/api/users/", "/api/session", "/api/settings", "/api/settings/"}
}

func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *AccountHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.tracker.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []*models.UserProfile{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AccountHandler) saveUser(w http.ResponseWriter, r *http.Request) {
	var body usernameBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.tracker.SaveUser(r.Context(), body.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (h *AccountHandler) getUser(w http.ResponseWriter, r *http.Request) {
	profile, found, err := h.tracker.GetUser(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeError(w, shared.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AccountHandler) currentSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.tracker.Resume(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	var body usernameBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	s, err := h.tracker.Login(r.Context(), body.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AccountHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) listSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.tracker.ListSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if settings == nil {
		settings = []*models.Setting{}
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *AccountHandler) getSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	value, found, err := h.tracker.GetSetting(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeError(w, shared.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, settingBody{Key: key, Value: value})
}

func (h *AccountHandler) setSetting(w http.ResponseWriter, r *http.Request) {
	var body settingBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	body.Key = r.PathValue("key")

	if err := h.tracker.SetSetting(r.Context(), body.Key, body.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}
