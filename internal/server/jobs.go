package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jobtrack/internal/formatter"
	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/desertthunder/jobtrack/internal/tasks"
)

// JobsHandler serves the job record endpoints and the spreadsheet export.
type JobsHandler struct {
	tracker *tasks.Tracker
	logger  *log.Logger
	mux     *http.ServeMux
}

// NewJobsHandler creates a [JobsHandler] over tracker.
func NewJobsHandler(tracker *tasks.Tracker, logger *log.Logger) *JobsHandler {
	h := &JobsHandler{tracker: tracker, logger: logger, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /api/jobs", h.search)
	h.mux.HandleFunc("POST /api/jobs", h.upsert)
	h.mux.HandleFunc("DELETE /api/jobs", h.clear)
	h.mux.HandleFunc("GET /api/jobs/{id}", h.get)
	h.mux.HandleFunc("PUT /api/jobs/{id}", h.edit)
	h.mux.HandleFunc("DELETE /api/jobs/{id}", h.delete)
	h.mux.HandleFunc("GET /api/export", h.export)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *JobsHandler) Routes() []string {
	return []string{"/api/jobs", "/api/jobs/", "/api/export"}
}

func (h *JobsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// search serves GET /api/jobs?q=&limit=&offset=
func (h *JobsHandler) search(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFor(r.Context(), h.tracker, r)
	if err != nil {
		writeError(w, err)
		return
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.tracker.Search(r.Context(), s, models.Query{Text: r.URL.Query().Get("q"), Limit: limit, Offset: offset})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// upsert serves POST /api/jobs. New records answer 201, updated duplicates 200.
func (h *JobsHandler) upsert(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFor(r.Context(), h.tracker, r)
	if err != nil {
		writeError(w, err)
		return
	}

	var c models.Candidate
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, err)
		return
	}

	h.save(w, r, s, c)
}

// edit serves PUT /api/jobs/{id}.
func (h *JobsHandler) edit(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFor(r.Context(), h.tracker, r)
	if err != nil {
		writeError(w, err)
		return
	}

	var c models.Candidate
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, err)
		return
	}
	c.ID = r.PathValue("id")

	h.save(w, r, s, c)
}

func (h *JobsHandler) save(w http.ResponseWriter, r *http.Request, s models.Session, c models.Candidate) {
	res, err := h.tracker.Upsert(r.Context(), s, c)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// get serves GET /api/jobs/{id}.
func (h *JobsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFor(r.Context(), h.tracker, r)
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	rec, found, err := h.tracker.Get(r.Context(), s, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("job %s not found", id)})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// delete serves DELETE /api/jobs/{id}. Absent ids are not an error.
func (h *JobsHandler) delete(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFor(r.Context(), h.tracker, r)
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := h.tracker.Delete(r.Context(), s, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// clear serves DELETE /api/jobs?backup=true&format=csv
//
// With backup (the default) the records are first written to the configured backup directory.
func (h *JobsHandler) clear(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFor(r.Context(), h.tracker, r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !boolParam(r, "backup", true) {
		n, err := h.tracker.DeleteAllForUser(r.Context(), s)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tasks.ClearResult{Deleted: n})
		return
	}

	f, err := formatter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.tracker.ClearWithBackup(r.Context(), s, h.tracker.Config().BackupDir, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// export serves GET /api/export?format=csv as a file download.
func (h *JobsHandler) export(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFor(r.Context(), h.tracker, r)
	if err != nil {
		writeError(w, err)
		return
	}

	f, err := formatter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.tracker.ExportView(r.Context(), s)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(view) == 0 {
		writeError(w, shared.ErrNoRecords)
		return
	}

	data, err := formatter.Render(f, s.User, view)
	if err != nil {
		writeError(w, err)
		return
	}

	name := formatter.ExportFilename(formatter.ExportPrefix, s.User, h.tracker.Now(), f)
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("export write failed", "user", s.User, "err", err)
	}
}
