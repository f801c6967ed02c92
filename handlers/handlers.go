// Package handlers serves the formulary dashboard over HTTP: HTML pages for browsers,
// a JSON mirror of every page, and the health endpoint.
package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/FarmaSync/edups/interfaces"
	"github.com/FarmaSync/edups/logging"
	"github.com/FarmaSync/edups/pages"
	"github.com/FarmaSync/edups/validation"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// noStore marks a response as never cacheable: every view is rendered from scratch.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

// DashboardHandlerImpl implements the interfaces.DashboardHandler interface
type DashboardHandlerImpl struct {
	shell  *pages.Shell
	health interfaces.HealthChecker
}

// NewDashboardHandler creates a new dashboard handler with injected dependencies
func NewDashboardHandler(shell *pages.Shell, health interfaces.HealthChecker) interfaces.DashboardHandler {
	return &DashboardHandlerImpl{shell: shell, health: health}
}

type menuItem struct {
	Slug   string
	Label  string
	Active bool
}

type pageData struct {
	AppTitle          string
	SearchInputLabel  string
	SearchSelectLabel string
	Menu              []menuItem
	View              pages.View
	Rows              [][]string
}

// Home renders the idle page.
func (h *DashboardHandlerImpl) Home(w http.ResponseWriter, r *http.Request) {
	h.renderHTML(w, http.StatusOK, pages.Idle())
}

// Page renders one page as HTML.
func (h *DashboardHandlerImpl) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "page")
	page, ok := pages.ParsePageID(slug)
	if !ok {
		logging.Warn("Unknown page requested", "page", slug)
		view := pages.Idle()
		view.Notices = []pages.Notice{{Level: pages.LevelError, Message: fmt.Sprintf("Unknown page '%s'.", slug)}}
		h.renderHTML(w, http.StatusNotFound, view)
		return
	}

	req, err := parseRequest(r)
	if err != nil {
		logging.Warn("Unusual user input", "page", slug, "error", err)
		view := pages.Idle()
		view.Notices = []pages.Notice{{Level: pages.LevelError, Message: err.Error()}}
		h.renderHTML(w, http.StatusBadRequest, view)
		return
	}

	h.renderHTML(w, http.StatusOK, h.shell.Render(r.Context(), page, req))
}

// PageJSON renders one page as JSON.
func (h *DashboardHandlerImpl) PageJSON(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	slug := chi.URLParam(r, "page")
	page, ok := pages.ParsePageID(slug)
	if !ok {
		RespondWithError(w, http.StatusNotFound, fmt.Sprintf("unknown page '%s'", slug))
		return
	}

	req, err := parseRequest(r)
	if err != nil {
		logging.Warn("Unusual user input", "page", slug, "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, h.shell.Render(r.Context(), page, req))
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// HealthCheck reports store liveness.
func (h *DashboardHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	noStore(w)
	status, data, code := h.health.HealthCheck()
	RespondWithJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}

func parseRequest(r *http.Request) (pages.Request, error) {
	q := r.URL.Query()
	req := pages.Request{Query: q.Get("q"), Selected: q.Get("product")}

	if err := validation.ValidateQuery(req.Query); err != nil {
		return pages.Request{}, err
	}
	if err := validation.ValidateProduct(req.Selected); err != nil {
		return pages.Request{}, err
	}
	return req, nil
}

// renderHTML executes the page template into a buffer so a template error never
// leaves a half-written page.
func (h *DashboardHandlerImpl) renderHTML(w http.ResponseWriter, code int, view pages.View) {
	data := pageData{
		AppTitle:          pages.AppTitle,
		SearchInputLabel:  pages.SearchInputLabel,
		SearchSelectLabel: pages.SearchSelectLabel,
		View:              view,
	}
	for _, p := range pages.Menu() {
		data.Menu = append(data.Menu, menuItem{Slug: p.Slug(), Label: p.Label(), Active: p == view.Page})
	}
	for i := 0; i < view.Table.Len(); i++ {
		data.Rows = append(data.Rows, view.Table.Cells(i))
	}

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page", data); err != nil {
		logging.Error("Failed to render page", "page", view.Slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	noStore(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
