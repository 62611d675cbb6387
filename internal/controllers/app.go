package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/rahul4469/area-analyzer/internal/middleware"
	"github.com/rahul4469/area-analyzer/internal/models"
	"github.com/rahul4469/area-analyzer/internal/services"
	"github.com/rahul4469/area-analyzer/internal/views"
)

// Downloader fetches the backend's current dataset.
type Downloader interface {
	Download(ctx context.Context) (*services.Download, error)
}

// AppController serves the App shell: the UploadForm and QueryBox panel.
type AppController struct {
	queries        *services.QueryService
	downloader     Downloader
	templates      AppTemplates
	maxUploadBytes int64
	backendURL     string
}

// AppTemplates holds the templates for the App shell.
type AppTemplates struct {
	App *views.Template
}

// NewAppController creates a new AppController.
func NewAppController(
	queries *services.QueryService,
	downloader Downloader,
	templates AppTemplates,
	maxUploadBytes int64,
	backendURL string,
) *AppController {
	return &AppController{
		queries:        queries,
		downloader:     downloader,
		templates:      templates,
		maxUploadBytes: maxUploadBytes,
		backendURL:     backendURL,
	}
}

// AppData holds data for the App shell template.
type AppData struct {
	Panel models.PanelView
	Area  string
	Areas string
}

// GetApp mounts a fresh panel, tearing down whatever this browser had
// mounted before. A reload therefore starts from an empty page.
func (c *AppController) GetApp(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustCurrentSession(r)
	panel := session.MountPanel()

	c.render(w, r, http.StatusOK, panel, &views.TemplateData{}, AppData{})
}

// PostAnalyze handles the QueryBox analyze button.
func (c *AppController) PostAnalyze(w http.ResponseWriter, r *http.Request) {
	panel := middleware.MustCurrentSession(r).Panel()

	if err := r.ParseForm(); err != nil {
		c.render(w, r, http.StatusBadRequest, panel, &views.TemplateData{Error: "Invalid form data"}, AppData{})
		return
	}

	area := r.FormValue("area")
	c.queries.Analyze(r.Context(), panel, area)

	c.render(w, r, http.StatusOK, panel, &views.TemplateData{}, AppData{Area: area})
}

// PostCompare handles the QueryBox compare button.
func (c *AppController) PostCompare(w http.ResponseWriter, r *http.Request) {
	panel := middleware.MustCurrentSession(r).Panel()

	if err := r.ParseForm(); err != nil {
		c.render(w, r, http.StatusBadRequest, panel, &views.TemplateData{Error: "Invalid form data"}, AppData{})
		return
	}

	areas := r.FormValue("areas")
	c.queries.Compare(r.Context(), panel, areas)

	c.render(w, r, http.StatusOK, panel, &views.TemplateData{}, AppData{Areas: areas})
}

// APIAnalyze is the JSON form of PostAnalyze. It answers with whatever this
// call produced: the backend document or {ok:false,error}.
func (c *AppController) APIAnalyze(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.queries.Analyze(r.Context(), apiPanel(r), r.URL.Query().Get("area")))
}

// APICompare is the JSON form of PostCompare.
func (c *AppController) APICompare(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.queries.Compare(r.Context(), apiPanel(r), r.URL.Query().Get("areas")))
}

// apiPanel is the browser's panel when the call carries its session cookie.
// Cookie-less callers get a panel that lives only for this request.
func apiPanel(r *http.Request) *models.Panel {
	if session := middleware.CurrentSession(r); session != nil {
		return session.Panel()
	}
	return models.NewPanel()
}

// GetDownload streams the backend's current dataset to the browser. A
// backend failure is shown on the upload form instead.
func (c *AppController) GetDownload(w http.ResponseWriter, r *http.Request) {
	dl, err := c.downloader.Download(r.Context())
	if err != nil {
		log.Printf("Download failed: %v", err)
		panel := middleware.MustCurrentSession(r).Panel()
		panel.SetUploadMessage(models.MessageError, fmt.Sprintf("Download failed: %v", err))
		c.render(w, r, http.StatusBadGateway, panel, &views.TemplateData{}, AppData{})
		return
	}
	defer dl.Body.Close()

	contentType := dl.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	if dl.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dl.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, dl.Body); err != nil {
		log.Printf("Download copy interrupted: %v", err)
	}
}

// render snapshots panel into the App shell template.
func (c *AppController) render(w http.ResponseWriter, r *http.Request, status int, panel *models.Panel, data *views.TemplateData, page AppData) {
	page.Panel = panel.View()

	data.Title = "Area Analyzer"
	data.BackendURL = c.backendURL
	data.Data = page
	c.templates.App.ExecuteHTTPWithStatus(w, r, status, data)
}
