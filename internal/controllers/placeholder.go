package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rahul4469/area-analyzer/internal/middleware"
	"github.com/rahul4469/area-analyzer/internal/models"
	"github.com/rahul4469/area-analyzer/internal/services"
	"github.com/rahul4469/area-analyzer/internal/views"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PlaceholderController serves the quick view page that fills a table and
// chart with placeholder metrics.
type PlaceholderController struct {
	analyzer  *services.PlaceholderAnalyzer
	charts    *services.ChartRenderer
	templates PlaceholderTemplates
}

// PlaceholderTemplates holds the templates for the quick view page.
type PlaceholderTemplates struct {
	Page *views.Template
}

// NewPlaceholderController creates a new PlaceholderController.
func NewPlaceholderController(
	analyzer *services.PlaceholderAnalyzer,
	charts *services.ChartRenderer,
	templates PlaceholderTemplates,
) *PlaceholderController {
	return &PlaceholderController{
		analyzer:  analyzer,
		charts:    charts,
		templates: templates,
	}
}

// PlaceholderData holds data for the quick view template.
type PlaceholderData struct {
	Board models.BoardView
	Area  string
}

// GetPlaceholder mounts a fresh board, disposing the previous chart.
func (c *PlaceholderController) GetPlaceholder(w http.ResponseWriter, r *http.Request) {
	board := middleware.MustCurrentSession(r).MountBoard()
	c.render(w, r, http.StatusOK, board, &views.TemplateData{}, "")
}

// PostPlaceholder fills the board for the submitted area. An empty area
// leaves the table, summary and chart as they were.
func (c *PlaceholderController) PostPlaceholder(w http.ResponseWriter, r *http.Request) {
	board := middleware.MustCurrentSession(r).Board()

	if err := r.ParseForm(); err != nil {
		c.render(w, r, http.StatusBadRequest, board, &views.TemplateData{Error: "Invalid form data"}, "")
		return
	}
	area := r.FormValue("area")

	result, err := c.analyzer.Analyze(area)
	if errors.Is(err, models.ErrEmptyArea) {
		c.render(w, r, http.StatusUnprocessableEntity, board, &views.TemplateData{Warning: "Please enter an area."}, area)
		return
	}
	if err != nil {
		log.Printf("Placeholder analysis failed: %v", err)
		c.render(w, r, http.StatusInternalServerError, board, &views.TemplateData{Error: "Analysis failed"}, area)
		return
	}

	chart, err := c.charts.Render(result.Dataset)
	if err != nil {
		log.Printf("Chart rendering failed: %v", err)
		c.render(w, r, http.StatusInternalServerError, board, &views.TemplateData{Error: "Could not draw the chart"}, area)
		return
	}

	if !board.Apply(result, chart) {
		log.Printf("board for %q was torn down, dropping result", result.Area)
	}
	c.render(w, r, http.StatusOK, board, &views.TemplateData{}, area)
}

// GetChart serves the PNG of the live chart. Disposed charts are gone.
func (c *PlaceholderController) GetChart(w http.ResponseWriter, r *http.Request) {
	board := middleware.MustCurrentSession(r).Board()

	chart, err := board.Chart(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Chart not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(chart.PNG)
}

// GetExport downloads the current table as a workbook.
func (c *PlaceholderController) GetExport(w http.ResponseWriter, r *http.Request) {
	board := middleware.MustCurrentSession(r).Board()

	data, err := services.ExportBoard(board.View().Result)
	if errors.Is(err, models.ErrNothingToExport) {
		c.render(w, r, http.StatusConflict, board, &views.TemplateData{Warning: "Nothing to export yet. Analyze an area first."}, "")
		return
	}
	if err != nil {
		log.Printf("Export failed: %v", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="placeholder.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (c *PlaceholderController) render(w http.ResponseWriter, r *http.Request, status int, board *models.Board, data *views.TemplateData, area string) {
	data.Title = "Quick view"
	data.Data = PlaceholderData{
		Board: board.View(),
		Area:  area,
	}
	c.templates.Page.ExecuteHTTPWithStatus(w, r, status, data)
}
