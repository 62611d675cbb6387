package controllers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rahul4469/area-analyzer/internal/middleware"
	"github.com/rahul4469/area-analyzer/internal/models"
	"github.com/rahul4469/area-analyzer/internal/views"
)

// Upload form messages shown before any network call.
const (
	msgSelectFile      = "Select a file first."
	msgUnsupportedFile = "Only .xlsx and .xls files can be uploaded."
	msgFileTooLarge    = "The file is too large."
)

var allowedUploadExt = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// PostUpload forwards the selected spreadsheet to the backend. Validation
// failures replace the upload message without calling the backend.
func (c *AppController) PostUpload(w http.ResponseWriter, r *http.Request) {
	panel := middleware.MustCurrentSession(r).Panel()

	// the body is already capped by middleware.LimitBody
	if err := r.ParseMultipartForm(c.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			c.rejectUpload(w, r, panel, http.StatusRequestEntityTooLarge, msgFileTooLarge)
			return
		}
		log.Printf("Failed to parse upload form: %v", err)
		c.render(w, r, http.StatusBadRequest, panel, &views.TemplateData{Error: "Invalid form data"}, AppData{})
		return
	}

	// a missing file part leaves header nil
	file, header, _ := r.FormFile("file")
	if file != nil {
		defer file.Close()
	}
	if err := validateUpload(header); err != nil {
		msg := msgSelectFile
		if errors.Is(err, models.ErrUnsupportedFile) {
			msg = msgUnsupportedFile
		}
		c.rejectUpload(w, r, panel, http.StatusUnprocessableEntity, msg)
		return
	}

	c.queries.Upload(r.Context(), panel, header.Filename, file)

	c.render(w, r, http.StatusOK, panel, &views.TemplateData{}, AppData{})
}

// UploadTooLarge answers an upload whose declared size is over the limit.
// It runs without the body ever being read.
func (c *AppController) UploadTooLarge(w http.ResponseWriter, r *http.Request) {
	panel := middleware.MustCurrentSession(r).Panel()
	c.rejectUpload(w, r, panel, http.StatusRequestEntityTooLarge, msgFileTooLarge)
}

func (c *AppController) rejectUpload(w http.ResponseWriter, r *http.Request, panel *models.Panel, status int, msg string) {
	panel.SetUploadMessage(models.MessageWarning, msg)
	c.render(w, r, status, panel, &views.TemplateData{}, AppData{})
}

// validateUpload applies the same rules as the file picker.
func validateUpload(header *multipart.FileHeader) error {
	if header == nil || header.Filename == "" {
		return models.ErrNoFile
	}
	if !allowedUploadExt[strings.ToLower(filepath.Ext(header.Filename))] {
		return models.ErrUnsupportedFile
	}
	return nil
}
