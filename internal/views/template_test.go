package views

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/area-analyzer/internal/models"
	"github.com/rahul4469/area-analyzer/templates"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.gohtml":   {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{template "flash" .}}{{template "content" .}}{{end}}`)},
		"partials/flash.gohtml": {Data: []byte(`{{define "flash"}}{{if .Warning}}<p class="warn">{{.Warning}}</p>{{end}}{{end}}`)},
		"pages/page.gohtml":     {Data: []byte(`{{define "content"}}<form>{{csrfField}}</form><pre>{{toJSON .Data}}</pre>{{end}}`)},
	}
}

func TestExecuteHTTPWithStatus(t *testing.T) {
	tpl, err := ParseFS(testFS(), "pages/page.gohtml")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
	data := &TemplateData{
		Title:   "Test",
		Warning: "Please enter an area",
		Data:    map[string]any{"ok": false},
	}
	tpl.ExecuteHTTPWithStatus(rec, req, http.StatusUnprocessableEntity, data)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "/somewhere", data.CurrentPath)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Test</title>")
	assert.Contains(t, body, `<p class="warn">Please enter an area</p>`)
	assert.Contains(t, body, "&#34;ok&#34;: false")
}

func TestParseFSMissingPage(t *testing.T) {
	_, err := ParseFS(testFS(), "pages/missing.gohtml")
	assert.Error(t, err)
}

func TestExecuteHTTPTemplateError(t *testing.T) {
	fsys := testFS()
	fsys["pages/broken.gohtml"] = &fstest.MapFile{Data: []byte(`{{define "content"}}{{template "nope" .}}{{end}}`)}

	tpl, err := ParseFS(fsys, "pages/broken.gohtml")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	tpl.ExecuteHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), &TemplateData{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEmbeddedPagesParse(t *testing.T) {
	for _, page := range []string{"pages/app.gohtml", "pages/placeholder.gohtml"} {
		_, err := ParseFS(templates.FS, page)
		assert.NoError(t, err, page)
	}
}

func TestMessageClass(t *testing.T) {
	assert.Contains(t, messageClass(models.MessageSuccess), "green")
	assert.Contains(t, messageClass(models.MessageError), "red")
	assert.Contains(t, messageClass(models.MessageInfo), "blue")
}
