package controllers

import (
	"bytes"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/area-analyzer/internal/middleware"
	"github.com/rahul4469/area-analyzer/internal/models"
	"github.com/rahul4469/area-analyzer/internal/services"
	"github.com/rahul4469/area-analyzer/internal/views"
	"github.com/rahul4469/area-analyzer/templates"
)

// fakeBackend answers every route with the same canned response and counts
// the calls it received.
type fakeBackend struct {
	*httptest.Server
	hits atomic.Int32
}

func newFakeBackend(t *testing.T, status int, contentType, body string) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.hits.Add(1)
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(fb.Close)
	return fb
}

// testApp is the frontend under test plus a browser-like client.
type testApp struct {
	*httptest.Server
	client *http.Client
	store  *models.SessionStore
}

func newTestApp(t *testing.T, backendURL string) *testApp {
	t.Helper()

	store := models.NewSessionStore(time.Hour)
	sessions := middleware.NewSessionMiddleware(store, "panel", false)
	backend := services.NewBackendClient(backendURL, 2*time.Second)

	appC := NewAppController(
		services.NewQueryService(backend),
		backend,
		AppTemplates{App: views.MustParseFS(templates.FS, "pages/app.gohtml")},
		1<<20,
		backendURL,
	)
	placeholderC := NewPlaceholderController(
		services.NewPlaceholderAnalyzer(rand.NewPCG(1, 2)),
		services.NewChartRenderer(),
		PlaceholderTemplates{Page: views.MustParseFS(templates.FS, "pages/placeholder.gohtml")},
	)

	r := chi.NewRouter()
	r.Get("/healthz", HealthCheck)
	r.Group(func(r chi.Router) {
		r.Use(sessions.SetSession)
		r.Get("/", appC.GetApp)
		r.With(middleware.LimitBody(1<<20, http.HandlerFunc(appC.UploadTooLarge))).
			Post("/upload", appC.PostUpload)
		r.Post("/analyze", appC.PostAnalyze)
		r.Post("/compare", appC.PostCompare)
		r.Get("/download", appC.GetDownload)
		r.Get("/placeholder", placeholderC.GetPlaceholder)
		r.Post("/placeholder", placeholderC.PostPlaceholder)
		r.Get("/placeholder/chart/{id}.png", placeholderC.GetChart)
		r.Get("/placeholder/export.xlsx", placeholderC.GetExport)
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(sessions.LoadSession)
		r.Get("/analyze", appC.APIAnalyze)
		r.Get("/compare", appC.APICompare)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testApp{Server: srv, client: &http.Client{Jar: jar}, store: store}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

// upload posts a multipart form; an empty filename sends no file part.
func (a *testApp) upload(t *testing.T, filename, content string) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		io.WriteString(part, content)
	}
	require.NoError(t, mw.Close())

	resp, err := a.client.Post(a.URL+"/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

var chartSrc = regexp.MustCompile(`/placeholder/chart/([0-9a-f-]+)\.png`)

func chartID(t *testing.T, body string) string {
	t.Helper()
	m := chartSrc.FindStringSubmatch(body)
	require.NotNil(t, m, "no chart in page")
	return m[1]
}
