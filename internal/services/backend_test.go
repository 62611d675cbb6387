package services

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/area-analyzer/internal/models"
)

// closedAddr returns the URL of a listener that is already closed, so any
// request to it is refused.
func closedAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr
}

func TestAnalyzeEncodesArea(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		gotQuery = r.URL.Query().Get("area")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true,"summary":"fine","table":[{"price":1200}]}`)
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL+"/", time.Second)
	res, err := c.Analyze(context.Background(), "Wakad & Baner")
	require.NoError(t, err)

	assert.Equal(t, "Wakad & Baner", gotQuery)
	doc, ok := res.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, doc["ok"])
	assert.Equal(t, "fine", doc["summary"])
}

func TestCompareKeepsErrorBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Wakad,Baner", r.URL.Query().Get("areas"))
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false,"error":"Please provide 'areas' query param (comma-separated)."}`)
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL, time.Second)
	res, err := c.Compare(context.Background(), "Wakad,Baner")
	require.NoError(t, err)
	assert.Equal(t, false, res.(map[string]any)["ok"])
}

func TestGetJSONNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/analyze":
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "<html>bad gateway</html>")
		default:
			io.WriteString(w, "not json")
		}
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL, time.Second)

	_, err := c.Analyze(context.Background(), "Aundh")
	var be *models.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusBadGateway, be.Status)
	assert.Contains(t, be.Body, "bad gateway")

	_, err = c.Compare(context.Background(), "Aundh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestCompareConnectionRefused(t *testing.T) {
	c := NewBackendClient(closedAddr(t), time.Second)
	_, err := c.Compare(context.Background(), "Wakad,Baner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach backend")
}

func TestUpload(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantOK   bool
		wantText string
	}{
		{"accepted", http.StatusOK, `{"ok":true,"message":"File uploaded and dataset replaced.","rows":42}`, true, "42"},
		{"rejected", http.StatusBadRequest, `{"ok":false,"error":"bad format"}`, false, "bad format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/upload", r.URL.Path)

				f, hdr, err := r.FormFile("file")
				require.NoError(t, err)
				defer f.Close()
				content, _ := io.ReadAll(f)
				assert.Equal(t, "areas.xlsx", hdr.Filename)
				assert.Equal(t, "PK-fake-workbook", string(content))

				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewBackendClient(srv.URL, time.Second)
			outcome, err := c.Upload(context.Background(), "areas.xlsx", strings.NewReader("PK-fake-workbook"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, outcome.OK)
			assert.Contains(t, outcome.Message(), tt.wantText)
		})
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="data.xlsx"`)
		io.WriteString(w, "workbook-bytes")
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL, time.Second)
	dl, err := c.Download(context.Background())
	require.NoError(t, err)
	defer dl.Body.Close()

	body, _ := io.ReadAll(dl.Body)
	assert.Equal(t, "workbook-bytes", string(body))
	assert.Equal(t, "data.xlsx", dl.Filename)
}

func TestDownloadMissingDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"ok":false,"error":"No preload dataset present."}`)
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL, time.Second)
	_, err := c.Download(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No preload dataset present.")
}
