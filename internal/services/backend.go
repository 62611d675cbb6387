package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rahul4469/area-analyzer/internal/models"
)

// maxErrorBody caps how much of a non-JSON error body is kept.
const maxErrorBody = 512

// BackendClient talks to the external area analysis service.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured backend base URL.
func (c *BackendClient) BaseURL() string {
	return c.baseURL
}

// Analyze calls GET /analyze?area=<area>. The JSON body is returned as is,
// whatever the status code.
func (c *BackendClient) Analyze(ctx context.Context, area string) (models.AnalysisResult, error) {
	return c.getJSON(ctx, "/analyze", url.Values{"area": {area}})
}

// Compare calls GET /compare?areas=<comma list>.
func (c *BackendClient) Compare(ctx context.Context, areas string) (models.CompareResult, error) {
	return c.getJSON(ctx, "/compare", url.Values{"areas": {areas}})
}

// Upload posts the file as multipart field "file" to /upload.
func (c *BackendClient) Upload(ctx context.Context, filename string, file io.Reader) (*models.UploadOutcome, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	var outcome models.UploadOutcome
	if err := c.decode(resp, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// Download is the backend's current dataset file.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	Filename      string
	ContentLength int64
}

// Download calls GET /download. The caller must close Body. A JSON error
// answer from the backend is returned as an error carrying its message.
func (c *BackendClient) Download(ctx context.Context) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var outcome models.UploadOutcome
		if err := c.decode(resp, &outcome); err != nil {
			return nil, err
		}
		if outcome.Error == "" {
			return nil, &models.BackendError{Status: resp.StatusCode}
		}
		return nil, errors.New(outcome.Error)
	}

	filename := "data.xlsx"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}

	return &Download{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		Filename:      filename,
		ContentLength: resp.ContentLength,
	}, nil
}

func (c *BackendClient) getJSON(ctx context.Context, path string, query url.Values) (any, error) {
	u := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	var result any
	if err := c.decode(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// decode reads a JSON body regardless of status. A body that is not JSON is
// a parse failure; on a non-2xx status it becomes a BackendError.
func (c *BackendClient) decode(resp *http.Response, v any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &models.BackendError{Status: resp.StatusCode, Body: truncateBody(body)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
