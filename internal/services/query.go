package services

import (
	"context"
	"io"
	"log"

	"github.com/rahul4469/area-analyzer/internal/models"
)

// Backend is the part of BackendClient the query and upload flows need.
type Backend interface {
	Analyze(ctx context.Context, area string) (models.AnalysisResult, error)
	Compare(ctx context.Context, areas string) (models.CompareResult, error)
	Upload(ctx context.Context, filename string, file io.Reader) (*models.UploadOutcome, error)
}

// QueryService runs the QueryBox and UploadForm actions against a Panel.
type QueryService struct {
	backend Backend
}

func NewQueryService(backend Backend) *QueryService {
	return &QueryService{backend: backend}
}

// Analyze fills the analyze slot of panel. It returns what this call
// produced, which may already have been superseded in the panel.
func (s *QueryService) Analyze(ctx context.Context, panel *models.Panel, area string) any {
	return s.run(ctx, panel, models.SlotAnalyze, func(ctx context.Context) (any, error) {
		return s.backend.Analyze(ctx, area)
	})
}

// Compare fills the compare slot of panel.
func (s *QueryService) Compare(ctx context.Context, panel *models.Panel, areas string) any {
	return s.run(ctx, panel, models.SlotCompare, func(ctx context.Context) (any, error) {
		return s.backend.Compare(ctx, areas)
	})
}

// run calls the backend detached from ctx's cancellation: a browser that
// goes away does not abort the call, its result is just discarded. The
// HTTP client timeout still bounds it.
func (s *QueryService) run(ctx context.Context, panel *models.Panel, slot models.SlotName, call func(context.Context) (any, error)) any {
	seq := panel.Begin(slot)

	result, err := call(context.WithoutCancel(ctx))
	if err != nil {
		log.Printf("%s call failed: %v", slot, err)
		result = models.ErrorResult(err)
	}

	if !panel.Finish(slot, seq, result) {
		log.Printf("discarding stale %s result (seq %d)", slot, seq)
	}
	return result
}

// Upload forwards the file and stores the resulting message on panel.
func (s *QueryService) Upload(ctx context.Context, panel *models.Panel, filename string, file io.Reader) (models.MessageKind, string) {
	kind, msg := models.MessageSuccess, ""

	outcome, err := s.backend.Upload(context.WithoutCancel(ctx), filename, file)
	switch {
	case err != nil:
		log.Printf("upload of %s failed: %v", filename, err)
		kind, msg = models.MessageError, models.UploadErrorMessage(err)
	case !outcome.OK:
		kind, msg = models.MessageError, outcome.Message()
	default:
		log.Printf("uploaded %s: %d rows", filename, outcome.Rows)
		msg = outcome.Message()
	}

	panel.SetUploadMessage(kind, msg)
	return kind, msg
}
