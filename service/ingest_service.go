package service

import (
	"context"
	"errors"
	"log"
	"time"

	"casegraph-backend/models"
)

// IngestService runs the full pipeline for one decision: extraction,
// decision embedding, then the transactional graph load
type IngestService struct {
	extraction *ExtractionService
	loader     *LoaderService
	embedder   *EmbeddingClient
}

// IngestServiceOption is a functional option for IngestService
type IngestServiceOption func(*IngestService)

// IngestWithExtractionService sets the extraction service
func IngestWithExtractionService(extraction *ExtractionService) IngestServiceOption {
	return func(s *IngestService) {
		s.extraction = extraction
	}
}

// IngestWithLoaderService sets the loader service
func IngestWithLoaderService(loader *LoaderService) IngestServiceOption {
	return func(s *IngestService) {
		s.loader = loader
	}
}

// IngestWithEmbeddingClient sets the optional decision embedder
func IngestWithEmbeddingClient(embedder *EmbeddingClient) IngestServiceOption {
	return func(s *IngestService) {
		s.embedder = embedder
	}
}

// NewIngestService creates a new ingest service
func NewIngestService(opts ...IngestServiceOption) *IngestService {
	s := &IngestService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestRequest carries one raw decision into the pipeline
type IngestRequest struct {
	CitationNr   string
	RawText      string
	DecisionDate *time.Time
}

// IngestResult reports what the pipeline extracted and committed
type IngestResult struct {
	Load       *LoadDecisionResult
	Extraction models.ExtractionResult
}

// Ingest extracts structure from the decision text and loads it into
// the graph. An empty extraction still loads the decision row itself,
// so the document is recorded even when the transducer found nothing.
// Embedding failures are logged and the decision loads without a
// vector.
func (s *IngestService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	if s.extraction == nil {
		return nil, errors.New("extraction service not set")
	}
	if s.loader == nil {
		return nil, errors.New("loader service not set")
	}

	extraction, err := s.extraction.Extract(ctx, req.RawText)
	if err != nil {
		return nil, err
	}
	if extraction.Empty() {
		log.Printf("Extraction for %s came back empty", req.CitationNr)
	}

	var embedding []float64
	if s.embedder != nil {
		embedding, err = s.embedder.Embed(ctx, truncateDecisionText(req.RawText))
		if err != nil {
			log.Printf("Warning: failed to embed decision %s: %v", req.CitationNr, err)
			embedding = nil
		}
	}

	load, err := s.loader.LoadDecision(ctx, LoadDecisionRequest{
		CitationNr:   req.CitationNr,
		RawText:      req.RawText,
		DecisionDate: req.DecisionDate,
		Embedding:    embedding,
		Extraction:   extraction,
	})
	if err != nil {
		return nil, err
	}

	return &IngestResult{
		Load:       load,
		Extraction: extraction,
	}, nil
}
