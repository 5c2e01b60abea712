package service

import (
	"context"
	"errors"
	"log"

	"casegraph-backend/models"
	"casegraph-backend/repository"

	"github.com/google/uuid"
)

var (
	ErrIssueNotFound    = errors.New("issue not found")
	ErrDecisionNotFound = errors.New("decision not found")
)

// QueryService answers the read-only analytic queries over the graph
type QueryService struct {
	queryRepo *repository.QueryRepository
	embedder  *EmbeddingClient
}

// QueryServiceOption is a functional option for QueryService
type QueryServiceOption func(*QueryService)

// QueryWithRepository sets the query repository
func QueryWithRepository(repo *repository.QueryRepository) QueryServiceOption {
	return func(s *QueryService) {
		s.queryRepo = repo
	}
}

// QueryWithEmbeddingClient sets the embedding client used to embed
// free-text similarity queries
func QueryWithEmbeddingClient(client *EmbeddingClient) QueryServiceOption {
	return func(s *QueryService) {
		s.embedder = client
	}
}

// NewQueryService creates a new query service
func NewQueryService(opts ...QueryServiceOption) *QueryService {
	s := &QueryService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SimilarCasesRequest describes a passage similarity search. Either an
// embedding or free text may be supplied; with neither, the search
// degrades to an unranked listing.
type SimilarCasesRequest struct {
	QueryText string
	Embedding []float64
	Outcome   *models.Outcome
	Limit     int
}

// SimilarCases ranks passages nearest to the query, optionally filtered
// by outcome. Embedding failures degrade to the unranked listing rather
// than failing the query.
func (s *QueryService) SimilarCases(ctx context.Context, req SimilarCasesRequest) ([]models.SimilarPassage, error) {
	if s.queryRepo == nil {
		return nil, errors.New("query repository not set")
	}

	embedding := req.Embedding
	if len(embedding) == 0 && req.QueryText != "" && s.embedder != nil {
		embedded, err := s.embedder.Embed(ctx, req.QueryText)
		if err != nil {
			log.Printf("Warning: query embedding failed, falling back to unranked listing: %v", err)
		} else {
			embedding = embedded
		}
	}

	return s.queryRepo.SimilarPassages(ctx, embedding, req.Outcome, req.Limit)
}

// EvidenceChain reconstructs the evidentiary neighborhood of an issue
func (s *QueryService) EvidenceChain(ctx context.Context, issueID uuid.UUID) (*models.EvidenceChain, error) {
	if s.queryRepo == nil {
		return nil, errors.New("query repository not set")
	}

	chain, err := s.queryRepo.EvidenceChain(ctx, issueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}
	return chain, nil
}

// MissingEvidence computes which of the fixed evidence-type universe an
// issue is missing, preserving the universe's order
func MissingEvidence(present []string) []string {
	presentSet := make(map[string]bool, len(present))
	for _, name := range present {
		presentSet[name] = true
	}

	missing := []string{}
	for _, name := range models.EvidenceTypeUniverse() {
		if !presentSet[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// DenialAnalysis explains a denial by set-difference against the fixed
// evidence universe and surfaces exam-adequacy passages
func (s *QueryService) DenialAnalysis(ctx context.Context, issueID uuid.UUID) (*models.DenialAnalysis, error) {
	if s.queryRepo == nil {
		return nil, errors.New("query repository not set")
	}

	outcome, present, examPassages, err := s.queryRepo.DenialEvidence(ctx, issueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}

	return &models.DenialAnalysis{
		IssueID:         issueID,
		Outcome:         outcome,
		PresentEvidence: present,
		MissingEvidence: MissingEvidence(present),
		ExamPassages:    examPassages,
	}, nil
}

// EvidenceDiff compares evidence type usage across outcomes for a
// condition, matched case-insensitively by substring
func (s *QueryService) EvidenceDiff(ctx context.Context, condition string) ([]models.EvidenceOutcomeCount, error) {
	if s.queryRepo == nil {
		return nil, errors.New("query repository not set")
	}
	return s.queryRepo.EvidenceByOutcome(ctx, condition)
}

// AuthorityStats counts authority citations across outcomes for a
// condition, most cited first
func (s *QueryService) AuthorityStats(ctx context.Context, condition string) ([]models.AuthorityStat, error) {
	if s.queryRepo == nil {
		return nil, errors.New("query repository not set")
	}
	return s.queryRepo.AuthorityStats(ctx, condition)
}
