package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"casegraph-backend/models"
	"casegraph-backend/repository"
	"casegraph-backend/storage"

	"github.com/google/uuid"
)

// LoaderService materializes one extraction result into the knowledge
// graph. Each decision loads inside a single transaction, so its rows
// are either all visible or none are.
type LoaderService struct {
	graphRepo *repository.GraphRepository
	archive   storage.Archive
}

// LoaderServiceOption is a functional option for LoaderService
type LoaderServiceOption func(*LoaderService)

// LoaderWithGraphRepository sets the graph repository
func LoaderWithGraphRepository(repo *repository.GraphRepository) LoaderServiceOption {
	return func(s *LoaderService) {
		s.graphRepo = repo
	}
}

// LoaderWithArchive sets the optional raw-text archive
func LoaderWithArchive(archive storage.Archive) LoaderServiceOption {
	return func(s *LoaderService) {
		s.archive = archive
	}
}

// NewLoaderService creates a new loader service
func NewLoaderService(opts ...LoaderServiceOption) *LoaderService {
	s := &LoaderService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadDecisionRequest carries one decision's raw text and its extraction
type LoadDecisionRequest struct {
	CitationNr   string
	RawText      string
	DecisionDate *time.Time
	Embedding    []float64
	Extraction   models.ExtractionResult
}

// LoadDecisionResult summarizes what one load committed
type LoadDecisionResult struct {
	DecisionID        uuid.UUID
	IssuesLoaded      int
	PassagesLoaded    int
	AuthoritiesLinked int
}

// LoadDecision upserts the decision row, links authorities, inserts
// issues with their vocabulary edges, then inserts passages fanned out
// to every issue of the decision. Re-ingesting a known citation number
// updates the decision's scalar fields in place; it does not remove
// previously loaded issues or passages.
func (s *LoaderService) LoadDecision(ctx context.Context, req LoadDecisionRequest) (*LoadDecisionResult, error) {
	if s.graphRepo == nil {
		return nil, errors.New("graph repository not set")
	}
	if strings.TrimSpace(req.CitationNr) == "" {
		return nil, errors.New("citation number is required")
	}

	tx, err := s.graphRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin load transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	decision := &models.Decision{
		CitationNr:   req.CitationNr,
		DecisionDate: req.DecisionDate,
		SystemType:   req.Extraction.SystemType,
		RawText:      req.RawText,
		Embedding:    req.Embedding,
	}
	if err := s.graphRepo.UpsertDecision(ctx, tx, decision); err != nil {
		return nil, err
	}

	result := &LoadDecisionResult{DecisionID: decision.ID}

	for _, citation := range req.Extraction.Authorities {
		authorityID, err := s.graphRepo.GetOrCreateAuthority(ctx, tx, citation)
		if err != nil {
			return nil, err
		}
		if err := s.graphRepo.LinkDecisionAuthority(ctx, tx, decision.ID, authorityID); err != nil {
			return nil, err
		}
		result.AuthoritiesLinked++
	}

	issueIDs := make([]uuid.UUID, 0, len(req.Extraction.Issues))
	for _, extracted := range req.Extraction.Issues {
		issue := &models.Issue{
			DecisionID:     decision.ID,
			IssueText:      extracted.IssueText,
			Outcome:        extracted.Outcome,
			ConnectionType: extracted.ConnectionType,
		}
		if err := s.graphRepo.InsertIssue(ctx, tx, issue); err != nil {
			return nil, err
		}
		issueIDs = append(issueIDs, issue.ID)
		result.IssuesLoaded++

		if extracted.Condition != "" {
			conditionID, err := s.graphRepo.GetOrCreateCondition(ctx, tx, extracted.Condition)
			if err != nil {
				return nil, err
			}
			if err := s.graphRepo.LinkIssueCondition(ctx, tx, issue.ID, conditionID); err != nil {
				return nil, err
			}
		}

		for _, name := range extracted.EvidenceTypes {
			evidenceTypeID, err := s.graphRepo.GetOrCreateEvidenceType(ctx, tx, name)
			if err != nil {
				return nil, err
			}
			if err := s.graphRepo.LinkIssueEvidence(ctx, tx, issue.ID, evidenceTypeID, extracted.Confidence); err != nil {
				return nil, err
			}
		}

		for _, name := range extracted.ProviderTypes {
			providerTypeID, err := s.graphRepo.GetOrCreateProviderType(ctx, tx, name)
			if err != nil {
				return nil, err
			}
			if err := s.graphRepo.LinkIssueProvider(ctx, tx, issue.ID, providerTypeID); err != nil {
				return nil, err
			}
		}
	}

	passages := req.Extraction.Passages
	if rule := req.Extraction.RuleRecall; rule != nil {
		passages = append(passages, models.ExtractedPassage{
			Text:       rule.Text,
			Tag:        models.TagRuleRecall,
			Confidence: rule.Confidence,
		})
	}

	for _, extracted := range passages {
		passage := &models.Passage{
			DecisionID: decision.ID,
			Text:       extracted.Text,
			Tag:        extracted.Tag,
			Confidence: extracted.Confidence,
		}
		if err := s.graphRepo.InsertPassage(ctx, tx, passage); err != nil {
			return nil, err
		}
		result.PassagesLoaded++

		// Extraction does not attribute passages to specific issues, so
		// each passage links to every issue of its decision.
		for _, issueID := range issueIDs {
			if err := s.graphRepo.LinkIssuePassage(ctx, tx, issueID, passage.ID); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit load transaction: %w", err)
	}

	if s.archive != nil {
		if err := s.archive.Save(ctx, req.CitationNr, strings.NewReader(req.RawText)); err != nil {
			log.Printf("Warning: failed to archive raw text for %s: %v", req.CitationNr, err)
		}
	}

	log.Printf("Loaded decision %s with %d issues, %d passages", req.CitationNr, result.IssuesLoaded, result.PassagesLoaded)
	return result, nil
}
