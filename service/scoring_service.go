package service

import (
	"context"
	"errors"
	"strings"

	"casegraph-backend/models"
	"casegraph-backend/repository"

	"github.com/google/uuid"
)

// ScoreWeights are the penalty and award constants of the two quality
// heuristics. They are fixed heuristics rather than learned values;
// callers may override them, but the defaults are the baseline existing
// validation runs were calibrated against.
type ScoreWeights struct {
	// Correctness penalties
	EvidenceWithoutPassages     float64
	AuthorityNotInText          float64
	GrantedWithoutEvidence      float64
	DeniedDespiteStrongEvidence float64

	// Analysis depth awards
	HasEvidence         float64
	HasReasoningPassage float64
	DenialExplained     float64
	DiverseTags         float64
}

// DefaultScoreWeights returns the baseline scoring constants
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		EvidenceWithoutPassages:     0.3,
		AuthorityNotInText:          0.15,
		GrantedWithoutEvidence:      0.4,
		DeniedDespiteStrongEvidence: 0.1,
		HasEvidence:                 0.3,
		HasReasoningPassage:         0.3,
		DenialExplained:             0.2,
		DiverseTags:                 0.2,
	}
}

const (
	// strongEvidenceMin is how many evidence edges a denied issue needs,
	// together with a positively-framed opinion passage, before the
	// denial looks suspicious enough to penalize.
	strongEvidenceMin = 3

	// diverseTagMin is how many distinct passage tags count as a
	// comprehensive analysis.
	diverseTagMin = 3

	lowCorrectnessThreshold = 0.6
	lowAnalysisThreshold    = 0.5
)

var reasoningTags = []models.PassageTag{models.TagReasonsBases, models.TagMedicalOpinion}

var denialReasonTags = []models.PassageTag{
	models.TagExamAdequacy,
	models.TagNoNexusFound,
	models.TagWeighingOfEvidence,
	models.TagNegativeCredibility,
}

// CorrectnessScore evaluates how internally consistent an extracted
// issue is with its own graph neighborhood. Starts at 1.0, applies
// independently triggerable penalties, and clamps to [0,1]. Total and
// idempotent: the same snapshot always yields the same score.
func CorrectnessScore(snapshot *models.IssueSnapshot, weights ScoreWeights) float64 {
	score := 1.0

	if snapshot.EvidenceCount > 0 && len(snapshot.Passages) == 0 {
		score -= weights.EvidenceWithoutPassages
	}

	for _, citation := range snapshot.Authorities {
		if citation != "" && !strings.Contains(snapshot.DecisionText, citation) {
			score -= weights.AuthorityNotInText
		}
	}

	if snapshot.Outcome != nil {
		switch *snapshot.Outcome {
		case models.OutcomeGranted:
			if snapshot.EvidenceCount == 0 {
				score -= weights.GrantedWithoutEvidence
			}
		case models.OutcomeDenied:
			// A denial despite a positive medical opinion and a thick
			// evidence record may still be legitimate (examiners can
			// disagree), hence the small penalty.
			if hasAnyTag(snapshot.Passages, models.TagMedicalOpinion) && snapshot.EvidenceCount >= strongEvidenceMin {
				score -= weights.DeniedDespiteStrongEvidence
			}
		}
	}

	return clampUnit(score)
}

// AnalysisDepthScore evaluates how thoroughly the decision reasons about
// an issue. Starts at 0.0, awards points, and caps at 1.0. Total and
// idempotent.
func AnalysisDepthScore(snapshot *models.IssueSnapshot, weights ScoreWeights) float64 {
	score := 0.0

	if snapshot.EvidenceCount >= 1 {
		score += weights.HasEvidence
	}

	if hasAnyTag(snapshot.Passages, reasoningTags...) {
		score += weights.HasReasoningPassage
	}

	if snapshot.Outcome != nil && *snapshot.Outcome == models.OutcomeDenied {
		if hasAnyTag(snapshot.Passages, denialReasonTags...) {
			score += weights.DenialExplained
		}
	}

	if distinctTags(snapshot.Passages) >= diverseTagMin {
		score += weights.DiverseTags
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

func hasAnyTag(passages []models.PassageRef, tags ...models.PassageTag) bool {
	for _, passage := range passages {
		for _, tag := range tags {
			if passage.Tag == tag {
				return true
			}
		}
	}
	return false
}

func distinctTags(passages []models.PassageRef) int {
	seen := make(map[models.PassageTag]bool)
	for _, passage := range passages {
		seen[passage.Tag] = true
	}
	return len(seen)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ScoringService computes both quality scores from committed graph state
// and writes them back onto issue rows
type ScoringService struct {
	issueRepo *repository.IssueRepository
	weights   ScoreWeights
}

// ScoringServiceOption is a functional option for ScoringService
type ScoringServiceOption func(*ScoringService)

// ScoringWithIssueRepository sets the issue repository
func ScoringWithIssueRepository(repo *repository.IssueRepository) ScoringServiceOption {
	return func(s *ScoringService) {
		s.issueRepo = repo
	}
}

// ScoringWithWeights overrides the default scoring constants
func ScoringWithWeights(weights ScoreWeights) ScoringServiceOption {
	return func(s *ScoringService) {
		s.weights = weights
	}
}

// NewScoringService creates a new scoring service
func NewScoringService(opts ...ScoringServiceOption) *ScoringService {
	s := &ScoringService{weights: DefaultScoreWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreIssue computes both scores for one issue and persists them.
// Scores reflect whatever graph state is committed at call time; callers
// are responsible for sequencing "load fully, then score".
func (s *ScoringService) ScoreIssue(ctx context.Context, issueID uuid.UUID) (correctness, analysisDepth float64, err error) {
	if s.issueRepo == nil {
		return 0, 0, errors.New("issue repository not set")
	}

	snapshot, err := s.issueRepo.GetSnapshot(ctx, issueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, 0, ErrIssueNotFound
		}
		return 0, 0, err
	}

	correctness = CorrectnessScore(snapshot, s.weights)
	analysisDepth = AnalysisDepthScore(snapshot, s.weights)

	if err := s.issueRepo.UpdateScores(ctx, issueID, correctness, analysisDepth); err != nil {
		return 0, 0, err
	}

	return correctness, analysisDepth, nil
}

// ScoreAll scores every issue in the store and returns summary
// statistics, flagging issues below the low-score thresholds
func (s *ScoringService) ScoreAll(ctx context.Context) (*models.ScoreSummary, error) {
	if s.issueRepo == nil {
		return nil, errors.New("issue repository not set")
	}

	ids, err := s.issueRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.ScoreSummary{
		TotalIssues:    len(ids),
		LowCorrectness: []uuid.UUID{},
		LowAnalysis:    []uuid.UUID{},
	}

	var correctnessSum, analysisSum float64
	for _, id := range ids {
		correctness, analysisDepth, err := s.ScoreIssue(ctx, id)
		if err != nil {
			return nil, err
		}
		correctnessSum += correctness
		analysisSum += analysisDepth
		summary.Scored++

		if correctness < lowCorrectnessThreshold {
			summary.LowCorrectness = append(summary.LowCorrectness, id)
		}
		if analysisDepth < lowAnalysisThreshold {
			summary.LowAnalysis = append(summary.LowAnalysis, id)
		}
	}

	if summary.Scored > 0 {
		summary.AvgCorrectness = correctnessSum / float64(summary.Scored)
		summary.AvgAnalysis = analysisSum / float64(summary.Scored)
	}

	return summary, nil
}
