package service

import (
	"testing"

	"casegraph-backend/models"

	"github.com/stretchr/testify/assert"
)

func outcomePtr(o models.Outcome) *models.Outcome {
	return &o
}

func TestCorrectnessScore(t *testing.T) {
	weights := DefaultScoreWeights()

	tests := []struct {
		name     string
		snapshot models.IssueSnapshot
		want     float64
	}{
		{
			name: "consistent granted issue scores full marks",
			snapshot: models.IssueSnapshot{
				Outcome:       outcomePtr(models.OutcomeGranted),
				DecisionText:  "The Board cites 38 U.S.C. § 1110 in granting the claim.",
				EvidenceCount: 2,
				Authorities:   []string{"38 U.S.C. § 1110"},
				Passages: []models.PassageRef{
					{Tag: models.TagMedicalOpinion, Text: "The examiner opined..."},
				},
			},
			want: 1.0,
		},
		{
			name: "evidence edges without passages",
			snapshot: models.IssueSnapshot{
				Outcome:       outcomePtr(models.OutcomeDenied),
				DecisionText:  "text",
				EvidenceCount: 2,
			},
			want: 0.7,
		},
		{
			name: "authority missing from decision text",
			snapshot: models.IssueSnapshot{
				Outcome:      outcomePtr(models.OutcomeRemanded),
				DecisionText: "The Board remands for a new examination.",
				Authorities:  []string{"Gilbert v. Derwinski"},
			},
			want: 0.85,
		},
		{
			name: "each unsupported authority penalized separately",
			snapshot: models.IssueSnapshot{
				DecisionText: "No citations here.",
				Authorities:  []string{"Gilbert v. Derwinski", "38 C.F.R. § 3.310"},
			},
			want: 0.7,
		},
		{
			name: "granted without any evidence",
			snapshot: models.IssueSnapshot{
				Outcome:      outcomePtr(models.OutcomeGranted),
				DecisionText: "Granted.",
			},
			want: 0.6,
		},
		{
			name: "denied despite positive opinion and thick record",
			snapshot: models.IssueSnapshot{
				Outcome:       outcomePtr(models.OutcomeDenied),
				DecisionText:  "Denied.",
				EvidenceCount: 3,
				Passages: []models.PassageRef{
					{Tag: models.TagMedicalOpinion, Text: "positive nexus opinion"},
				},
			},
			want: 0.9,
		},
		{
			name: "denied with thin record takes no denial penalty",
			snapshot: models.IssueSnapshot{
				Outcome:       outcomePtr(models.OutcomeDenied),
				DecisionText:  "Denied.",
				EvidenceCount: 2,
				Passages: []models.PassageRef{
					{Tag: models.TagMedicalOpinion, Text: "opinion"},
				},
			},
			want: 1.0,
		},
		{
			name: "no outcome means no outcome penalties",
			snapshot: models.IssueSnapshot{
				DecisionText: "text",
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CorrectnessScore(&tt.snapshot, weights)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCorrectnessScoreClampsAtZero(t *testing.T) {
	// Stack every penalty with inflated weights; the score must not go
	// below zero
	weights := ScoreWeights{
		EvidenceWithoutPassages: 0.9,
		AuthorityNotInText:      0.9,
		GrantedWithoutEvidence:  0.9,
	}
	snapshot := models.IssueSnapshot{
		Outcome:      outcomePtr(models.OutcomeGranted),
		DecisionText: "short",
		Authorities:  []string{"A", "B", "C"},
	}

	got := CorrectnessScore(&snapshot, weights)
	assert.Equal(t, 0.0, got)
}

func TestAnalysisDepthScore(t *testing.T) {
	weights := DefaultScoreWeights()

	tests := []struct {
		name     string
		snapshot models.IssueSnapshot
		want     float64
	}{
		{
			name:     "bare issue scores zero",
			snapshot: models.IssueSnapshot{},
			want:     0.0,
		},
		{
			name: "evidence alone",
			snapshot: models.IssueSnapshot{
				EvidenceCount: 1,
			},
			want: 0.3,
		},
		{
			name: "reasoning passage alone",
			snapshot: models.IssueSnapshot{
				Passages: []models.PassageRef{
					{Tag: models.TagReasonsBases, Text: "the Board finds..."},
				},
			},
			want: 0.3,
		},
		{
			name: "denial with stated reason",
			snapshot: models.IssueSnapshot{
				Outcome: outcomePtr(models.OutcomeDenied),
				Passages: []models.PassageRef{
					{Tag: models.TagNoNexusFound, Text: "no nexus"},
				},
			},
			want: 0.2,
		},
		{
			name: "denial reason ignored for granted issues",
			snapshot: models.IssueSnapshot{
				Outcome: outcomePtr(models.OutcomeGranted),
				Passages: []models.PassageRef{
					{Tag: models.TagNoNexusFound, Text: "no nexus"},
				},
			},
			want: 0.0,
		},
		{
			name: "three distinct tags count as diverse",
			snapshot: models.IssueSnapshot{
				Passages: []models.PassageRef{
					{Tag: models.TagLayEvidence, Text: "a"},
					{Tag: models.TagExamAdequacy, Text: "b"},
					{Tag: models.TagRuleRecall, Text: "c"},
					{Tag: models.TagRuleRecall, Text: "duplicate tag"},
				},
			},
			want: 0.2,
		},
		{
			name: "fully reasoned denial caps at one",
			snapshot: models.IssueSnapshot{
				Outcome:       outcomePtr(models.OutcomeDenied),
				EvidenceCount: 4,
				Passages: []models.PassageRef{
					{Tag: models.TagReasonsBases, Text: "a"},
					{Tag: models.TagNoNexusFound, Text: "b"},
					{Tag: models.TagWeighingOfEvidence, Text: "c"},
				},
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalysisDepthScore(&tt.snapshot, weights)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAnalysisDepthScoreCapsWithInflatedWeights(t *testing.T) {
	weights := ScoreWeights{
		HasEvidence:         0.8,
		HasReasoningPassage: 0.8,
	}
	snapshot := models.IssueSnapshot{
		EvidenceCount: 1,
		Passages: []models.PassageRef{
			{Tag: models.TagMedicalOpinion, Text: "opinion"},
		},
	}

	got := AnalysisDepthScore(&snapshot, weights)
	assert.Equal(t, 1.0, got)
}

func TestScoringBothHeuristicsOnOneSnapshot(t *testing.T) {
	// A cleanly granted issue: cited authority appears in the text,
	// evidence is backed by a passage. Correctness takes no penalty;
	// depth earns the evidence and reasoning awards but nothing else.
	weights := DefaultScoreWeights()
	snapshot := models.IssueSnapshot{
		Outcome:       outcomePtr(models.OutcomeGranted),
		DecisionText:  "Applying 38 U.S.C. § 1110, the Board grants service connection.",
		EvidenceCount: 2,
		Authorities:   []string{"38 U.S.C. § 1110"},
		Passages: []models.PassageRef{
			{Tag: models.TagMedicalOpinion, Text: "The examiner opined..."},
			{Tag: models.TagMedicalOpinion, Text: "A second opinion concurred."},
		},
	}

	assert.InDelta(t, 1.0, CorrectnessScore(&snapshot, weights), 1e-9)
	assert.InDelta(t, 0.6, AnalysisDepthScore(&snapshot, weights), 1e-9)
}

func TestScoringIsIdempotent(t *testing.T) {
	weights := DefaultScoreWeights()
	snapshot := models.IssueSnapshot{
		Outcome:       outcomePtr(models.OutcomeDenied),
		DecisionText:  "The Board cites Gilbert v. Derwinski.",
		EvidenceCount: 3,
		Authorities:   []string{"Gilbert v. Derwinski"},
		Passages: []models.PassageRef{
			{Tag: models.TagMedicalOpinion, Text: "opinion"},
			{Tag: models.TagWeighingOfEvidence, Text: "weighing"},
		},
	}

	first := CorrectnessScore(&snapshot, weights)
	second := CorrectnessScore(&snapshot, weights)
	assert.Equal(t, first, second)

	firstDepth := AnalysisDepthScore(&snapshot, weights)
	secondDepth := AnalysisDepthScore(&snapshot, weights)
	assert.Equal(t, firstDepth, secondDepth)
}

func TestScoreBoundsAcrossSnapshots(t *testing.T) {
	weights := DefaultScoreWeights()
	snapshots := []models.IssueSnapshot{
		{},
		{Outcome: outcomePtr(models.OutcomeGranted)},
		{
			Outcome:       outcomePtr(models.OutcomeDenied),
			EvidenceCount: 10,
			Authorities:   []string{"A", "B", "C", "D", "E"},
			Passages: []models.PassageRef{
				{Tag: models.TagMedicalOpinion, Text: "x"},
			},
		},
	}

	for _, snapshot := range snapshots {
		correctness := CorrectnessScore(&snapshot, weights)
		depth := AnalysisDepthScore(&snapshot, weights)
		assert.GreaterOrEqual(t, correctness, 0.0)
		assert.LessOrEqual(t, correctness, 1.0)
		assert.GreaterOrEqual(t, depth, 0.0)
		assert.LessOrEqual(t, depth, 1.0)
	}
}
