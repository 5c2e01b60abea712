package models

import (
	"github.com/google/uuid"
)

// SimilarPassage is one row of a passage similarity search, joined with
// its owning issue, decision, and condition. Similarity is zero when the
// search ran in degraded (unranked) mode.
type SimilarPassage struct {
	Passage    string   `json:"passage"`
	IssueText  string   `json:"issue_text"`
	Outcome    *Outcome `json:"outcome,omitempty"`
	Condition  *string  `json:"condition,omitempty"`
	CitationNr string   `json:"citation_nr"`
	Similarity float64  `json:"similarity"`
}

// TaggedPassage is a passage with its tag, as returned by evidence-chain
// reconstruction
type TaggedPassage struct {
	Text string     `json:"text"`
	Tag  PassageTag `json:"tag"`
}

// EvidenceChain is the full evidentiary neighborhood of one issue
type EvidenceChain struct {
	IssueID       uuid.UUID       `json:"issue_id"`
	Condition     *string         `json:"condition,omitempty"`
	EvidenceTypes []string        `json:"evidence_types"`
	ProviderTypes []string        `json:"provider_types"`
	Authorities   []string        `json:"authorities"`
	Passages      []TaggedPassage `json:"passages"`
}

// DenialAnalysis surfaces what evidence a claim was missing against the
// fixed evidence-type universe, plus exam-adequacy passages
type DenialAnalysis struct {
	IssueID         uuid.UUID `json:"issue_id"`
	Outcome         *Outcome  `json:"outcome,omitempty"`
	PresentEvidence []string  `json:"present_evidence"`
	MissingEvidence []string  `json:"missing_evidence"`
	ExamPassages    []string  `json:"exam_passages"`
}

// EvidenceOutcomeCount is one row of the evidence-by-outcome comparison
type EvidenceOutcomeCount struct {
	EvidenceType string   `json:"evidence_type"`
	Outcome      *Outcome `json:"outcome,omitempty"`
	Count        int      `json:"count"`
}

// AuthorityStat is one row of the authority-citation statistics
type AuthorityStat struct {
	Citation string   `json:"citation"`
	Outcome  *Outcome `json:"outcome,omitempty"`
	Count    int      `json:"count"`
}

// ScoreSummary aggregates a batch scoring run
type ScoreSummary struct {
	TotalIssues    int         `json:"total_issues"`
	Scored         int         `json:"scored"`
	AvgCorrectness float64     `json:"avg_correctness"`
	AvgAnalysis    float64     `json:"avg_analysis"`
	LowCorrectness []uuid.UUID `json:"low_correctness"`
	LowAnalysis    []uuid.UUID `json:"low_analysis"`
}
