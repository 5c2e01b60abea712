package models

import (
	"github.com/google/uuid"
)

// Condition is a claimed medical condition, deduplicated by name
type Condition struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Authority is a cited legal authority, deduplicated by citation string
type Authority struct {
	ID       uuid.UUID `json:"id"`
	Citation string    `json:"citation"`
}

// EvidenceType is a category of evidence, deduplicated by name
type EvidenceType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProviderType is a category of medical provider, deduplicated by name
type ProviderType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Canonical evidence type names
const (
	EvidenceSTR            = "STR"
	EvidenceVAExam         = "VA_EXAM"
	EvidencePrivateOpinion = "PRIVATE_OPINION"
	EvidenceLayEvidence    = "LAY_EVIDENCE"
)

// EvidenceTypeUniverse is the fixed set of evidence categories used by
// denial-gap analysis to compute what a denied claim was missing.
func EvidenceTypeUniverse() []string {
	return []string{EvidenceSTR, EvidenceVAExam, EvidencePrivateOpinion, EvidenceLayEvidence}
}
