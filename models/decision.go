package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome represents the adjudicated outcome of an issue
type Outcome string

const (
	OutcomeGranted  Outcome = "Granted"
	OutcomeDenied   Outcome = "Denied"
	OutcomeRemanded Outcome = "Remanded"
	OutcomeMixed    Outcome = "Mixed"
)

// ParseOutcome normalizes a raw outcome string to the enum.
// Returns false for anything outside the four known values.
func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "granted":
		return OutcomeGranted, true
	case "denied":
		return OutcomeDenied, true
	case "remanded":
		return OutcomeRemanded, true
	case "mixed":
		return OutcomeMixed, true
	}
	return "", false
}

// SystemType represents the adjudication track of a decision
type SystemType string

const (
	SystemTypeAMA    SystemType = "AMA"
	SystemTypeLegacy SystemType = "Legacy"
)

// ParseSystemType normalizes a raw system type string to the enum
func ParseSystemType(s string) (SystemType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ama":
		return SystemTypeAMA, true
	case "legacy":
		return SystemTypeLegacy, true
	}
	return "", false
}

// Decision represents one ingested legal decision
type Decision struct {
	ID           uuid.UUID   `json:"id"`
	CitationNr   string      `json:"citation_nr"` // External case number, unique
	DecisionDate *time.Time  `json:"decision_date,omitempty"`
	SystemType   *SystemType `json:"system_type,omitempty"`
	RawText      string      `json:"raw_text"`
	Embedding    []float64   `json:"embedding,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
