package models

import (
	"strings"

	"github.com/google/uuid"
)

// ConnectionType represents how a claimed condition is connected to service
type ConnectionType string

const (
	ConnectionDirect      ConnectionType = "Direct"
	ConnectionSecondary   ConnectionType = "Secondary"
	ConnectionAggravation ConnectionType = "Aggravation"
)

// ParseConnectionType normalizes a raw connection type string to the enum
func ParseConnectionType(s string) (ConnectionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct":
		return ConnectionDirect, true
	case "secondary":
		return ConnectionSecondary, true
	case "aggravation":
		return ConnectionAggravation, true
	}
	return "", false
}

// Issue represents one adjudicated claim within a decision.
// Score columns stay null until the scoring engine runs.
type Issue struct {
	ID                 uuid.UUID       `json:"id"`
	DecisionID         uuid.UUID       `json:"decision_id"`
	IssueText          string          `json:"issue_text"`
	Outcome            *Outcome        `json:"outcome,omitempty"`
	ConnectionType     *ConnectionType `json:"connection_type,omitempty"`
	CorrectnessScore   *float64        `json:"correctness_score,omitempty"`
	AnalysisDepthScore *float64        `json:"analysis_depth_score,omitempty"`
}

// IssueSnapshot is the graph neighborhood of an issue as read from the
// store, the sole input to the scoring engine.
type IssueSnapshot struct {
	IssueID       uuid.UUID
	Outcome       *Outcome
	DecisionText  string
	EvidenceCount int          // linked evidence-type edges
	Authorities   []string     // citations linked via the parent decision
	Passages      []PassageRef // linked passages with tags
}

// PassageRef is a passage as seen from an issue's neighborhood
type PassageRef struct {
	Tag  PassageTag
	Text string
}
