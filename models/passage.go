package models

import (
	"strings"

	"github.com/google/uuid"
)

// PassageTag classifies the rhetorical or evidentiary role of a passage
type PassageTag string

const (
	TagMedicalOpinion      PassageTag = "MEDICAL_OPINION"
	TagExamAdequacy        PassageTag = "EXAM_ADEQUACY"
	TagLayEvidence         PassageTag = "LAY_EVIDENCE"
	TagReasonsBases        PassageTag = "REASONS_BASES"
	TagNoNexusFound        PassageTag = "NO_NEXUS_FOUND"
	TagWeighingOfEvidence  PassageTag = "WEIGHING_OF_EVIDENCE"
	TagNegativeCredibility PassageTag = "NEGATIVE_CREDIBILITY"
	TagRuleRecall          PassageTag = "RULE_RECALL"
)

var knownTags = map[PassageTag]bool{
	TagMedicalOpinion:      true,
	TagExamAdequacy:        true,
	TagLayEvidence:         true,
	TagReasonsBases:        true,
	TagNoNexusFound:        true,
	TagWeighingOfEvidence:  true,
	TagNegativeCredibility: true,
	TagRuleRecall:          true,
}

// ParsePassageTag normalizes a raw tag string to the enum.
// Returns false for tags outside the fixed enumeration.
func ParsePassageTag(s string) (PassageTag, bool) {
	tag := PassageTag(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_"))
	if knownTags[tag] {
		return tag, true
	}
	return "", false
}

// MaxPassageChars is the character budget for a single quoted passage
const MaxPassageChars = 500

// Passage represents a short quoted excerpt from a decision
type Passage struct {
	ID         uuid.UUID  `json:"id"`
	DecisionID uuid.UUID  `json:"decision_id"`
	Text       string     `json:"text"`
	Tag        PassageTag `json:"tag"`
	Confidence float64    `json:"confidence"`
	Embedding  []float64  `json:"embedding,omitempty"`
}
