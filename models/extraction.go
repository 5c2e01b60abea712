package models

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// ExtractedIssue is one issue as reported by the transducer, after
// validation. Outcome and connection type are nil when the raw value
// fell outside the enums.
type ExtractedIssue struct {
	IssueText      string          `json:"issue_text"`
	Outcome        *Outcome        `json:"outcome,omitempty"`
	ConnectionType *ConnectionType `json:"connection_type,omitempty"`
	Condition      string          `json:"condition,omitempty"`
	EvidenceTypes  []string        `json:"evidence_types"`
	ProviderTypes  []string        `json:"provider_types"`
	Confidence     float64         `json:"confidence"`
}

// ExtractedPassage is one validated quoted passage
type ExtractedPassage struct {
	Text       string     `json:"text"`
	Tag        PassageTag `json:"tag"`
	Confidence float64    `json:"confidence"`
}

// ExtractedRule carries a governing rule only when it was explicitly
// stated in the source text, never inferred.
type ExtractedRule struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ExtractionResult is the validated output of one transducer call.
// The zero value is the canonical "nothing extracted" result.
type ExtractionResult struct {
	Issues      []ExtractedIssue   `json:"issues"`
	Authorities []string           `json:"authorities"`
	Passages    []ExtractedPassage `json:"passages"`
	RuleRecall  *ExtractedRule     `json:"rule_recall,omitempty"`
	SystemType  *SystemType        `json:"system_type,omitempty"`
}

// Empty reports whether nothing was extracted
func (r ExtractionResult) Empty() bool {
	return len(r.Issues) == 0 && len(r.Authorities) == 0 && len(r.Passages) == 0
}

// rawExtraction mirrors the transducer's loosely-typed JSON output
type rawExtraction struct {
	Issues []struct {
		IssueText      string   `json:"issue_text"`
		Outcome        string   `json:"outcome"`
		ConnectionType string   `json:"connection_type"`
		Condition      string   `json:"condition"`
		EvidenceTypes  []string `json:"evidence_types"`
		ProviderTypes  []string `json:"provider_types"`
		Confidence     *float64 `json:"confidence"`
	} `json:"issues"`
	Authorities []string `json:"authorities"`
	Passages    []struct {
		Text       string   `json:"text"`
		Tag        string   `json:"tag"`
		Confidence *float64 `json:"confidence"`
	} `json:"passages"`
	RuleRecall *struct {
		Text       string   `json:"text"`
		Confidence *float64 `json:"confidence"`
	} `json:"rule_recall"`
	SystemType string `json:"system_type"`
}

const defaultConfidence = 0.7

// ParseExtraction decodes and validates raw transducer output.
// A non-nil error means the payload was unparsable; callers are expected
// to log it and carry on with an empty result. Individually malformed
// entries (unknown tags, empty texts) are dropped rather than failing the
// whole payload, so partially-typed data never reaches the graph.
func ParseExtraction(data []byte) (ExtractionResult, error) {
	var raw rawExtraction
	if err := json.Unmarshal(data, &raw); err != nil {
		return ExtractionResult{}, err
	}

	var result ExtractionResult

	for _, ri := range raw.Issues {
		text := strings.TrimSpace(ri.IssueText)
		if text == "" {
			continue
		}
		issue := ExtractedIssue{
			IssueText:     text,
			Condition:     strings.TrimSpace(ri.Condition),
			EvidenceTypes: cleanNames(ri.EvidenceTypes),
			ProviderTypes: cleanNames(ri.ProviderTypes),
			Confidence:    clampConfidence(ri.Confidence),
		}
		if outcome, ok := ParseOutcome(ri.Outcome); ok {
			issue.Outcome = &outcome
		}
		if conn, ok := ParseConnectionType(ri.ConnectionType); ok {
			issue.ConnectionType = &conn
		}
		result.Issues = append(result.Issues, issue)
	}

	result.Authorities = cleanNames(raw.Authorities)

	for _, rp := range raw.Passages {
		text := strings.TrimSpace(rp.Text)
		if text == "" {
			continue
		}
		tag, ok := ParsePassageTag(rp.Tag)
		if !ok {
			continue
		}
		result.Passages = append(result.Passages, ExtractedPassage{
			Text:       truncate(text, MaxPassageChars),
			Tag:        tag,
			Confidence: clampConfidence(rp.Confidence),
		})
	}

	if raw.RuleRecall != nil {
		if text := strings.TrimSpace(raw.RuleRecall.Text); text != "" {
			result.RuleRecall = &ExtractedRule{
				Text:       truncate(text, MaxPassageChars),
				Confidence: clampConfidence(raw.RuleRecall.Confidence),
			}
		}
	}

	if st, ok := ParseSystemType(raw.SystemType); ok {
		result.SystemType = &st
	}

	return result, nil
}

// cleanNames trims entries and drops empty or literal-null values
func cleanNames(names []string) []string {
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || strings.EqualFold(n, "null") {
			continue
		}
		out = append(out, n)
	}
	return out
}

func clampConfidence(v *float64) float64 {
	if v == nil {
		return defaultConfidence
	}
	if *v < 0 {
		return 0
	}
	if *v > 1 {
		return 1
	}
	return *v
}

// truncate cuts s to at most max bytes without splitting a rune, so the
// result is always valid UTF-8
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
