package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraction(t *testing.T) {
	payload := `{
		"issues": [
			{
				"issue_text": "Entitlement to service connection for tinnitus",
				"outcome": "Granted",
				"connection_type": "Direct",
				"condition": "tinnitus",
				"evidence_types": ["STR", "VA_EXAM"],
				"provider_types": ["VA_EXAMINER"],
				"confidence": 0.9
			}
		],
		"authorities": ["38 C.F.R. § 3.310", "Gilbert v. Derwinski"],
		"passages": [
			{
				"text": "The examiner opined that tinnitus is at least as likely as not related to noise exposure.",
				"tag": "MEDICAL_OPINION",
				"confidence": 0.85
			}
		],
		"rule_recall": {
			"text": "Service connection requires competent evidence of a current disability.",
			"confidence": 0.95
		},
		"system_type": "AMA"
	}`

	result, err := ParseExtraction([]byte(payload))
	require.NoError(t, err)

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, "Entitlement to service connection for tinnitus", issue.IssueText)
	require.NotNil(t, issue.Outcome)
	assert.Equal(t, OutcomeGranted, *issue.Outcome)
	require.NotNil(t, issue.ConnectionType)
	assert.Equal(t, ConnectionDirect, *issue.ConnectionType)
	assert.Equal(t, "tinnitus", issue.Condition)
	assert.Equal(t, []string{"STR", "VA_EXAM"}, issue.EvidenceTypes)
	assert.Equal(t, []string{"VA_EXAMINER"}, issue.ProviderTypes)
	assert.Equal(t, 0.9, issue.Confidence)

	assert.Equal(t, []string{"38 C.F.R. § 3.310", "Gilbert v. Derwinski"}, result.Authorities)

	require.Len(t, result.Passages, 1)
	assert.Equal(t, TagMedicalOpinion, result.Passages[0].Tag)
	assert.Equal(t, 0.85, result.Passages[0].Confidence)

	require.NotNil(t, result.RuleRecall)
	assert.Equal(t, 0.95, result.RuleRecall.Confidence)

	require.NotNil(t, result.SystemType)
	assert.Equal(t, SystemTypeAMA, *result.SystemType)

	assert.False(t, result.Empty())
}

func TestParseExtractionMalformedJSON(t *testing.T) {
	result, err := ParseExtraction([]byte("not json at all"))
	assert.Error(t, err)
	assert.True(t, result.Empty())
}

func TestParseExtractionDropsInvalidEntries(t *testing.T) {
	payload := `{
		"issues": [
			{"issue_text": "   ", "outcome": "Granted"},
			{"issue_text": "Valid issue", "outcome": "SOMETHING_ELSE", "connection_type": "Indirect"}
		],
		"authorities": ["", "null", "  38 U.S.C. § 1110  "],
		"passages": [
			{"text": "tagged wrong", "tag": "NOT_A_REAL_TAG", "confidence": 0.8},
			{"text": "", "tag": "MEDICAL_OPINION"},
			{"text": "kept", "tag": "reasons bases"}
		]
	}`

	result, err := ParseExtraction([]byte(payload))
	require.NoError(t, err)

	// Blank issue text dropped; unknown enum values become nil, not errors
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "Valid issue", result.Issues[0].IssueText)
	assert.Nil(t, result.Issues[0].Outcome)
	assert.Nil(t, result.Issues[0].ConnectionType)

	assert.Equal(t, []string{"38 U.S.C. § 1110"}, result.Authorities)

	// Unknown tag and empty text dropped; lowercase tag with spaces normalized
	require.Len(t, result.Passages, 1)
	assert.Equal(t, TagReasonsBases, result.Passages[0].Tag)
	assert.Nil(t, result.RuleRecall)
	assert.Nil(t, result.SystemType)
}

func TestParseExtractionConfidenceDefaults(t *testing.T) {
	payload := `{
		"issues": [
			{"issue_text": "No confidence supplied"},
			{"issue_text": "Too high", "confidence": 3.5},
			{"issue_text": "Negative", "confidence": -1}
		]
	}`

	result, err := ParseExtraction([]byte(payload))
	require.NoError(t, err)
	require.Len(t, result.Issues, 3)
	assert.Equal(t, 0.7, result.Issues[0].Confidence)
	assert.Equal(t, 1.0, result.Issues[1].Confidence)
	assert.Equal(t, 0.0, result.Issues[2].Confidence)
}

func TestParseExtractionTruncatesLongPassages(t *testing.T) {
	long := strings.Repeat("a", MaxPassageChars+200)
	payload := `{
		"passages": [{"text": "` + long + `", "tag": "LAY_EVIDENCE"}],
		"rule_recall": {"text": "` + long + `"}
	}`

	result, err := ParseExtraction([]byte(payload))
	require.NoError(t, err)
	require.Len(t, result.Passages, 1)
	assert.Len(t, result.Passages[0].Text, MaxPassageChars)
	require.NotNil(t, result.RuleRecall)
	assert.Len(t, result.RuleRecall.Text, MaxPassageChars)
	assert.Equal(t, 0.7, result.RuleRecall.Confidence)
}

func TestParseExtractionTruncationKeepsValidUTF8(t *testing.T) {
	// A section sign straddling the byte cap must not be split in half;
	// invalid UTF-8 here would be rejected by the store at load time
	text := strings.Repeat("a", MaxPassageChars-1) + "§ 3.310"
	payload := `{
		"passages": [{"text": "` + text + `", "tag": "REASONS_BASES"}],
		"rule_recall": {"text": "` + text + `"}
	}`

	result, err := ParseExtraction([]byte(payload))
	require.NoError(t, err)

	require.Len(t, result.Passages, 1)
	got := result.Passages[0].Text
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), MaxPassageChars)
	assert.Equal(t, strings.Repeat("a", MaxPassageChars-1), got)

	require.NotNil(t, result.RuleRecall)
	assert.True(t, utf8.ValidString(result.RuleRecall.Text))
	assert.LessOrEqual(t, len(result.RuleRecall.Text), MaxPassageChars)
}

func TestParsePassageTag(t *testing.T) {
	tests := []struct {
		input string
		want  PassageTag
		ok    bool
	}{
		{"MEDICAL_OPINION", TagMedicalOpinion, true},
		{"  exam adequacy  ", TagExamAdequacy, true},
		{"rule_recall", TagRuleRecall, true},
		{"PRIVATE_OPINION", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParsePassageTag(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		input string
		want  Outcome
		ok    bool
	}{
		{"Granted", OutcomeGranted, true},
		{"denied", OutcomeDenied, true},
		{"REMANDED", OutcomeRemanded, true},
		{"Mixed", OutcomeMixed, true},
		{"Dismissed", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseOutcome(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
