package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"casegraph-backend/models"

	"github.com/google/generative-ai-go/genai"
)

const (
	defaultExtractionModel = "gemini-2.0-flash"

	// maxDecisionChars caps the text submitted to the transducer.
	// Longer decisions are truncated, so extraction never covers more
	// than this prefix of the document.
	maxDecisionChars = 30000
)

const extractionPrompt = `Analyze this legal decision and extract structured data.

Return JSON with this exact schema:
{
  "issues": [
    {
      "issue_text": "Entitlement to service connection for...",
      "outcome": "Granted|Denied|Remanded|Mixed",
      "connection_type": "Direct|Secondary|Aggravation|null",
      "condition": "normalized condition name",
      "evidence_types": ["STR", "VA_EXAM", "PRIVATE_OPINION", "LAY_EVIDENCE"],
      "provider_types": ["VA_EXAMINER", "PRIVATE_IME", "TREATING_PHYSICIAN"],
      "confidence": 0.9
    }
  ],
  "authorities": ["38 C.F.R. § 3.310", "Gilbert v. Derwinski"],
  "passages": [
    {
      "text": "The private physician opined that...",
      "tag": "MEDICAL_OPINION|EXAM_ADEQUACY|LAY_EVIDENCE|REASONS_BASES|NO_NEXUS_FOUND|WEIGHING_OF_EVIDENCE|NEGATIVE_CREDIBILITY",
      "confidence": 0.85
    }
  ],
  "rule_recall": {
    "text": "exact quote of the governing rule",
    "confidence": 0.95
  },
  "system_type": "AMA|Legacy|null"
}

Only extract what is explicitly stated. Set confidence lower (0.6-0.7)
for inferred relationships, higher (0.9-1.0) for explicit ones.

Include "rule_recall" ONLY when the decision explicitly quotes the
governing rule. Never infer it; omit the field otherwise.

Limit to 5 most important passages. Keep passage text under 500 chars.

DECISION TEXT:
`

// ExtractionService calls the external transducer that turns raw
// decision text into a structured extraction result
type ExtractionService struct {
	client    *genai.Client
	modelName string
}

// ExtractionServiceOption is a functional option for ExtractionService
type ExtractionServiceOption func(*ExtractionService)

// ExtractionWithGeminiClient sets the Gemini client
func ExtractionWithGeminiClient(client *genai.Client) ExtractionServiceOption {
	return func(s *ExtractionService) {
		s.client = client
	}
}

// ExtractionWithModel overrides the transducer model name
func ExtractionWithModel(name string) ExtractionServiceOption {
	return func(s *ExtractionService) {
		s.modelName = name
	}
}

// NewExtractionService creates a new extraction service
func NewExtractionService(opts ...ExtractionServiceOption) *ExtractionService {
	s := &ExtractionService{modelName: defaultExtractionModel}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract runs the transducer over decision text and returns the
// validated result. Unparsable transducer output is a normal outcome:
// it is logged and comes back as an empty result, not an error. Errors
// are reserved for transport failures.
func (s *ExtractionService) Extract(ctx context.Context, text string) (models.ExtractionResult, error) {
	if s.client == nil {
		return models.ExtractionResult{}, errors.New("gemini client not set")
	}

	text = truncateDecisionText(text)

	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(extractionPrompt+text))
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("transducer call failed: %w", err)
	}

	payload := responseText(resp)
	result, err := models.ParseExtraction([]byte(payload))
	if err != nil {
		log.Printf("Warning: failed to parse transducer output: %v", err)
		if len(payload) > 500 {
			payload = payload[:500]
		}
		log.Printf("Transducer output was: %s", payload)
		return models.ExtractionResult{}, nil
	}

	return result, nil
}

// truncateDecisionText caps decision text at maxDecisionChars bytes
// without splitting a rune, keeping the submitted prefix valid UTF-8
func truncateDecisionText(text string) string {
	if len(text) <= maxDecisionChars {
		return text
	}
	cut := maxDecisionChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// responseText concatenates the text parts of a generation response
func responseText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}
	return builder.String()
}
