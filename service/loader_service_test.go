package service

import (
	"context"
	"os"
	"testing"

	"casegraph-backend/models"
	"casegraph-backend/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a database with the graph schema applied; run
// cmd/create-schema against it first.
func TestLoadDecisionTwiceCreatesNoDuplicates(t *testing.T) {
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	defer pool.Close()

	citation := "TEST-" + uuid.NewString()
	condition := "test condition " + uuid.NewString()
	authority := "Test v. Derwinski " + uuid.NewString()
	evidenceType := "TEST_EVIDENCE_" + uuid.NewString()

	defer func() {
		pool.Exec(ctx, "DELETE FROM decisions WHERE citation_nr = $1", citation)
		pool.Exec(ctx, "DELETE FROM conditions WHERE name = $1", condition)
		pool.Exec(ctx, "DELETE FROM authorities WHERE citation = $1", authority)
		pool.Exec(ctx, "DELETE FROM evidence_types WHERE name = $1", evidenceType)
	}()

	loader := NewLoaderService(
		LoaderWithGraphRepository(repository.NewGraphRepository(pool)),
	)

	req := LoadDecisionRequest{
		CitationNr: citation,
		RawText:    "The Board grants service connection.",
		Extraction: models.ExtractionResult{
			Issues: []models.ExtractedIssue{
				{
					IssueText:     "Entitlement to service connection",
					Condition:     condition,
					EvidenceTypes: []string{evidenceType},
					Confidence:    0.9,
				},
			},
			Authorities: []string{authority},
		},
	}

	first, err := loader.LoadDecision(ctx, req)
	require.NoError(t, err)
	second, err := loader.LoadDecision(ctx, req)
	require.NoError(t, err)

	// Same citation resolves to the same decision row both times
	assert.Equal(t, first.DecisionID, second.DecisionID)

	countOf := func(query string, args ...interface{}) int {
		var n int
		require.NoError(t, pool.QueryRow(ctx, query, args...).Scan(&n))
		return n
	}

	assert.Equal(t, 1, countOf("SELECT COUNT(*) FROM decisions WHERE citation_nr = $1", citation))
	assert.Equal(t, 1, countOf("SELECT COUNT(*) FROM conditions WHERE name = $1", condition))
	assert.Equal(t, 1, countOf("SELECT COUNT(*) FROM authorities WHERE citation = $1", authority))
	assert.Equal(t, 1, countOf("SELECT COUNT(*) FROM evidence_types WHERE name = $1", evidenceType))

	// The decision-authority edge is not duplicated either
	assert.Equal(t, 1, countOf(`
		SELECT COUNT(*) FROM decision_authorities da
		JOIN decisions d ON da.decision_id = d.id
		WHERE d.citation_nr = $1`, citation))
}
