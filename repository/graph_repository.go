package repository

import (
	"context"
	"fmt"

	"casegraph-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GraphRepository handles the write path of the knowledge graph. All
// mutating methods run on a caller-supplied transaction so one decision's
// rows commit or roll back as a unit.
type GraphRepository struct {
	db *pgxpool.Pool
}

// NewGraphRepository creates a new graph repository
func NewGraphRepository(db *pgxpool.Pool) *GraphRepository {
	return &GraphRepository{db: db}
}

// Begin starts a load transaction
func (r *GraphRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

// UpsertDecision inserts a decision or, when the citation number already
// exists, updates its scalar fields in place. Fills in ID and timestamps.
func (r *GraphRepository) UpsertDecision(ctx context.Context, tx pgx.Tx, decision *models.Decision) error {
	query := `
		INSERT INTO decisions (citation_nr, decision_date, system_type, raw_text, embedding)
		VALUES ($1, $2, $3, $4, $5::vector)
		ON CONFLICT (citation_nr) DO UPDATE SET
			decision_date = EXCLUDED.decision_date,
			system_type = EXCLUDED.system_type,
			raw_text = EXCLUDED.raw_text,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	var embedding interface{}
	if len(decision.Embedding) > 0 {
		embedding = formatVector(decision.Embedding)
	}

	err := tx.QueryRow(
		ctx, query,
		decision.CitationNr,
		decision.DecisionDate,
		decision.SystemType,
		decision.RawText,
		embedding,
	).Scan(&decision.ID, &decision.CreatedAt, &decision.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert decision %s: %w", decision.CitationNr, err)
	}

	return nil
}

// getOrCreate resolves a vocabulary name to its row id with a single
// constrained upsert. The unique index arbitrates concurrent creates: a
// conflicting insert lands on the existing row instead of failing.
func (r *GraphRepository) getOrCreate(ctx context.Context, tx pgx.Tx, table, column, value string) (uuid.UUID, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING id`, table, column, column, column, column)

	var id uuid.UUID
	if err := tx.QueryRow(ctx, query, value).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to get or create %s %q: %w", table, value, err)
	}
	return id, nil
}

// GetOrCreateCondition resolves a condition name to its vocabulary row
func (r *GraphRepository) GetOrCreateCondition(ctx context.Context, tx pgx.Tx, name string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, tx, "conditions", "name", name)
}

// GetOrCreateAuthority resolves an authority citation to its vocabulary row
func (r *GraphRepository) GetOrCreateAuthority(ctx context.Context, tx pgx.Tx, citation string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, tx, "authorities", "citation", citation)
}

// GetOrCreateEvidenceType resolves an evidence type name to its vocabulary row
func (r *GraphRepository) GetOrCreateEvidenceType(ctx context.Context, tx pgx.Tx, name string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, tx, "evidence_types", "name", name)
}

// GetOrCreateProviderType resolves a provider type name to its vocabulary row
func (r *GraphRepository) GetOrCreateProviderType(ctx context.Context, tx pgx.Tx, name string) (uuid.UUID, error) {
	return r.getOrCreate(ctx, tx, "provider_types", "name", name)
}

// LinkDecisionAuthority links a decision to a cited authority
func (r *GraphRepository) LinkDecisionAuthority(ctx context.Context, tx pgx.Tx, decisionID, authorityID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO decision_authorities (decision_id, authority_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		decisionID, authorityID,
	)
	if err != nil {
		return fmt.Errorf("failed to link decision authority: %w", err)
	}
	return nil
}

// InsertIssue inserts a new issue row and fills in its ID
func (r *GraphRepository) InsertIssue(ctx context.Context, tx pgx.Tx, issue *models.Issue) error {
	query := `
		INSERT INTO issues (decision_id, issue_text, outcome, connection_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := tx.QueryRow(
		ctx, query,
		issue.DecisionID,
		issue.IssueText,
		issue.Outcome,
		issue.ConnectionType,
	).Scan(&issue.ID)
	if err != nil {
		return fmt.Errorf("failed to insert issue: %w", err)
	}

	return nil
}

// LinkIssueCondition links an issue to its claimed condition
func (r *GraphRepository) LinkIssueCondition(ctx context.Context, tx pgx.Tx, issueID, conditionID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO issue_conditions (issue_id, condition_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		issueID, conditionID,
	)
	if err != nil {
		return fmt.Errorf("failed to link issue condition: %w", err)
	}
	return nil
}

// LinkIssueEvidence links an issue to an evidence type with the
// extraction confidence carried on the edge
func (r *GraphRepository) LinkIssueEvidence(ctx context.Context, tx pgx.Tx, issueID, evidenceTypeID uuid.UUID, confidence float64) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO issue_evidence (issue_id, evidence_type_id, confidence) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		issueID, evidenceTypeID, confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to link issue evidence: %w", err)
	}
	return nil
}

// LinkIssueProvider links an issue to a provider type
func (r *GraphRepository) LinkIssueProvider(ctx context.Context, tx pgx.Tx, issueID, providerTypeID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO issue_providers (issue_id, provider_type_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		issueID, providerTypeID,
	)
	if err != nil {
		return fmt.Errorf("failed to link issue provider: %w", err)
	}
	return nil
}

// InsertPassage inserts a passage row under its decision and fills in its ID
func (r *GraphRepository) InsertPassage(ctx context.Context, tx pgx.Tx, passage *models.Passage) error {
	query := `
		INSERT INTO passages (decision_id, text, tag, confidence, embedding)
		VALUES ($1, $2, $3, $4, $5::vector)
		RETURNING id`

	var embedding interface{}
	if len(passage.Embedding) > 0 {
		embedding = formatVector(passage.Embedding)
	}

	err := tx.QueryRow(
		ctx, query,
		passage.DecisionID,
		passage.Text,
		passage.Tag,
		passage.Confidence,
		embedding,
	).Scan(&passage.ID)
	if err != nil {
		return fmt.Errorf("failed to insert passage: %w", err)
	}

	return nil
}

// LinkIssuePassage associates a passage with an issue
func (r *GraphRepository) LinkIssuePassage(ctx context.Context, tx pgx.Tx, issueID, passageID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO issue_passages (issue_id, passage_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		issueID, passageID,
	)
	if err != nil {
		return fmt.Errorf("failed to link issue passage: %w", err)
	}
	return nil
}
