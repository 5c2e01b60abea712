package repository

import (
	"context"
	"fmt"

	"casegraph-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IssueRepository handles read and score-write operations for issues
type IssueRepository struct {
	db *pgxpool.Pool
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *pgxpool.Pool) *IssueRepository {
	return &IssueRepository{db: db}
}

// GetSnapshot reads the graph neighborhood of an issue: outcome, owning
// decision text, evidence edge count, decision authorities, and linked
// passages. Returns ErrNotFound when the issue is unknown.
func (r *IssueRepository) GetSnapshot(ctx context.Context, issueID uuid.UUID) (*models.IssueSnapshot, error) {
	snapshot := &models.IssueSnapshot{IssueID: issueID}

	var outcome *string
	err := r.db.QueryRow(ctx, `
		SELECT i.outcome, d.raw_text
		FROM issues i
		JOIN decisions d ON i.decision_id = d.id
		WHERE i.id = $1`, issueID,
	).Scan(&outcome, &snapshot.DecisionText)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load issue %s: %w", issueID, err)
	}
	if outcome != nil {
		o := models.Outcome(*outcome)
		snapshot.Outcome = &o
	}

	err = r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM issue_evidence WHERE issue_id = $1", issueID,
	).Scan(&snapshot.EvidenceCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count issue evidence: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT a.citation FROM authorities a
		JOIN decision_authorities da ON a.id = da.authority_id
		JOIN issues i ON da.decision_id = i.decision_id
		WHERE i.id = $1`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load issue authorities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var citation string
		if err := rows.Scan(&citation); err != nil {
			return nil, fmt.Errorf("failed to scan authority: %w", err)
		}
		snapshot.Authorities = append(snapshot.Authorities, citation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authorities: %w", err)
	}

	passageRows, err := r.db.Query(ctx, `
		SELECT p.tag, p.text FROM passages p
		JOIN issue_passages ip ON p.id = ip.passage_id
		WHERE ip.issue_id = $1`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load issue passages: %w", err)
	}
	defer passageRows.Close()
	for passageRows.Next() {
		var ref models.PassageRef
		var tag string
		if err := passageRows.Scan(&tag, &ref.Text); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		ref.Tag = models.PassageTag(tag)
		snapshot.Passages = append(snapshot.Passages, ref)
	}
	if err := passageRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating passages: %w", err)
	}

	return snapshot, nil
}

// UpdateScores writes both quality scores back onto the issue row.
// This is the only mutation applied after load time.
func (r *IssueRepository) UpdateScores(ctx context.Context, issueID uuid.UUID, correctness, analysisDepth float64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE issues
		SET correctness_score = $2, analysis_depth_score = $3
		WHERE id = $1`, issueID, correctness, analysisDepth)
	if err != nil {
		return fmt.Errorf("failed to update issue scores: %w", err)
	}
	return nil
}

// ListIDs returns the ids of all issues, for batch scoring
func (r *IssueRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, "SELECT id FROM issues ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan issue id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByDecision returns all issues belonging to a decision
func (r *IssueRepository) ListByDecision(ctx context.Context, decisionID uuid.UUID) ([]models.Issue, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, decision_id, issue_text, outcome, connection_type,
			correctness_score, analysis_depth_score
		FROM issues
		WHERE decision_id = $1
		ORDER BY id`, decisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decision issues: %w", err)
	}
	defer rows.Close()

	var issues []models.Issue
	for rows.Next() {
		var issue models.Issue
		var outcome, connectionType *string
		err := rows.Scan(
			&issue.ID,
			&issue.DecisionID,
			&issue.IssueText,
			&outcome,
			&connectionType,
			&issue.CorrectnessScore,
			&issue.AnalysisDepthScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		if outcome != nil {
			o := models.Outcome(*outcome)
			issue.Outcome = &o
		}
		if connectionType != nil {
			c := models.ConnectionType(*connectionType)
			issue.ConnectionType = &c
		}
		issues = append(issues, issue)
	}

	return issues, rows.Err()
}
