package repository

import (
	"context"
	"fmt"

	"casegraph-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryRepository implements the read-only analytic projections over the
// knowledge graph
type QueryRepository struct {
	db *pgxpool.Pool
}

// NewQueryRepository creates a new query repository
func NewQueryRepository(db *pgxpool.Pool) *QueryRepository {
	return &QueryRepository{db: db}
}

// SimilarPassages ranks passages by vector distance to the query
// embedding, nearest first, joined with the owning issue, decision, and
// condition. A nil embedding degrades to an unranked listing so the
// query still answers when embeddings are absent.
func (r *QueryRepository) SimilarPassages(
	ctx context.Context,
	embedding []float64,
	outcomeFilter *models.Outcome,
	limit int,
) ([]models.SimilarPassage, error) {
	if limit <= 0 {
		limit = 5
	}

	var query string
	var args []interface{}

	if len(embedding) > 0 {
		vectorStr := formatVector(embedding)
		query = `
			SELECT
				p.text,
				i.issue_text,
				i.outcome,
				c.name,
				d.citation_nr,
				1 - (p.embedding <=> $1::vector) AS similarity
			FROM passages p
			JOIN issue_passages ip ON p.id = ip.passage_id
			JOIN issues i ON ip.issue_id = i.id
			LEFT JOIN issue_conditions ic ON i.id = ic.issue_id
			LEFT JOIN conditions c ON ic.condition_id = c.id
			JOIN decisions d ON p.decision_id = d.id
			WHERE p.embedding IS NOT NULL`
		args = append(args, vectorStr)
		if outcomeFilter != nil {
			query += fmt.Sprintf(" AND i.outcome = $%d", len(args)+1)
			args = append(args, *outcomeFilter)
		}
		query += fmt.Sprintf(" ORDER BY p.embedding <=> $1::vector LIMIT $%d", len(args)+1)
		args = append(args, limit)
	} else {
		query = `
			SELECT
				p.text,
				i.issue_text,
				i.outcome,
				c.name,
				d.citation_nr,
				0.0 AS similarity
			FROM passages p
			JOIN issue_passages ip ON p.id = ip.passage_id
			JOIN issues i ON ip.issue_id = i.id
			LEFT JOIN issue_conditions ic ON i.id = ic.issue_id
			LEFT JOIN conditions c ON ic.condition_id = c.id
			JOIN decisions d ON p.decision_id = d.id
			WHERE 1=1`
		if outcomeFilter != nil {
			query += fmt.Sprintf(" AND i.outcome = $%d", len(args)+1)
			args = append(args, *outcomeFilter)
		}
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar passages: %w", err)
	}
	defer rows.Close()

	var results []models.SimilarPassage
	for rows.Next() {
		var sp models.SimilarPassage
		var outcome *string
		err := rows.Scan(
			&sp.Passage,
			&sp.IssueText,
			&outcome,
			&sp.Condition,
			&sp.CitationNr,
			&sp.Similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan similar passage: %w", err)
		}
		if outcome != nil {
			o := models.Outcome(*outcome)
			sp.Outcome = &o
		}
		results = append(results, sp)
	}

	return results, rows.Err()
}

// issueExists distinguishes "unknown issue" from "issue with no edges"
func (r *QueryRepository) issueExists(ctx context.Context, issueID uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM issues WHERE id = $1)", issueID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check issue existence: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

// EvidenceChain reconstructs the full evidentiary neighborhood of an
// issue: condition, evidence and provider types, the parent decision's
// authorities, and linked passages with tags.
func (r *QueryRepository) EvidenceChain(ctx context.Context, issueID uuid.UUID) (*models.EvidenceChain, error) {
	if err := r.issueExists(ctx, issueID); err != nil {
		return nil, err
	}

	chain := &models.EvidenceChain{
		IssueID:       issueID,
		EvidenceTypes: []string{},
		ProviderTypes: []string{},
		Authorities:   []string{},
		Passages:      []models.TaggedPassage{},
	}

	err := r.db.QueryRow(ctx, `
		SELECT c.name FROM conditions c
		JOIN issue_conditions ic ON c.id = ic.condition_id
		WHERE ic.issue_id = $1`, issueID,
	).Scan(&chain.Condition)
	if err != nil && !isNoRows(err) {
		return nil, fmt.Errorf("failed to load condition: %w", err)
	}

	var scanErr error
	chain.EvidenceTypes, scanErr = r.stringColumn(ctx, `
		SELECT et.name FROM evidence_types et
		JOIN issue_evidence ie ON et.id = ie.evidence_type_id
		WHERE ie.issue_id = $1`, issueID)
	if scanErr != nil {
		return nil, scanErr
	}

	chain.ProviderTypes, scanErr = r.stringColumn(ctx, `
		SELECT pt.name FROM provider_types pt
		JOIN issue_providers ip ON pt.id = ip.provider_type_id
		WHERE ip.issue_id = $1`, issueID)
	if scanErr != nil {
		return nil, scanErr
	}

	chain.Authorities, scanErr = r.stringColumn(ctx, `
		SELECT a.citation FROM authorities a
		JOIN decision_authorities da ON a.id = da.authority_id
		JOIN issues i ON da.decision_id = i.decision_id
		WHERE i.id = $1`, issueID)
	if scanErr != nil {
		return nil, scanErr
	}

	rows, err := r.db.Query(ctx, `
		SELECT p.text, p.tag FROM passages p
		JOIN issue_passages ip ON p.id = ip.passage_id
		WHERE ip.issue_id = $1`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load passages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tp models.TaggedPassage
		var tag string
		if err := rows.Scan(&tp.Text, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		tp.Tag = models.PassageTag(tag)
		chain.Passages = append(chain.Passages, tp)
	}

	return chain, rows.Err()
}

// DenialEvidence returns the outcome, present evidence types, and
// exam-adequacy passages for an issue; the missing-evidence set
// difference is computed by the caller against the fixed universe.
func (r *QueryRepository) DenialEvidence(ctx context.Context, issueID uuid.UUID) (*models.Outcome, []string, []string, error) {
	var rawOutcome *string
	err := r.db.QueryRow(ctx, "SELECT outcome FROM issues WHERE id = $1", issueID).Scan(&rawOutcome)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to load issue outcome: %w", err)
	}
	var outcome *models.Outcome
	if rawOutcome != nil {
		o := models.Outcome(*rawOutcome)
		outcome = &o
	}

	present, err := r.stringColumn(ctx, `
		SELECT et.name FROM evidence_types et
		JOIN issue_evidence ie ON et.id = ie.evidence_type_id
		WHERE ie.issue_id = $1`, issueID)
	if err != nil {
		return nil, nil, nil, err
	}

	examPassages, err := r.stringColumn(ctx, `
		SELECT p.text FROM passages p
		JOIN issue_passages ip ON p.id = ip.passage_id
		WHERE ip.issue_id = $1 AND p.tag = $2`, issueID, models.TagExamAdequacy)
	if err != nil {
		return nil, nil, nil, err
	}

	return outcome, present, examPassages, nil
}

// EvidenceByOutcome counts evidence type usage grouped by outcome for
// all issues whose condition name matches the given substring,
// case-insensitively. No matching issues yields an empty slice.
func (r *QueryRepository) EvidenceByOutcome(ctx context.Context, condition string) ([]models.EvidenceOutcomeCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT et.name, i.outcome, COUNT(*)
		FROM evidence_types et
		JOIN issue_evidence ie ON et.id = ie.evidence_type_id
		JOIN issues i ON ie.issue_id = i.id
		JOIN issue_conditions ic ON i.id = ic.issue_id
		JOIN conditions c ON ic.condition_id = c.id
		WHERE c.name ILIKE $1
		GROUP BY et.name, i.outcome
		ORDER BY et.name, i.outcome`, "%"+condition+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence by outcome: %w", err)
	}
	defer rows.Close()

	results := []models.EvidenceOutcomeCount{}
	for rows.Next() {
		var row models.EvidenceOutcomeCount
		var outcome *string
		if err := rows.Scan(&row.EvidenceType, &outcome, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan evidence count: %w", err)
		}
		if outcome != nil {
			o := models.Outcome(*outcome)
			row.Outcome = &o
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// AuthorityStats counts authority citations grouped by outcome for all
// issues whose condition name matches the given substring, most cited
// first.
func (r *QueryRepository) AuthorityStats(ctx context.Context, condition string) ([]models.AuthorityStat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.citation, i.outcome, COUNT(*)
		FROM authorities a
		JOIN decision_authorities da ON a.id = da.authority_id
		JOIN decisions d ON da.decision_id = d.id
		JOIN issues i ON i.decision_id = d.id
		JOIN issue_conditions ic ON i.id = ic.issue_id
		JOIN conditions c ON ic.condition_id = c.id
		WHERE c.name ILIKE $1
		GROUP BY a.citation, i.outcome
		ORDER BY COUNT(*) DESC, a.citation`, "%"+condition+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query authority stats: %w", err)
	}
	defer rows.Close()

	results := []models.AuthorityStat{}
	for rows.Next() {
		var stat models.AuthorityStat
		var outcome *string
		if err := rows.Scan(&stat.Citation, &outcome, &stat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan authority stat: %w", err)
		}
		if outcome != nil {
			o := models.Outcome(*outcome)
			stat.Outcome = &o
		}
		results = append(results, stat)
	}

	return results, rows.Err()
}

// stringColumn collects a single text column from a query
func (r *QueryRepository) stringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
