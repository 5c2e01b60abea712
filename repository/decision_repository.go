package repository

import (
	"context"
	"fmt"

	"casegraph-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DecisionRepository handles read-side database operations for decisions
type DecisionRepository struct {
	db *pgxpool.Pool
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *pgxpool.Pool) *DecisionRepository {
	return &DecisionRepository{db: db}
}

const decisionColumns = `id, citation_nr, decision_date, system_type, raw_text, created_at, updated_at`

func scanDecision(row rowScanner) (*models.Decision, error) {
	decision := &models.Decision{}
	var systemType *string
	err := row.Scan(
		&decision.ID,
		&decision.CitationNr,
		&decision.DecisionDate,
		&systemType,
		&decision.RawText,
		&decision.CreatedAt,
		&decision.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if systemType != nil {
		st := models.SystemType(*systemType)
		decision.SystemType = &st
	}
	return decision, nil
}

// rowScanner is the single-row scan interface shared by QueryRow results
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// GetByID retrieves a decision by its internal id
func (r *DecisionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Decision, error) {
	query := fmt.Sprintf(`SELECT %s FROM decisions WHERE id = $1`, decisionColumns)
	return scanDecision(r.db.QueryRow(ctx, query, id))
}

// GetByCitation retrieves a decision by its external citation number
func (r *DecisionRepository) GetByCitation(ctx context.Context, citationNr string) (*models.Decision, error) {
	query := fmt.Sprintf(`SELECT %s FROM decisions WHERE citation_nr = $1`, decisionColumns)
	return scanDecision(r.db.QueryRow(ctx, query, citationNr))
}
