package handlers

import (
	"net/http"
	"time"

	"casegraph-backend/repository"
	"casegraph-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DecisionHandler handles HTTP requests for decision ingestion and scoring
type DecisionHandler struct {
	extractionService *service.ExtractionService
	ingestService     *service.IngestService
	scoringService    *service.ScoringService
	decisionRepo      *repository.DecisionRepository
	issueRepo         *repository.IssueRepository
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(
	extractionService *service.ExtractionService,
	ingestService *service.IngestService,
	scoringService *service.ScoringService,
	decisionRepo *repository.DecisionRepository,
	issueRepo *repository.IssueRepository,
) *DecisionHandler {
	return &DecisionHandler{
		extractionService: extractionService,
		ingestService:     ingestService,
		scoringService:    scoringService,
		decisionRepo:      decisionRepo,
		issueRepo:         issueRepo,
	}
}

// ExtractRequest represents the request body for a dry-run extraction
type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// Extract handles POST /api/v1/extract. It runs the transducer without
// touching the graph, for inspecting what a document would yield.
func (h *DecisionHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.extractionService.Extract(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXTRACTION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// IngestRequest represents the request body for ingesting a decision
type IngestRequest struct {
	CitationNr   string `json:"citation_nr" binding:"required"`
	RawText      string `json:"raw_text" binding:"required"`
	DecisionDate string `json:"decision_date"`
}

// Ingest handles POST /api/v1/ingest
func (h *DecisionHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	var decisionDate *time.Time
	if req.DecisionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DecisionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DATE",
					"message": "decision_date must be YYYY-MM-DD",
				},
			})
			return
		}
		decisionDate = &parsed
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), service.IngestRequest{
		CitationNr:   req.CitationNr,
		RawText:      req.RawText,
		DecisionDate: decisionDate,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INGEST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"decision_id":        result.Load.DecisionID,
			"issues_loaded":      result.Load.IssuesLoaded,
			"passages_loaded":    result.Load.PassagesLoaded,
			"authorities_linked": result.Load.AuthoritiesLinked,
		},
	})
}

// GetDecision handles GET /api/v1/decisions/:citation
func (h *DecisionHandler) GetDecision(c *gin.Context) {
	citation := c.Param("citation")

	decision, err := h.decisionRepo.GetByCitation(c.Request.Context(), citation)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Decision not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	issues, err := h.issueRepo.ListByDecision(c.Request.Context(), decision.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"decision": decision,
			"issues":   issues,
		},
	})
}

// ScoreRequest represents the request body for scoring. With an
// issue_id it scores one issue; without, the whole store.
type ScoreRequest struct {
	IssueID *string `json:"issue_id"`
}

// Score handles POST /api/v1/score
func (h *DecisionHandler) Score(c *gin.Context) {
	var req ScoreRequest
	// Body is optional; an empty body means score everything
	_ = c.ShouldBindJSON(&req)

	if req.IssueID != nil {
		issueID, err := uuid.Parse(*req.IssueID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ID",
					"message": "Invalid issue ID format",
				},
			})
			return
		}

		correctness, analysisDepth, err := h.scoringService.ScoreIssue(c.Request.Context(), issueID)
		if err != nil {
			if err == service.ErrIssueNotFound {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "NOT_FOUND",
						"message": "Issue not found",
					},
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SCORING_FAILED",
					"message": err.Error(),
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"issue_id":             issueID,
				"correctness_score":    correctness,
				"analysis_depth_score": analysisDepth,
			},
		})
		return
	}

	summary, err := h.scoringService.ScoreAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SCORING_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}
