package handlers

import (
	"net/http"
	"strconv"

	"casegraph-backend/models"
	"casegraph-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueryHandler handles HTTP requests for the analytic queries
type QueryHandler struct {
	queryService *service.QueryService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queryService *service.QueryService) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
	}
}

// SimilarRequest represents the request body for a similarity search
type SimilarRequest struct {
	QueryText string    `json:"query_text"`
	Embedding []float64 `json:"embedding"`
	Outcome   string    `json:"outcome"`
	Limit     int       `json:"limit"`
}

// Similar handles POST /api/v1/query/similar
func (h *QueryHandler) Similar(c *gin.Context) {
	var req SimilarRequest
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

	var outcome *models.Outcome
	if req.Outcome != "" {
		parsed, ok := models.ParseOutcome(req.Outcome)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_OUTCOME",
					"message": "outcome must be Granted, Denied, Remanded or Mixed",
				},
			})
			return
		}
		outcome = &parsed
	}

	results, err := h.queryService.SimilarCases(c.Request.Context(), service.SimilarCasesRequest{
		QueryText: req.QueryText,
		Embedding: req.Embedding,
		Outcome:   outcome,
		Limit:     req.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUERY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}

// EvidenceChain handles GET /api/v1/query/evidence-chain/:issue_id
func (h *QueryHandler) EvidenceChain(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issue_id"))
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

	chain, err := h.queryService.EvidenceChain(c.Request.Context(), issueID)
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
				"code":    "QUERY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    chain,
	})
}

// DenialAnalysis handles GET /api/v1/query/denial-analysis/:issue_id
func (h *QueryHandler) DenialAnalysis(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issue_id"))
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

	analysis, err := h.queryService.DenialAnalysis(c.Request.Context(), issueID)
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
				"code":    "QUERY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    analysis,
	})
}

// EvidenceDiff handles GET /api/v1/query/evidence-diff?condition=...
func (h *QueryHandler) EvidenceDiff(c *gin.Context) {
	condition := c.Query("condition")
	if condition == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_CONDITION",
				"message": "condition query parameter is required",
			},
		})
		return
	}

	results, err := h.queryService.EvidenceDiff(c.Request.Context(), condition)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUERY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}

// AuthorityStats handles GET /api/v1/query/authority-stats?condition=...&limit=...
func (h *QueryHandler) AuthorityStats(c *gin.Context) {
	condition := c.Query("condition")
	if condition == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_CONDITION",
				"message": "condition query parameter is required",
			},
		})
		return
	}

	stats, err := h.queryService.AuthorityStats(c.Request.Context(), condition)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUERY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_LIMIT",
					"message": "limit must be a non-negative integer",
				},
			})
			return
		}
		if limit < len(stats) {
			stats = stats[:limit]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
