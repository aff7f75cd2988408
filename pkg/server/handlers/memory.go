package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/mnemo"
	"github.com/soundprediction/mnemo/pkg/server/dto"
	"github.com/soundprediction/mnemo/pkg/types"
)

// MemoryHandler handles memory ingest and retrieval requests
type MemoryHandler struct {
	memory mnemo.Memory
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(m mnemo.Memory) *MemoryHandler {
	return &MemoryHandler{
		memory: m,
	}
}

// AddMemory handles POST /memories
func (h *MemoryHandler) AddMemory(c *gin.Context) {
	var req dto.AddMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.memory.Add(c.Request.Context(), req.Text, req.TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "ingest_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.AddMemoryResponse{
		DeletedEntities: tripleResults(result.DeletedTriples),
		AddedEntities:   tripleResults(result.AddedTriples),
	})
}

// Search handles POST /search
func (h *MemoryHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	triples, err := h.memory.Search(c.Request.Context(), req.Query, req.TenantID, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "search_failed", Message: err.Error()})
		return
	}

	results := tripleResults(triples)
	c.JSON(http.StatusOK, dto.SearchResponse{
		Results: results,
		Total:   len(results),
	})
}

// GetAll handles GET /memories/:tenant_id
func (h *MemoryHandler) GetAll(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	triples, err := h.memory.GetAll(c.Request.Context(), tenantID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "retrieval_failed", Message: err.Error()})
		return
	}

	results := tripleResults(triples)
	c.JSON(http.StatusOK, dto.SearchResponse{
		Results: results,
		Total:   len(results),
	})
}

// DeleteAll handles DELETE /memories/:tenant_id
func (h *MemoryHandler) DeleteAll(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	if err := h.memory.DeleteAll(c.Request.Context(), tenantID); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "delete_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// tripleResults converts engine triples to their API representation. The
// response arrays are never null, even when empty.
func tripleResults(triples []types.Triple) []dto.TripleResult {
	results := make([]dto.TripleResult, 0, len(triples))
	for _, t := range triples {
		results = append(results, dto.TripleResult{
			Source:       t.Source,
			Relationship: t.Relationship,
			Destination:  t.Destination,
		})
	}
	return results
}
