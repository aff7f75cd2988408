package dto

import (
	"errors"
	"strings"
)

// Validation errors
var (
	ErrEmptyTenantID   = errors.New("tenant_id cannot be empty")
	ErrEmptyText       = errors.New("text cannot be empty")
	ErrEmptyQuery      = errors.New("query cannot be empty")
	ErrTenantIDTooLong = errors.New("tenant_id exceeds maximum length (256)")
	ErrTextTooLong     = errors.New("text exceeds maximum length (1MB)")
)

// MaxFieldLengths defines maximum lengths for fields to prevent abuse
const (
	MaxTenantIDLength = 256
	MaxTextLength     = 1024 * 1024 // 1MB
)

// AddMemoryRequest represents a request to ingest text into a tenant's graph
type AddMemoryRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

// Validate performs validation on AddMemoryRequest
func (r *AddMemoryRequest) Validate() error {
	if strings.TrimSpace(r.TenantID) == "" {
		return ErrEmptyTenantID
	}
	if len(r.TenantID) > MaxTenantIDLength {
		return ErrTenantIDTooLong
	}
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if len(r.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// SearchRequest represents a search over a tenant's graph
type SearchRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
	Query    string `json:"query" binding:"required"`
	Limit    int    `json:"limit,omitempty"`
}

// Validate performs validation on SearchRequest
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.TenantID) == "" {
		return ErrEmptyTenantID
	}
	if len(r.TenantID) > MaxTenantIDLength {
		return ErrTenantIDTooLong
	}
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// TripleResult is one relation in an API response
type TripleResult struct {
	Source       string `json:"source"`
	Relationship string `json:"relationship"`
	Destination  string `json:"destination"`
}

// AddMemoryResponse is the result of an ingest operation
type AddMemoryResponse struct {
	DeletedEntities []TripleResult `json:"deleted_entities"`
	AddedEntities   []TripleResult `json:"added_entities"`
}

// SearchResponse holds the ranked relations for a search
type SearchResponse struct {
	Results []TripleResult `json:"results"`
	Total   int            `json:"total"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
