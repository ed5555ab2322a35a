package dto

import (
	"time"

	"github.com/hahnsoftware/emp-records-api/internal/models"
)

// AuditLogListRequest defines filters for querying the audit trail. From is
// inclusive, To exclusive; the HTTP layer widens calendar end dates by one day
// before building this request.
type AuditLogListRequest struct {
	EntityType string `validate:"omitempty,oneof=EMPLOYEE DEPARTMENT"`
	Action     string `validate:"omitempty,oneof=CREATE UPDATE DELETE"`
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// AuditLogResponse serializes one audit trail entry.
type AuditLogResponse struct {
	ID         uint                   `json:"id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   uint                   `json:"entity_id"`
	ActorID    *uint                  `json:"actor_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	Changes    string                 `json:"changes"`
	Timestamp  time.Time              `json:"timestamp"`
}

// AuditLogListResponse wraps a paginated audit trail response.
type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewAuditLogResponse maps a model to its response shape.
func NewAuditLogResponse(entry models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         entry.ID,
		Action:     string(entry.Action),
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID,
		ActorID:    entry.ActorID,
		Metadata:   entry.Metadata,
		Changes:    entry.Changes,
		Timestamp:  entry.CreatedAt,
	}
}
