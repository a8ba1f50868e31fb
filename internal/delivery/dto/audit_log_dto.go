package dto

import (
	"clinic-directory/internal/domain/entity"
	"time"
)

// Request DTOs

// AuditLogListRequest is read from the query string of the audit log listing.
type AuditLogListRequest struct {
	Page   int    `validate:"gte=1"`
	Limit  int    `validate:"gte=1,lte=100"`
	Actor  string `validate:"omitempty,max=100"`
	Action string `validate:"omitempty,max=100"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	Actor     string      `json:"actor"`
	Action    string      `json:"action"`
	Entity    string      `json:"entity,omitempty"`
	EntityID  int64       `json:"entity_id,omitempty"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
