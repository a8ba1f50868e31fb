package converter

import (
	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/domain/entity"
)

// AuditLogToResponse converts an AuditLog entity to AuditLogResponse DTO.
// Entity and EntityID are lifted out of the metadata written for CRUD actions.
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	resp := &dto.AuditLogResponse{
		ID:        log.ID,
		Actor:     log.Actor,
		Action:    log.Action,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
	if name, ok := log.Metadata["entity"].(string); ok {
		resp.Entity = name
	}
	resp.EntityID = metadataID(log.Metadata["entity_id"])
	return resp
}

// metadataID accepts the int64 written in-process and the float64 read back from jsonb.
func metadataID(v any) int64 {
	switch id := v.(type) {
	case int64:
		return id
	case int:
		return int64(id)
	case float64:
		return int64(id)
	default:
		return 0
	}
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, *AuditLogToResponse(&logs[i]))
	}
	return responses
}
