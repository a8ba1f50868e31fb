package usecase

import (
	"context"

	"clinic-directory/internal/delivery/http/middleware"
	"clinic-directory/internal/domain/entity"
)

// actorFromContext returns the authenticated subject recorded in audit logs.
func actorFromContext(ctx context.Context) string {
	if subject, ok := middleware.GetSubjectFromContext(ctx); ok && subject != "" {
		return subject
	}
	return entity.AuditActorAnonymous
}
