package converter

import (
	"testing"

	"clinic-directory/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestAuditLogToResponse_LiftsEntity(t *testing.T) {
	for name, id := range map[string]any{"in-process": int64(9), "from jsonb": float64(9)} {
		t.Run(name, func(t *testing.T) {
			resp := AuditLogToResponse(&entity.AuditLog{
				ID:       1,
				Actor:    "ops@example.com",
				Action:   entity.AuditActionDoctorUpdate,
				Metadata: entity.JSON{"entity": "doctor", "entity_id": id},
			})
			assert.Equal(t, "doctor", resp.Entity)
			assert.Equal(t, int64(9), resp.EntityID)
		})
	}
}

func TestAuditLogToResponse_EventWithoutEntity(t *testing.T) {
	resp := AuditLogToResponse(&entity.AuditLog{Action: entity.AuditActionDataSeed, Metadata: entity.JSON{"reset": true}})

	assert.Empty(t, resp.Entity)
	assert.Zero(t, resp.EntityID)
	assert.Nil(t, AuditLogToResponse(nil))
	assert.Empty(t, AuditLogsToResponses(nil))
}
