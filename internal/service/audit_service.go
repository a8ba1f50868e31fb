package service

import (
	"context"

	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// auditSavePoint scopes the audit insert so its failure leaves the caller's transaction usable.
const auditSavePoint = "audit_log"

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID int64, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID int64, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID int64, oldValue interface{}) error
	// LogEvent records an action that is not tied to a single row, e.g. a bulk import.
	LogEvent(ctx context.Context, tx *gorm.DB, actor string, action string, metadata entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID int64, newValue interface{}) error {
	return s.write(tx, actor, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID int64, oldValue, newValue interface{}) error {
	return s.write(tx, actor, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": newValue,
	})
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID int64, oldValue interface{}) error {
	return s.write(tx, actor, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": nil,
	})
}

func (s *auditService) LogEvent(ctx context.Context, tx *gorm.DB, actor string, action string, metadata entity.JSON) error {
	return s.write(tx, actor, action, metadata)
}

func (s *auditService) write(tx *gorm.DB, actor, action string, metadata entity.JSON) error {
	if actor == "" {
		actor = entity.AuditActorAnonymous
	}

	auditLog := &entity.AuditLog{
		Actor:    actor,
		Action:   action,
		Metadata: metadata,
	}

	if tx != nil {
		if err := tx.SavePoint(auditSavePoint).Error; err != nil {
			s.log.Warnf("Failed to create audit savepoint: %+v", err)
			return err
		}
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		if tx != nil {
			if rbErr := tx.RollbackTo(auditSavePoint).Error; rbErr != nil {
				s.log.Warnf("Failed to roll back audit savepoint: %+v", rbErr)
			}
		}
		return err
	}

	return nil
}
