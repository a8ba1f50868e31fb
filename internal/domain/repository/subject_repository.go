package repository

import (
	"clinic-directory/internal/domain/entity"

	"gorm.io/gorm"
)

type SubjectRepository interface {
	Create(db *gorm.DB, subject *entity.Subject) error
	FindByID(db *gorm.DB, id int64) (*entity.Subject, error)
	FindByIDs(db *gorm.DB, ids []int64) ([]entity.Subject, error)
	FindAll(db *gorm.DB) ([]entity.Subject, error)
	Update(db *gorm.DB, subject *entity.Subject) error
	Delete(db *gorm.DB, id int64) (int64, error)
	Count(db *gorm.DB) (int64, error)
	FirstOrCreateByName(db *gorm.DB, name string) (*entity.Subject, bool, error)
}
