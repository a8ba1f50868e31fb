package repository

import (
	"clinic-directory/internal/domain/entity"

	"gorm.io/gorm"
)

type TagRepository interface {
	FindAll(db *gorm.DB) ([]entity.Tag, error)
	Count(db *gorm.DB) (int64, error)
	FirstOrCreateByName(db *gorm.DB, name string) (*entity.Tag, bool, error)
}
