package repository

import (
	"clinic-directory/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id int64) (*entity.Doctor, error)
	FindByEmail(db *gorm.DB, email string) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	Delete(db *gorm.DB, id int64) (int64, error)
	Count(db *gorm.DB) (int64, error)

	// FirstOrCreateByEmail inserts doctor unless a row with the same email exists.
	// On return doctor holds the stored row and created reports whether it was inserted.
	FirstOrCreateByEmail(db *gorm.DB, doctor *entity.Doctor) (created bool, err error)
}
