package repository

import (
	"errors"

	"clinic-directory/internal/domain/entity"
	domainRepo "clinic-directory/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id int64) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByEmail(db *gorm.DB, email string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("email = ?", email).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Order("id ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit(clause.Associations).Save(doctor).Error
}

func (r *doctorRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) Count(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&entity.Doctor{}).Count(&total).Error
	return total, err
}

func (r *doctorRepository) FirstOrCreateByEmail(db *gorm.DB, doctor *entity.Doctor) (bool, error) {
	result := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(doctor)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	existing, err := r.FindByEmail(db, doctor.Email)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, gorm.ErrRecordNotFound
	}
	*doctor = *existing
	return false, nil
}
