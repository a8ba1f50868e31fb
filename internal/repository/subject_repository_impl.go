package repository

import (
	"errors"

	"clinic-directory/internal/domain/entity"
	domainRepo "clinic-directory/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subjectRepository struct{}

func NewSubjectRepository() domainRepo.SubjectRepository {
	return &subjectRepository{}
}

func (r *subjectRepository) Create(db *gorm.DB, subject *entity.Subject) error {
	return db.Create(subject).Error
}

func (r *subjectRepository) FindByID(db *gorm.DB, id int64) (*entity.Subject, error) {
	var subject entity.Subject
	err := db.Where("id = ?", id).First(&subject).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) FindByIDs(db *gorm.DB, ids []int64) ([]entity.Subject, error) {
	var subjects []entity.Subject
	if len(ids) == 0 {
		return subjects, nil
	}
	err := db.Where("id IN ?", ids).Order("id ASC").Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) FindAll(db *gorm.DB) ([]entity.Subject, error) {
	var subjects []entity.Subject
	err := db.Order("id ASC").Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) Update(db *gorm.DB, subject *entity.Subject) error {
	return db.Save(subject).Error
}

func (r *subjectRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Subject{})
	return result.RowsAffected, result.Error
}

func (r *subjectRepository) Count(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&entity.Subject{}).Count(&total).Error
	return total, err
}

func (r *subjectRepository) FirstOrCreateByName(db *gorm.DB, name string) (*entity.Subject, bool, error) {
	subject := &entity.Subject{Name: name}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(subject)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return subject, true, nil
	}

	var existing entity.Subject
	if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}
