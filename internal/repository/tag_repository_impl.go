package repository

import (
	"strings"

	"clinic-directory/internal/domain/entity"
	domainRepo "clinic-directory/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tagRepository struct{}

func NewTagRepository() domainRepo.TagRepository {
	return &tagRepository{}
}

func (r *tagRepository) FindAll(db *gorm.DB) ([]entity.Tag, error) {
	var tags []entity.Tag
	err := db.Order("name ASC").Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Count(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&entity.Tag{}).Count(&total).Error
	return total, err
}

func (r *tagRepository) FirstOrCreateByName(db *gorm.DB, name string) (*entity.Tag, bool, error) {
	tag := &entity.Tag{Name: name, Slug: Slugify(name)}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(tag)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return tag, true, nil
	}

	var existing entity.Tag
	if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// Slugify lowercases name and joins its words with dashes. Non-ASCII letters are kept.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
