package repository

import (
	"errors"

	"clinic-directory/internal/domain/entity"
	domainRepo "clinic-directory/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type listingRepository struct{}

func NewListingRepository() domainRepo.ListingRepository {
	return &listingRepository{}
}

func (r *listingRepository) Create(db *gorm.DB, listing *entity.Listing) error {
	return db.Omit(clause.Associations).Create(listing).Error
}

func (r *listingRepository) FindByID(db *gorm.DB, id int64) (*entity.Listing, error) {
	var listing entity.Listing
	err := db.
		Preload("Doctor").
		Preload("Professionals", func(db *gorm.DB) *gorm.DB { return db.Order("subjects.id ASC") }).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindByTitleAndDoctor(db *gorm.DB, title string, doctorID int64) (*entity.Listing, error) {
	var listing entity.Listing
	err := db.Where("title = ? AND doctor_id = ?", title, doctorID).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// FindAll returns listings newest first with doctor, professionals and services loaded.
func (r *listingRepository) FindAll(db *gorm.DB, filter *entity.ListingFilter) ([]entity.Listing, error) {
	var listings []entity.Listing
	query := db.
		Preload("Doctor").
		Preload("Professionals", func(db *gorm.DB) *gorm.DB { return db.Order("subjects.id ASC") }).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") })

	if filter != nil {
		if filter.PublishedOnly {
			query = query.Where("is_published = ?", true)
		}
		if filter.DoctorID != 0 {
			query = query.Where("doctor_id = ?", filter.DoctorID)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
	}

	err := query.Order("list_date DESC, id DESC").Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Update(db *gorm.DB, listing *entity.Listing) error {
	return db.Omit(clause.Associations).Save(listing).Error
}

func (r *listingRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	if err := db.Where("listing_id = ?", id).Delete(&entity.ListingService{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("listing_id = ?", id).Delete(&entity.ListingProfessional{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("id = ?", id).Delete(&entity.Listing{})
	return result.RowsAffected, result.Error
}

func (r *listingRepository) Count(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&entity.Listing{}).Count(&total).Error
	return total, err
}

func (r *listingRepository) AddProfessional(db *gorm.DB, listingID, subjectID int64) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.ListingProfessional{ListingID: listingID, SubjectID: subjectID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *listingRepository) ReplaceProfessionals(db *gorm.DB, listingID int64, subjectIDs []int64) error {
	if err := db.Where("listing_id = ?", listingID).Delete(&entity.ListingProfessional{}).Error; err != nil {
		return err
	}
	if len(subjectIDs) == 0 {
		return nil
	}
	rows := make([]entity.ListingProfessional, 0, len(subjectIDs))
	for _, id := range subjectIDs {
		rows = append(rows, entity.ListingProfessional{ListingID: listingID, SubjectID: id})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *listingRepository) CountProfessionals(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&entity.ListingProfessional{}).Count(&total).Error
	return total, err
}

func (r *listingRepository) AddService(db *gorm.DB, listingID, tagID int64) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.ListingService{ListingID: listingID, TagID: tagID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *listingRepository) ReplaceServices(db *gorm.DB, listingID int64, tagIDs []int64) error {
	if err := db.Where("listing_id = ?", listingID).Delete(&entity.ListingService{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]entity.ListingService, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, entity.ListingService{ListingID: listingID, TagID: id})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *listingRepository) ScoreSums(db *gorm.DB) (*entity.ListingScoreSums, error) {
	var sums entity.ListingScoreSums
	err := db.Model(&entity.Listing{}).
		Select(`
			COUNT(*) AS count,
			COALESCE(SUM(service), 0) AS service,
			COALESCE(SUM(screen), 0) AS screen,
			COALESCE(SUM(professional), 0) AS professional
		`).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return &sums, nil
}
