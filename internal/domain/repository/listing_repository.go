package repository

import (
	"clinic-directory/internal/domain/entity"

	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(db *gorm.DB, listing *entity.Listing) error
	FindByID(db *gorm.DB, id int64) (*entity.Listing, error)
	FindByTitleAndDoctor(db *gorm.DB, title string, doctorID int64) (*entity.Listing, error)
	FindAll(db *gorm.DB, filter *entity.ListingFilter) ([]entity.Listing, error)
	Update(db *gorm.DB, listing *entity.Listing) error
	Delete(db *gorm.DB, id int64) (int64, error)
	Count(db *gorm.DB) (int64, error)

	// AddProfessional links a subject; added is false when the link already existed.
	AddProfessional(db *gorm.DB, listingID, subjectID int64) (added bool, err error)
	ReplaceProfessionals(db *gorm.DB, listingID int64, subjectIDs []int64) error
	CountProfessionals(db *gorm.DB) (int64, error)

	AddService(db *gorm.DB, listingID, tagID int64) (added bool, err error)
	ReplaceServices(db *gorm.DB, listingID int64, tagIDs []int64) error

	ScoreSums(db *gorm.DB) (*entity.ListingScoreSums, error)
}
