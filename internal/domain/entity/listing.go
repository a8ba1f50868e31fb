package entity

import "time"

// Listing represents a clinic/practice record owned by exactly one doctor.
// Service, Screen and Professional are opaque ranked scores.
type Listing struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID     int64     `gorm:"not null;index" json:"doctor_id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Address      string    `gorm:"type:varchar(255)" json:"address"`
	District     string    `gorm:"type:varchar(100);index" json:"district"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	Service      int       `gorm:"default:0" json:"service"`
	RoomType     string    `gorm:"type:varchar(100)" json:"room_type"`
	Screen       int       `gorm:"default:0" json:"screen"`
	Professional int       `gorm:"default:0" json:"professional"`
	Rooms        string    `gorm:"type:varchar(20)" json:"rooms"`
	PhotoMain    string    `gorm:"type:varchar(255)" json:"photo_main,omitempty"`
	IsPublished  bool      `gorm:"not null" json:"is_published"`
	ListDate     time.Time `gorm:"not null;index" json:"list_date"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor        Doctor    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Professionals []Subject `gorm:"many2many:listing_professionals" json:"professionals,omitempty"`
	Services      []Tag     `gorm:"many2many:listing_services" json:"services,omitempty"`
}

func (Listing) TableName() string {
	return "listings"
}

// ListingProfessional is a row of the listing <-> subject join table.
type ListingProfessional struct {
	ListingID int64 `gorm:"primaryKey"`
	SubjectID int64 `gorm:"primaryKey"`
}

func (ListingProfessional) TableName() string {
	return "listing_professionals"
}

// ListingService is a row of the listing <-> tag join table.
type ListingService struct {
	ListingID int64 `gorm:"primaryKey"`
	TagID     int64 `gorm:"primaryKey"`
}

func (ListingService) TableName() string {
	return "listing_services"
}

// ServiceNames returns the tag names attached to the listing.
func (l *Listing) ServiceNames() []string {
	names := make([]string, 0, len(l.Services))
	for _, t := range l.Services {
		names = append(names, t.Name)
	}
	return names
}

// ProfessionalIDs returns the subject ids attached to the listing.
func (l *Listing) ProfessionalIDs() []int64 {
	ids := make([]int64, 0, len(l.Professionals))
	for _, s := range l.Professionals {
		ids = append(ids, s.ID)
	}
	return ids
}
