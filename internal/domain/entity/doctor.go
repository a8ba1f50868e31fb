package entity

import "time"

// Doctor is a practitioner that owns one or more clinic listings.
// Email is the natural key used when importing.
type Doctor struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"type:varchar(200);not null" json:"name"`
	Photo       string     `gorm:"type:varchar(255)" json:"photo,omitempty"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Phone       string     `gorm:"type:varchar(50)" json:"phone"`
	Email       string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	IsMVP       bool       `gorm:"column:is_mvp;default:false" json:"is_mvp"`
	HireDate    *time.Time `json:"hire_date,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Listings []Listing `gorm:"foreignKey:DoctorID" json:"listings,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}
