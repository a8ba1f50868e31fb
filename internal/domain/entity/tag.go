package entity

// Tag is a free-text service label attached to listings.
// Tags are created the first time a listing references their name.
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:varchar(100);not null" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}
