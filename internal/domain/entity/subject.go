package entity

// Subject is a medical specialty label. Name is unique.
type Subject struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

func (Subject) TableName() string {
	return "subjects"
}
