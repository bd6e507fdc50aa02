package model

// Category is a menu section such as "Specialty" or "Drinks".
type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
}

const CategorySpecialty = "Specialty"
