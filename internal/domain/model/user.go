package model

import "time"

type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	Email        string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	Name         string  `gorm:"type:varchar(255)"`
	Phone        *string `gorm:"type:varchar(50)"`
	IsActive     bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
