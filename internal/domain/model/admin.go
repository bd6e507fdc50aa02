package model

import "time"

const AdminRoleStoreAdmin = "STORE_ADMIN"

type Admin struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     *string   `gorm:"type:varchar(100);uniqueIndex"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        *string   `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Phone        *string   `gorm:"type:varchar(50)"`
	StoreID      *int64    `gorm:"index"`
	Role         string    `gorm:"type:varchar(32);not null;default:'STORE_ADMIN'"`
	IsActive     bool      `gorm:"not null;default:true"`
	IsFirstLogin bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"`

	Store *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:SET NULL"`
}
