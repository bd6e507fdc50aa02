package model

import "time"

// Store is a tenant. Deactivated, never deleted.
type Store struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Address   *string   `gorm:"type:text" json:"address"`
	City      *string   `gorm:"type:varchar(100)" json:"city"`
	State     *string   `gorm:"type:varchar(100)" json:"state"`
	Pincode   *string   `gorm:"type:varchar(20)" json:"pincode"`
	Phone     *string   `gorm:"type:varchar(50)" json:"phone"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// StoreAddress holds the optional address fields used when a store has to be created.
type StoreAddress struct {
	Address *string
	City    *string
	State   *string
	Pincode *string
	Phone   *string
}

func (a StoreAddress) IsZero() bool {
	return a.Address == nil && a.City == nil && a.State == nil && a.Pincode == nil && a.Phone == nil
}
