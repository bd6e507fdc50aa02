package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Either ProductID or CustomData is set. UnitPrice is the price at add time.
type CartItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID     int64           `gorm:"not null;index" json:"cart_id"`
	ProductID  *int64          `gorm:"index" json:"product_id"`
	Quantity   int64           `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CustomData datatypes.JSON  `json:"custom_data,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"product,omitempty"`
}

// CustomAttributes decodes custom_data; nil when absent or not an object.
func (i CartItem) CustomAttributes() map[string]any {
	if len(i.CustomData) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(i.CustomData, &m); err != nil {
		return nil
	}
	return m
}
