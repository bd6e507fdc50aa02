package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductTypePizza   = "pizza"
	ProductTypeChicken = "chicken"
	ProductTypeDrink   = "drink"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	CategoryID  *int64          `gorm:"index" json:"category_id"`
	Type        string          `gorm:"type:varchar(50);not null;default:'pizza';index" json:"type"`
	Size        *string         `gorm:"type:varchar(50)" json:"size"`
	Sauce       *string         `gorm:"type:varchar(100)" json:"sauce"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`

	Category        *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
	DefaultToppings []Topping `gorm:"many2many:pizza_toppings;constraint:OnDelete:CASCADE" json:"default_toppings,omitempty"`
}
