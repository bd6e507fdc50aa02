package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// order_data / location are JSON snapshots taken at checkout
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          *int64          `gorm:"index" json:"user_id"`
	StoreID         *int64          `gorm:"index" json:"store_id"`
	OrderData       datatypes.JSON  `gorm:"not null" json:"order_data"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Location        datatypes.JSON  `json:"location,omitempty"`
	Status          OrderStatus     `gorm:"type:varchar(32);not null;default:'PENDING';index" json:"status"`
	PaymentIntentID *string         `gorm:"type:varchar(255);index" json:"payment_intent_id"`
	PaymentStatus   string          `gorm:"type:varchar(32);not null;default:'pending'" json:"payment_status"`
	PaymentMethod   *string         `gorm:"type:varchar(32)" json:"payment_method"`
	AcceptedAt      *time.Time      `json:"accepted_at"`
	RejectedAt      *time.Time      `json:"rejected_at"`
	UpdatedAt       *time.Time      `gorm:"autoUpdateTime:false" json:"updated_at"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
}

// DeliveryDetails is what the customer typed at checkout.
type DeliveryDetails struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	ZipCode       string `json:"zipCode"`
	PaymentMethod string `json:"paymentMethod"`
}

type OrderPayload struct {
	Delivery DeliveryDetails `json:"delivery"`
	Items    []OrderLine     `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Payload decodes order_data.
func (o Order) Payload() (OrderPayload, error) {
	var p OrderPayload
	if len(o.OrderData) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(o.OrderData, &p); err != nil {
		return OrderPayload{}, err
	}
	return p, nil
}

func NewOrderData(p OrderPayload) (datatypes.JSON, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// AmountCents is the smallest-unit amount sent to the payment provider.
func (o Order) AmountCents() int64 {
	return o.Total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
