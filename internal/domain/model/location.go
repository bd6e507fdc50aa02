package model

// Location is a "find a store" listing. StoreID is filled in by name matching.
type Location struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID     *int64  `gorm:"index" json:"store_id"`
	StoreName   string  `gorm:"type:varchar(255);not null;index" json:"store_name"`
	Address     *string `gorm:"type:text" json:"address"`
	Area        *string `gorm:"type:varchar(100)" json:"area"`
	City        *string `gorm:"type:varchar(100);index" json:"city"`
	State       *string `gorm:"type:varchar(100)" json:"state"`
	Pincode     *string `gorm:"type:varchar(20)" json:"pincode"`
	Phone       *string `gorm:"type:varchar(50)" json:"phone"`
	OpeningTime *string `gorm:"type:varchar(20)" json:"opening_time"`
	ClosingTime *string `gorm:"type:varchar(20)" json:"closing_time"`

	Store *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:SET NULL" json:"-"`
}

func (l Location) AddressFields() StoreAddress {
	return StoreAddress{Address: l.Address, City: l.City, State: l.State, Pincode: l.Pincode, Phone: l.Phone}
}
