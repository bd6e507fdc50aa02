package model

const (
	ToppingTypeCrust  = "crust"
	ToppingTypeSauce  = "sauce"
	ToppingTypeCheese = "cheese"
	ToppingTypeMeat   = "meat"
	ToppingTypeVeggie = "veggie"
)

// Topping is a customization option. Specialty pizzas list their defaults
// through the pizza_toppings join table.
type Topping struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	Type string `gorm:"type:varchar(50);not null;index" json:"type"`
}
