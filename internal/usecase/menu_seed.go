package usecase

import (
	"context"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/logger"
	repo "pizzeria/internal/repository"

	"github.com/shopspring/decimal"
)

// MenuSeeder loads the starter menu and sample store locations into an
// empty database. Each part is skipped once its table has rows.
type MenuSeeder struct {
	tx repo.TransactionManager
}

func NewMenuSeeder(tx repo.TransactionManager) *MenuSeeder {
	return &MenuSeeder{tx: tx}
}

type SeedResult struct {
	Categories int `json:"categories"`
	Toppings   int `json:"toppings"`
	Products   int `json:"products"`
	Locations  int `json:"locations"`
}

type seedProduct struct {
	name        string
	description string
	category    string
	typ         string
	size        string
	sauce       string
	price       string
	toppings    []string
}

var seedCategories = []string{"Build Your Own", model.CategorySpecialty, "Vegetarian", "Chicken", "Drinks"}

var seedToppings = []model.Topping{
	{Name: "Original Crust", Type: model.ToppingTypeCrust},
	{Name: "Thin Crust", Type: model.ToppingTypeCrust},
	{Name: "Tomato Sauce", Type: model.ToppingTypeSauce},
	{Name: "Mozzarella", Type: model.ToppingTypeCheese},
	{Name: "Cheddar", Type: model.ToppingTypeCheese},
	{Name: "Pepperoni", Type: model.ToppingTypeMeat},
	{Name: "Italian Sausage", Type: model.ToppingTypeMeat},
	{Name: "Beef", Type: model.ToppingTypeMeat},
	{Name: "Bacon", Type: model.ToppingTypeMeat},
	{Name: "Bell Peppers", Type: model.ToppingTypeVeggie},
	{Name: "Mushrooms", Type: model.ToppingTypeVeggie},
	{Name: "Onions", Type: model.ToppingTypeVeggie},
	{Name: "Black Olives", Type: model.ToppingTypeVeggie},
	{Name: "Banana Peppers", Type: model.ToppingTypeVeggie},
	{Name: "Jalapeño Peppers", Type: model.ToppingTypeVeggie},
}

const (
	lotsaDesc = "Our specialty Lotsa Meat Pizza is topped with Italian sausage, savory beef, " +
		"tender bacon, and zesty pepperoni."
	loadedDesc = "Italian sausage, pepperoni, bacon, beef, bell peppers, mushrooms, onions, " +
		"black olives, banana peppers and jalapeños."
	breakfastDesc = "Scrambled eggs, chopped bacon, breakfast sausage and a blend of mozzarella " +
		"and cheddar on our buttered original crust."
	meatFreeDesc = "Meat-free options only. Choose crust, add more cheese, extra veggie toppings."
	medium       = `12" Medium`
	tomato       = "Tomato Sauce"
)

var (
	meatToppings   = []string{"Pepperoni", "Italian Sausage", "Beef", "Bacon"}
	loadedToppings = []string{
		"Pepperoni", "Italian Sausage", "Beef", "Bacon",
		"Bell Peppers", "Mushrooms", "Onions", "Black Olives", "Banana Peppers", "Jalapeño Peppers",
	}
)

// name, description, category, type, size, sauce, price, default toppings
var seedProducts = []seedProduct{
	{"Build Your Own", "Choose your crust, sauce, cheese, and toppings to create your perfect pizza", "Build Your Own", model.ProductTypePizza, "", "", "9.99", nil},
	{"Lotsa Meat Pizza", lotsaDesc, model.CategorySpecialty, model.ProductTypePizza, medium, tomato, "14.99", meatToppings},
	{"Loaded", loadedDesc, model.CategorySpecialty, model.ProductTypePizza, medium, tomato, "15.99", loadedToppings},
	{"Breakfast", breakfastDesc, model.CategorySpecialty, model.ProductTypePizza, "", "", "12.99", nil},
	{"Cheese Pizza", meatFreeDesc, "Vegetarian", model.ProductTypePizza, "", "", "10.99", nil},
	{"Veggie Pizza", meatFreeDesc, "Vegetarian", model.ProductTypePizza, "", "", "12.49", nil},
	{"Southern Style Wings", "", "Chicken", model.ProductTypeChicken, "", "", "8.99", nil},
	{"Hot n Spicy Wings", "", "Chicken", model.ProductTypeChicken, "", "", "8.99", nil},
	{"Homestyle WingBites", "", "Chicken", model.ProductTypeChicken, "", "", "7.99", nil},
	{"Buffalo WingBites", "", "Chicken", model.ProductTypeChicken, "", "", "7.99", nil},
	{"Coke", "Classic 20oz bottle", "Drinks", model.ProductTypeDrink, "", "", "2.49", nil},
	{"Pepsi", "Classic 20oz bottle", "Drinks", model.ProductTypeDrink, "", "", "2.49", nil},
	{"Sprite", "Lemon-lime 20oz bottle", "Drinks", model.ProductTypeDrink, "", "", "2.49", nil},
	{"Water", "Bottled water 20oz", "Drinks", model.ProductTypeDrink, "", "", "1.49", nil},
}

func strPtr(s string) *string { return &s }

func sampleLocation(name, address, area, pincode, phone string) model.Location {
	l := model.Location{
		StoreName:   name,
		Address:     &address,
		City:        strPtr("DALLAS"),
		State:       strPtr("TX"),
		Pincode:     &pincode,
		Phone:       &phone,
		OpeningTime: strPtr("09:00"),
		ClosingTime: strPtr("21:00"),
	}
	if area != "" {
		l.Area = &area
	}
	return l
}

func seedLocations() []model.Location {
	return []model.Location{
		sampleLocation("JEREMY'S GROCERY", "3444 EAST ILLINOIS AVE", "East Illinois", "75216", "(214) 374-5357"),
		sampleLocation("CASH SAVER - CAMP WISDOM", "1201 WEST CAMP WISDOM RD", "Camp Wisdom", "75232", "(214) 376-2347"),
		sampleLocation("CIRCLE M STORE 1", "3401 SAIN FRANCIS AVENUE", "", "75228", "(469) 677-0771"),
		sampleLocation("HAPPY MART", "4302 WEST CAMP WISDOM RD", "West Camp Wisdom", "75237", "(214) 918-9942"),
		sampleLocation("CASH SAVER - LEDBETTER", "2130 EAST LEDBETTER DR", "Ledbetter", "75216", "(214) 374-3237"),
		sampleLocation("EAT ZONE", "3003 E ILLINOIS AVE STE 1", "East Illinois", "75216", "(214) 376-9663"),
		sampleLocation("EXPRESS MART MOBIL", "4010 SOUTH WALTON WALKER BOULEVARD", "South Walton Walker", "75236", "(214) 484-1318"),
		sampleLocation("EAGLE EXPRESS", "8661 SOUTH HAMPTON ROAD", "South Hampton", "75232", "(806) 282-2901"),
	}
}

// Seed runs in one transaction; a partial seed is never committed.
func (s *MenuSeeder) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult
	err := s.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		n, err := r.Menu().CountCategories(ctx)
		if err != nil {
			return internal("count categories", err)
		}
		if n == 0 {
			if err := seedMenu(ctx, r, &res); err != nil {
				return err
			}
		}

		n, err = r.Locations().Count(ctx)
		if err != nil {
			return internal("count locations", err)
		}
		if n == 0 {
			for _, l := range seedLocations() {
				if err := r.Locations().Upsert(ctx, &l); err != nil {
					return internal("seed location", err)
				}
				res.Locations++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	logger.WithCtx(ctx).Info("seed finished",
		"categories", res.Categories, "toppings", res.Toppings, "products", res.Products, "locations", res.Locations)
	return res, nil
}

func seedMenu(ctx context.Context, r repo.TxRepos, res *SeedResult) error {
	categoryID := make(map[string]int64, len(seedCategories))
	for _, name := range seedCategories {
		c := model.Category{Name: name}
		if err := r.Menu().CreateCategory(ctx, &c); err != nil {
			return internal("seed category", err)
		}
		categoryID[name] = c.ID
		res.Categories++
	}

	toppingByName := make(map[string]model.Topping, len(seedToppings))
	for _, t := range seedToppings {
		if err := r.Menu().CreateTopping(ctx, &t); err != nil {
			return internal("seed topping", err)
		}
		toppingByName[t.Name] = t
		res.Toppings++
	}

	for _, sp := range seedProducts {
		cid := categoryID[sp.category]
		p := model.Product{
			Name:        sp.name,
			Description: sp.description,
			CategoryID:  &cid,
			Type:        sp.typ,
			BasePrice:   decimal.RequireFromString(sp.price),
			IsActive:    true,
		}
		if sp.size != "" {
			p.Size = strPtr(sp.size)
		}
		if sp.sauce != "" {
			p.Sauce = strPtr(sp.sauce)
		}
		for _, name := range sp.toppings {
			p.DefaultToppings = append(p.DefaultToppings, toppingByName[name])
		}
		if err := r.Products().Create(ctx, &p); err != nil {
			return internal("seed product", err)
		}
		res.Products++
	}
	return nil
}
