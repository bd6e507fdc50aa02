package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type LineItemKind string

const (
	LineItemCatalog LineItemKind = "catalog"
	LineItemCustom  LineItemKind = "custom"
)

// LineItem is either a CatalogItem or a CustomItem.
type LineItem interface {
	Kind() LineItemKind
	DisplayName() string
	Price() decimal.Decimal
}

// CatalogItem references a menu product. Name and price are copies.
type CatalogItem struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
}

func (i CatalogItem) Kind() LineItemKind     { return LineItemCatalog }
func (i CatalogItem) DisplayName() string    { return i.Name }
func (i CatalogItem) Price() decimal.Decimal { return i.UnitPrice }

// CustomItem is a build-your-own pizza.
type CustomItem struct {
	Name       string
	UnitPrice  decimal.Decimal
	Attributes map[string]any
}

func (i CustomItem) Kind() LineItemKind     { return LineItemCustom }
func (i CustomItem) DisplayName() string    { return i.Name }
func (i CustomItem) Price() decimal.Decimal { return i.UnitPrice }

// OrderLine is one immutable row of an order snapshot.
type OrderLine struct {
	CartItemID int64
	Quantity   int64
	Item       LineItem
}

func (l OrderLine) LineTotal() decimal.Decimal {
	if l.Item == nil {
		return decimal.Zero
	}
	return l.Item.Price().Mul(decimal.NewFromInt(l.Quantity))
}

type orderLineJSON struct {
	ID         int64           `json:"id"`
	Kind       LineItemKind    `json:"kind,omitempty"`
	ProductID  *int64          `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CustomData map[string]any  `json:"custom_data"`
}

func (l OrderLine) MarshalJSON() ([]byte, error) {
	out := orderLineJSON{ID: l.CartItemID, Quantity: l.Quantity}
	switch it := l.Item.(type) {
	case CatalogItem:
		pid := it.ProductID
		out.Kind = LineItemCatalog
		out.ProductID = &pid
		out.Name = it.Name
		out.UnitPrice = it.UnitPrice
	case CustomItem:
		out.Kind = LineItemCustom
		out.Name = it.Name
		out.UnitPrice = it.UnitPrice
		out.CustomData = it.Attributes
	case nil:
		return nil, errors.New("order line has no item")
	default:
		return nil, fmt.Errorf("unknown line item %T", it)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts rows without "kind" (older snapshots): product_id decides.
func (l *OrderLine) UnmarshalJSON(b []byte) error {
	var in orderLineJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	kind := in.Kind
	if kind == "" {
		kind = LineItemCustom
		if in.ProductID != nil {
			kind = LineItemCatalog
		}
	}

	l.CartItemID = in.ID
	l.Quantity = in.Quantity
	switch kind {
	case LineItemCatalog:
		if in.ProductID == nil {
			return errors.New("catalog line without product_id")
		}
		l.Item = CatalogItem{ProductID: *in.ProductID, Name: in.Name, UnitPrice: in.UnitPrice}
	case LineItemCustom:
		l.Item = CustomItem{Name: in.Name, UnitPrice: in.UnitPrice, Attributes: in.CustomData}
	default:
		return fmt.Errorf("unknown line item kind %q", kind)
	}
	return nil
}
