package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osikani/kente-storefront-api/internal/currency"
)

type User struct {
	ID          uuid.UUID
	Email       string
	Password    string
	DisplayName string
	PhoneNumber string
	PhotoURL    string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Category string

const (
	CategoryStolesSashes Category = "Stoles & Sashes"
	CategoryFullCloths   Category = "Full Cloths"
	CategoryAccessories  Category = "Accessories"
	CategoryReadyToWear  Category = "Ready-to-Wear"
)

var Categories = []Category{
	CategoryStolesSashes,
	CategoryFullCloths,
	CategoryAccessories,
	CategoryReadyToWear,
}

func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Tags is the fixed vocabulary products may be labelled with.
var Tags = []string{
	"Unisex",
	"For Men",
	"For Women",
	"Wedding",
	"Festival",
	"Everyday",
	"Traditional",
	"Naming Ceremony",
}

func ValidTag(tag string) bool {
	for _, known := range Tags {
		if tag == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uuid.UUID
	Name        string
	PatternName string
	Price       currency.PriceMap
	Description string
	Story       string
	Category    Category
	Tags        []string
	Images      []string
	ImageURL    string
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is a line-item snapshot taken at checkout. It carries no live
// reference back to the product; later product edits never touch it.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
}

type Order struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	OrderDate        time.Time
	TotalAmount      decimal.Decimal
	Currency         currency.Code
	ShippingAddress  string
	PaymentMethod    string
	Status           OrderStatus
	Items            []OrderItem
	PaymentReference string
	UpdatedAt        time.Time
}

// OrderPlacedMessage is published to the broker after an order persists.
type OrderPlacedMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}
