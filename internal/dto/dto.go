package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osikani/kente-storefront-api/internal/currency"
	"github.com/osikani/kente-storefront-api/internal/model"
)

// --- Auth / account ---

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	PhoneNumber *string `json:"phone_number"`
	PhotoURL    *string `json:"photo_url"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Role        string    `json:"role"`
}

// --- Product ---

type CreateProductRequest struct {
	Name        string            `json:"name" binding:"required,min=3"`
	PatternName string            `json:"pattern_name" binding:"required,min=3"`
	Price       currency.PriceMap `json:"price" binding:"required"`
	Description string            `json:"description" binding:"required,min=10"`
	Story       string            `json:"story" binding:"required,min=10"`
	Category    model.Category    `json:"category" binding:"required"`
	Tags        []string          `json:"tags" binding:"required,min=1"`
	Images      []string          `json:"images"`
	ImageURL    string            `json:"image_url" binding:"required,url"`
	Featured    bool              `json:"featured"`
}

type UpdateProductRequest struct {
	Name        *string            `json:"name"`
	PatternName *string            `json:"pattern_name"`
	Price       *currency.PriceMap `json:"price"`
	Description *string            `json:"description"`
	Story       *string            `json:"story"`
	Category    *model.Category    `json:"category"`
	Tags        *[]string          `json:"tags"`
	Images      *[]string          `json:"images"`
	ImageURL    *string            `json:"image_url"`
	Featured    *bool              `json:"featured"`
}

type ListProductsRequest struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	Limit    int    `form:"limit,default=20" binding:"min=1,max=100"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Featured *bool  `form:"featured"`
	Sort     string `form:"sort,default=created_at" binding:"oneof=name pattern_name created_at"`
	Order    string `form:"order,default=desc" binding:"oneof=asc desc"`
}

type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	PatternName string            `json:"pattern_name"`
	Price       currency.PriceMap `json:"price"`
	Description string            `json:"description"`
	Story       string            `json:"story"`
	Category    model.Category    `json:"category"`
	Tags        []string          `json:"tags"`
	Images      []string          `json:"images"`
	ImageURL    string            `json:"image_url"`
	Featured    bool              `json:"featured"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// --- Cart / wishlist ---

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Currency  currency.Code      `json:"currency"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Display   string             `json:"display_subtotal"`
}

type ToggleWishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

type WishlistResponse struct {
	Products []ProductResponse `json:"products"`
	Count    int               `json:"count"`
	InList   *bool             `json:"in_list,omitempty"`
}

// --- Checkout / order ---

type CheckoutRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Line1         string `json:"address" binding:"required"`
	City          string `json:"city" binding:"required"`
	Region        string `json:"region"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type GatewaySessionResponse struct {
	CheckoutID uuid.UUID       `json:"checkout_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   currency.Code   `json:"currency"`
	Deadline   time.Time       `json:"deadline"`
}

type GatewayConfirmRequest struct {
	CheckoutID uuid.UUID `json:"checkout_id" binding:"required"`
	Reference  string    `json:"reference" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
}

type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	UserID           uuid.UUID           `json:"user_id"`
	OrderDate        time.Time           `json:"order_date"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Currency         currency.Code       `json:"currency"`
	ShippingAddress  string              `json:"shipping_address"`
	PaymentMethod    string              `json:"payment_method"`
	Status           model.OrderStatus   `json:"status"`
	Items            []OrderItemResponse `json:"items"`
	PaymentReference string              `json:"payment_reference,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// --- Insights ---

type InsightResponse struct {
	PatternName          string `json:"pattern_name"`
	CulturalSignificance string `json:"cultural_significance"`
	Story                string `json:"story"`
}
