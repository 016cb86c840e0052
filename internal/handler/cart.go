package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osikani/kente-storefront-api/internal/cart"
	"github.com/osikani/kente-storefront-api/internal/currency"
	"github.com/osikani/kente-storefront-api/internal/dto"
	"github.com/osikani/kente-storefront-api/internal/middleware"
	"github.com/osikani/kente-storefront-api/internal/service"
)

type CartHandler struct {
	carts          *cart.Store
	productService *service.ProductService
}

func NewCartHandler(carts *cart.Store, productService *service.ProductService) *CartHandler {
	return &CartHandler{carts: carts, productService: productService}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	code, ok := activeCurrency(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency"})
		return
	}
	c.JSON(http.StatusOK, toCartResponse(h.carts.Cart(middleware.GetUserID(c)), code))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code, ok := activeCurrency(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency"})
		return
	}

	// copy-on-add: the cart line carries a snapshot, not a live reference
	product, err := h.productService.Snapshot(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	userCart := h.carts.Cart(middleware.GetUserID(c))
	userCart.AddItem(*product, req.Quantity)
	c.JSON(http.StatusCreated, toCartResponse(userCart, code))
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code, ok := activeCurrency(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency"})
		return
	}

	userCart := h.carts.Cart(middleware.GetUserID(c))
	userCart.SetQuantity(productID, req.Quantity)
	c.JSON(http.StatusOK, toCartResponse(userCart, code))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}
	h.carts.Cart(middleware.GetUserID(c)).RemoveItem(productID)
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.carts.Cart(middleware.GetUserID(c)).Clear()
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) GetWishlist(c *gin.Context) {
	wishlist := h.carts.Wishlist(middleware.GetUserID(c))
	c.JSON(http.StatusOK, toWishlistResponse(wishlist, nil))
}

func (h *CartHandler) ToggleWishlist(c *gin.Context) {
	var req dto.ToggleWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Snapshot(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	wishlist := h.carts.Wishlist(middleware.GetUserID(c))
	inList := wishlist.Toggle(*product)
	c.JSON(http.StatusOK, toWishlistResponse(wishlist, &inList))
}

func toCartResponse(userCart *cart.Cart, code currency.Code) dto.CartResponse {
	lines := userCart.Items()
	items := make([]dto.CartItemResponse, 0, len(lines))
	for _, line := range lines {
		unit := line.Product.Price.Amount(code)
		items = append(items, dto.CartItemResponse{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			ImageURL:  line.Product.ImageURL,
			UnitPrice: unit,
			Quantity:  line.Quantity,
			LineTotal: unit.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	subtotal := userCart.Subtotal(code)
	return dto.CartResponse{
		Items:     items,
		ItemCount: userCart.ItemCount(),
		Currency:  code,
		Subtotal:  subtotal,
		Display:   currency.Format(code, subtotal),
	}
}

func toWishlistResponse(wishlist *cart.Wishlist, inList *bool) dto.WishlistResponse {
	products := wishlist.Products()
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		p := products[i]
		items = append(items, dto.ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			PatternName: p.PatternName,
			Price:       p.Price,
			Description: p.Description,
			Story:       p.Story,
			Category:    p.Category,
			Tags:        p.Tags,
			Images:      p.Images,
			ImageURL:    p.ImageURL,
			Featured:    p.Featured,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return dto.WishlistResponse{Products: items, Count: wishlist.Count(), InList: inList}
}
