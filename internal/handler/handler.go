package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/osikani/kente-storefront-api/internal/currency"
)

// activeCurrency resolves the session's display currency from the request.
// The client sets it from the shopper's locale; unset means USD.
func activeCurrency(c *gin.Context) (currency.Code, bool) {
	raw := c.Query("currency")
	if raw == "" {
		raw = c.GetHeader("X-Currency")
	}
	if raw == "" {
		return currency.USD, true
	}
	code := currency.Code(strings.ToUpper(raw))
	if !currency.Valid(code) {
		return "", false
	}
	return code, true
}
