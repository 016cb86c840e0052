package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/osikani/kente-storefront-api/internal/dto"
	"github.com/osikani/kente-storefront-api/internal/insights"
)

type InsightsHandler struct {
	insights *insights.Service
}

func NewInsightsHandler(insightsService *insights.Service) *InsightsHandler {
	return &InsightsHandler{insights: insightsService}
}

// GetPatternInsight returns the cultural background for a named Kente
// pattern. The page renders fine without it, so failures map to 503 and the
// client falls back to the product's own story text.
func (h *InsightsHandler) GetPatternInsight(c *gin.Context) {
	patternName := strings.TrimSpace(c.Param("pattern"))
	if patternName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pattern name is required"})
		return
	}

	insight, err := h.insights.Get(c.Request.Context(), patternName)
	if err != nil {
		if errors.Is(err, insights.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pattern insights unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.InsightResponse{
		PatternName:          patternName,
		CulturalSignificance: insight.CulturalSignificance,
		Story:                insight.Story,
	})
}
