package http

import (
	"context"
	"net/http"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/usecase"
	"github.com/gin-gonic/gin"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// FoodSearcher is the engine surface the handlers depend on
type FoodSearcher interface {
	SearchFoodsDetailed(ctx context.Context, raw string) usecase.SearchOutcome
	GetFoodByBarcode(ctx context.Context, raw string) *domain.FoodResult
	EnabledProviders() []string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searcher FoodSearcher
}

// NewHandler creates a new HTTP handler
func NewHandler(searcher FoodSearcher) *Handler {
	return &Handler{searcher: searcher}
}

// HealthCheck returns the health status of the API and the providers that have credentials
func (h *Handler) HealthCheck(c *gin.Context) {
	providers := []string{}
	if h.searcher != nil {
		providers = h.searcher.EnabledProviders()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "forc3-nutrition",
		"version":   Version,
		"providers": providers,
	})
}

// SearchResponse is the body of GET /api/v1/foods/search
type SearchResponse struct {
	Query   string              `json:"query"`
	Results []domain.FoodResult `json:"results"`
	Count   int                 `json:"count"`
	Cached  bool                `json:"cached"`
}

// SearchFoods handles free-text food search.
// A query that is too short is not an error; it just matches nothing.
func (h *Handler) SearchFoods(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Food search is not configured"})
		return
	}

	outcome := h.searcher.SearchFoodsDetailed(c.Request.Context(), c.Query("q"))

	results := outcome.Results
	if results == nil {
		results = []domain.FoodResult{}
	}

	cacheStatus := "MISS"
	if outcome.CacheHit {
		cacheStatus = "HIT"
	}
	c.Header("X-Cache", cacheStatus)

	c.JSON(http.StatusOK, SearchResponse{
		Query:   outcome.Query,
		Results: results,
		Count:   len(results),
		Cached:  outcome.CacheHit,
	})
}

// GetFoodByBarcode handles exact product lookup by barcode
func (h *Handler) GetFoodByBarcode(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Barcode lookup is not configured"})
		return
	}

	code, ok := usecase.NormalizeBarcode(c.Param("code"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Barcode must be 6 to 14 digits"})
		return
	}

	food := h.searcher.GetFoodByBarcode(c.Request.Context(), code)
	if food == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "barcode": code})
		return
	}

	c.JSON(http.StatusOK, food)
}
