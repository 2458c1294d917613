package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tidyhome-backend/internal/http/response"
	"github.com/yungbote/tidyhome-backend/internal/services"
)

type PricingHandler struct {
	pricing services.PricingService
}

func NewPricingHandler(pricing services.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

type quoteRequest struct {
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms"`
	Sqft      int      `json:"sqft"`
	Frequency string   `json:"frequency"`
	ExtraIDs  []string `json:"extra_ids"`
}

// GET /api/pricing/catalog
func (h *PricingHandler) GetCatalog(c *gin.Context) {
	response.RespondOK(c, gin.H{"catalog": h.pricing.Catalog()})
}

// POST /api/pricing/quote
func (h *PricingHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if !bindBody(c, &req) {
		return
	}
	q, err := h.pricing.Quote(services.QuoteInput{
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		Sqft:      req.Sqft,
		Frequency: req.Frequency,
		ExtraIDs:  req.ExtraIDs,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quote": q})
}
