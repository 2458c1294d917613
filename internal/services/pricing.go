package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/tidyhome-backend/internal/domain/booking"
	"github.com/yungbote/tidyhome-backend/internal/modules/pricing"
	"github.com/yungbote/tidyhome-backend/internal/observability"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

// PricingService exposes the catalog in effect and prices bookings without persisting anything.
type PricingService interface {
	Catalog() pricing.Document
	Quote(in QuoteInput) (pricing.Quote, error)
}

type QuoteInput struct {
	Bedrooms  int
	Bathrooms int
	Sqft      int
	Frequency string
	ExtraIDs  []string
}

type pricingService struct {
	log     *logger.Logger
	catalog *pricing.Catalog
	metrics *observability.Metrics
}

func NewPricingService(baseLog *logger.Logger, catalog *pricing.Catalog, metrics *observability.Metrics) PricingService {
	if catalog == nil {
		catalog = pricing.Default()
	}
	return &pricingService{
		log:     baseLog.With("service", "PricingService"),
		catalog: catalog,
		metrics: metrics,
	}
}

func (s *pricingService) Catalog() pricing.Document {
	return s.catalog.Document()
}

func (s *pricingService) Quote(in QuoteInput) (pricing.Quote, error) {
	var problems []string
	if in.Bedrooms < 0 {
		problems = append(problems, "bedrooms must be >= 0")
	}
	if in.Bathrooms < 0 {
		problems = append(problems, "bathrooms must be >= 0")
	}
	if in.Sqft < 0 {
		problems = append(problems, "sqft must be >= 0")
	}
	if !booking.IsJobFrequency(in.Frequency) {
		problems = append(problems, fmt.Sprintf("frequency %q must be one of one-time, weekly, biweekly, monthly", in.Frequency))
	}
	if len(problems) > 0 {
		return pricing.Quote{}, invalid("Pricing.Quote", strings.Join(problems, "; "))
	}
	freq := booking.NormalizeFrequency(in.Frequency)
	q := s.catalog.Quote(in.Bedrooms, in.Bathrooms, in.Sqft, freq, in.ExtraIDs)
	s.metrics.IncQuote(freq)
	return q, nil
}
