package pricing

import "math"

// Quote is the itemized result of pricing one booking.
type Quote struct {
	BedroomCost  float64 `json:"bedroom_cost"`
	BathroomCost float64 `json:"bathroom_cost"`
	SqftCost     float64 `json:"sqft_cost"`
	ExtrasCost   float64 `json:"extras_cost"`
	Subtotal     float64 `json:"subtotal"`
	DiscountRate float64 `json:"discount_rate"`
	Total        float64 `json:"total"`
	Extras       []Extra `json:"extras"`
}

// Quote prices a booking. Unknown extra ids and unknown frequencies are
// tolerated: they contribute nothing and give no discount respectively.
func (c *Catalog) Quote(bedrooms, bathrooms, sqft int, frequency string, extraIDs []string) Quote {
	q := Quote{
		BedroomCost:  float64(bedrooms) * c.doc.PricePerBedroom,
		BathroomCost: float64(bathrooms) * c.doc.PricePerBathroom,
		SqftCost:     c.SqftPrice(sqft),
		Extras:       c.ResolveExtras(extraIDs),
	}
	for _, e := range q.Extras {
		q.ExtrasCost += e.Price
	}
	q.Subtotal = q.BedroomCost + q.BathroomCost + q.SqftCost + q.ExtrasCost
	q.DiscountRate = c.Discount(frequency)
	q.Total = RoundCents(q.Subtotal * (1 - q.DiscountRate))
	return q
}

// Calculate returns the rounded total for a booking.
func (c *Catalog) Calculate(bedrooms, bathrooms, sqft int, frequency string, extraIDs []string) float64 {
	return c.Quote(bedrooms, bathrooms, sqft, frequency, extraIDs).Total
}

// RoundCents rounds half away from zero to 2 decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
